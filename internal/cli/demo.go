package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/akowalsk/scopeview/pkg/capture"
)

// demoCommand creates the demo command.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		outPath    string
		listenAddr string
		width      int
		height     int
		store      storeFlags
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Open a generated demo capture",
		Long: `Demo generates a synthetic multi-channel capture (sine, square,
decaying pulse and a digital strobe) and opens it in the viewer. With
--out it writes the capture file instead of opening it, which is handy
as a starting point for the capture file format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			demo := capture.Demo()

			if outPath != "" {
				if err := demo.Save(outPath); err != nil {
					return err
				}
				printSuccess("Wrote demo capture")
				printFile(outPath)
				return nil
			}

			// Round-trip through a temp file so the viewer exercises the
			// same load path as real captures.
			dir, err := os.MkdirTemp("", appName+"-demo-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)
			path := filepath.Join(dir, "demo.json")
			if err := demo.Save(path); err != nil {
				return err
			}

			return c.runViewer(cmd.Context(), viewerConfig{
				capturePath: path,
				listenAddr:  listenAddr,
				width:       width,
				height:      height,
				store:       store,
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the capture file instead of opening it")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "serve the remote control API on this address (e.g. :8090)")
	cmd.Flags().IntVar(&width, "width", defaultWindowWidth, "window width")
	cmd.Flags().IntVar(&height, "height", defaultWindowHeight, "window height")
	store.register(cmd)

	return cmd
}
