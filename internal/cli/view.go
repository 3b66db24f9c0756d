package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/akowalsk/scopeview/internal/display"
	"github.com/akowalsk/scopeview/internal/remote"
	"github.com/akowalsk/scopeview/pkg/capture"
	"github.com/akowalsk/scopeview/pkg/prefs"
	"github.com/akowalsk/scopeview/pkg/session"
)

// viewCommand creates the view command, the interactive waveform viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		configPath string
		listenAddr string
		width      int
		height     int
		store      storeFlags
	)

	cmd := &cobra.Command{
		Use:   "view [capture]",
		Short: "Open a capture in the interactive viewer",
		Long: `View opens a waveform capture file in the interactive viewer.

With a capture file argument the viewer opens it directly. With a
directory argument (or no argument, meaning the current directory) an
interactive picker lists the capture files found there.

Markers placed in the viewer are persisted per capture in the selected
store and restored the next time the same capture is opened.

Keys inside the viewer:
  C       cycle cursor mode (off, single, dual)
  M       drop a marker at the pointer
  P       toggle persistence display
  X       close the hovered waveform area
  Esc, Q  quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			capPath, err := resolveCapturePath(path)
			if err != nil {
				return err
			}
			if capPath == "" {
				return nil // picker dismissed
			}
			return c.runViewer(cmd.Context(), viewerConfig{
				capturePath: capPath,
				configPath:  configPath,
				listenAddr:  listenAddr,
				width:       width,
				height:      height,
				store:       store,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "preferences file (TOML)")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "serve the remote control API on this address (e.g. :8090)")
	cmd.Flags().IntVar(&width, "width", defaultWindowWidth, "window width")
	cmd.Flags().IntVar(&height, "height", defaultWindowHeight, "window height")
	store.register(cmd)

	return cmd
}

// viewerConfig collects everything runViewer needs.
type viewerConfig struct {
	capturePath string
	configPath  string
	listenAddr  string
	width       int
	height      int
	store       storeFlags
}

// runViewer loads the capture and its markers, runs the viewer until it
// exits, then saves markers back to the store.
func (c *CLI) runViewer(ctx context.Context, cfg viewerConfig) error {
	logger := loggerFromContext(ctx)

	p := newProgress(logger)
	cap, err := capture.Load(cfg.capturePath)
	if err != nil {
		return err
	}
	p.done("Loaded " + cap.Name)

	pf := prefs.Default()
	if cfg.configPath != "" {
		if pf, err = prefs.Load(cfg.configPath); err != nil {
			return err
		}
	}

	store, err := cfg.store.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sess := session.New(pf)
	if err := sess.LoadMarkers(ctx, store, cap.ID); err != nil {
		logger.Warn("could not load markers", "err", err)
	}

	host := display.New(display.Config{
		Title:  appName + " - " + cap.Name,
		Width:  cfg.width,
		Height: cfg.height,
	}, sess, cap, logger)

	if cfg.listenAddr != "" {
		srv := remote.New(host, logger)
		srvCtx, stopSrv := context.WithCancel(ctx)
		defer stopSrv()
		go func() {
			if err := srv.ListenAndServe(srvCtx, cfg.listenAddr); err != nil {
				logger.Error("remote control failed", "err", err)
			}
		}()
	}

	logger.Info("starting viewer", "capture", cfg.capturePath, "channels", len(cap.Channels))
	if err := host.Run(); err != nil {
		return err
	}

	if err := sess.SaveMarkers(ctx, store, cap.ID); err != nil {
		logger.Warn("could not save markers", "err", err)
	}
	return nil
}

// resolveCapturePath turns the view argument into a concrete capture
// file. Directories go through the interactive picker; the empty string
// return means the user dismissed it without choosing.
func resolveCapturePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	return pickCapture(path)
}
