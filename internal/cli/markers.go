package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/akowalsk/scopeview/pkg/capture"
	"github.com/akowalsk/scopeview/pkg/unit"
)

// markersCommand creates the markers command group for inspecting a
// capture's saved markers without opening the viewer.
func (c *CLI) markersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "Inspect saved markers for a capture",
	}
	cmd.AddCommand(c.markersListCommand())
	cmd.AddCommand(c.markersClearCommand())
	return cmd
}

func (c *CLI) markersListCommand() *cobra.Command {
	var store storeFlags

	cmd := &cobra.Command{
		Use:   "list <capture>",
		Short: "List markers saved for a capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cap, err := capture.Load(args[0])
			if err != nil {
				return err
			}
			st, err := store.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			markers, err := st.Load(cmd.Context(), cap.ID)
			if err != nil {
				return err
			}
			if len(markers) == 0 {
				printInfo("No markers saved for %s", cap.Name)
				return nil
			}

			printKeyValue("Capture", cap.Name)
			timestamps := make([]int64, 0, len(markers))
			for ts := range markers {
				timestamps = append(timestamps, ts)
			}
			sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

			total := 0
			for _, ts := range timestamps {
				printDetail("acquisition %s", time.Unix(ts, 0).UTC().Format(time.RFC3339))
				for _, m := range markers[ts] {
					fmt.Printf("    %s %s\n",
						StyleHighlight.Render(m.Name+":"),
						StyleValue.Render(unit.Femtoseconds.PrettyPrint(float64(m.Offset))))
					total++
				}
			}
			printNewline()
			printSuccess("%d markers", total)
			return nil
		},
	}

	store.register(cmd)
	return cmd
}

func (c *CLI) markersClearCommand() *cobra.Command {
	var store storeFlags

	cmd := &cobra.Command{
		Use:   "clear <capture>",
		Short: "Delete all markers saved for a capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cap, err := capture.Load(args[0])
			if err != nil {
				return err
			}
			st, err := store.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Save(cmd.Context(), cap.ID, nil); err != nil {
				return err
			}
			printSuccess("Cleared markers for %s", cap.Name)
			return nil
		},
	}

	store.register(cmd)
	return cmd
}
