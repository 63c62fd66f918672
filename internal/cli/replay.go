package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keys/internal/input/macro"
	"github.com/dshills/keys/internal/input/source"
	"github.com/dshills/keys/internal/screen"
)

func newReplayCommand(rt *runtime) *cobra.Command {
	var (
		width, height int
		speed         float64
	)

	cmd := &cobra.Command{
		Use:   "replay <recording>",
		Short: "Replay a recorded demo session",
		Long: `Replay key events saved by demo --record against a fresh mail client
and print the final screen.

The demo is set up exactly as the demo command would, so the same
bindings file, scripts and environment apply. Playback stops early when
the quit shortcut is replayed.

Examples:
  keys demo --record session.json
  keys replay session.json
  keys replay session.json --width 120 --height 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < 1 || height < 1 {
				return fmt.Errorf("invalid screen size %dx%d", width, height)
			}
			m, err := macro.Load(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			src := source.NewMemory()
			canvas := screen.NewNull(width, height)
			d, err := rt.newDemo(src, canvas, cancel)
			if err != nil {
				return err
			}
			defer d.Close()

			d.draw()
			err = macro.NewPlayer(macro.WithSpeed(speed)).Play(ctx, m, src, 1)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), canvas.Text())
			rt.logger.Info("[input] replayed", "path", args[0], "steps", len(m.Steps))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 100, "Screen width")
	cmd.Flags().IntVar(&height, "height", 20, "Screen height")
	cmd.Flags().Float64Var(&speed, "speed", 0, "Playback speed relative to the recording, 0 for no delays")
	return cmd
}
