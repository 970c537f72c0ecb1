package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/framefill/internal/core"
	"github.com/JonMunkholm/framefill/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Fill once, then again every time the file changes",
		Long: `watch fills the frame chain from the file and keeps running, re-filling
after each save. Failed fills are reported and watching continues.
Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			layout, err := a.loadLayout()
			if err != nil {
				return report(cmd, err)
			}
			defer layout.Close()

			svc := core.NewService(layout, nil, nil)
			path := args[0]

			refill := func(ctx context.Context) error {
				if _, err := a.fill(ctx, cmd, svc, layout, path); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), core.FormatUserError(err))
					return err
				}
				return nil
			}

			// The first fill must succeed; later failures only warn.
			if err := refill(ctx); err != nil {
				return fmt.Errorf("%w: %w", errReported, err)
			}

			w, err := watch.New(path, a.cfg.Watch.Debounce, refill)
			if err != nil {
				return report(cmd, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl-C to stop)\n", w.Path())
			return w.Run(ctx)
		},
	}
}
