package main

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/framefill/internal/core"
	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/spf13/cobra"
)

func newFillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <file>",
		Short: "Replace the frame chain's text with a column of the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := a.loadLayout()
			if err != nil {
				return report(cmd, err)
			}
			defer layout.Close()

			svc := core.NewService(layout, nil, nil)
			if _, err := a.fill(cmd.Context(), cmd, svc, layout, args[0]); err != nil {
				return report(cmd, err)
			}
			return nil
		},
	}
}

// fill runs one fill, saves the layout when configured and prints the
// outcome. An overflow is printed as a warning on stderr and is not an error.
func (a *app) fill(ctx context.Context, cmd *cobra.Command, svc *core.Service, layout *document.Layout, path string) (*core.Result, error) {
	opts, err := a.cfg.FillOptions()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := svc.UpdateFromFile(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	if a.cfg.Layout.Save {
		if err := layout.Save(a.cfg.Layout.Path); err != nil {
			return nil, fmt.Errorf("save layout: %w", err)
		}
	}

	if res.Warning != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s %s\n", res.Warning.Message, res.Warning.Action)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	}
	return res, nil
}
