package main

import (
	"fmt"

	"github.com/JonMunkholm/framefill/internal/core"
	"github.com/spf13/cobra"
)

func newPreviewCmd(a *app) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Print the first values that a fill would insert",
		Long: `preview extracts the configured column without opening the layout and
prints the first n values quoted, so stray quotes, BOMs and line breaks
are visible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.CSV.ExtractOptions()
			if err != nil {
				return report(cmd, err)
			}
			if !cmd.Flags().Changed("rows") {
				n = a.cfg.CSV.PreviewRows
			}

			// Preview never touches the document, so no layout is loaded.
			preview, err := core.NewService(nil, nil, nil).Preview(args[0], n, opts)
			if err != nil {
				return report(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "First %d of %d values from %s:\n", len(preview.Rows), preview.Total, preview.Source)
			for _, line := range preview.Rows {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "rows", "n", 3, "number of values to show (CSV_PREVIEW_ROWS)")
	return cmd
}
