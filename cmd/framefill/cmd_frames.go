package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFramesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "frames",
		Short: "List frame chains with their text length and overflow state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := a.loadLayout()
			if err != nil {
				return report(cmd, err)
			}
			defer layout.Close()

			chains, err := layout.Chains()
			if err != nil {
				return report(cmd, err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHAIN\tFRAMES\tCHARS\tSTATUS")
			for _, c := range chains {
				status := "fits"
				if c.Overflow {
					status = "overflow"
				}
				head := c.Head
				if head == a.cfg.Frame.Name {
					head += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", head, strings.Join(c.Frames, " -> "), c.TextLength, status)
			}
			return tw.Flush()
		},
	}
}
