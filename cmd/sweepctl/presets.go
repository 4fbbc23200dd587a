package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the named boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSHAPE\tMINES")
		for _, p := range c.All() {
			mines := fmt.Sprint(p.Mines)
			if p.MineProb > 0 {
				mines = fmt.Sprintf("p=%.2f", p.MineProb)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Topology, mines)
		}
		return w.Flush()
	},
}
