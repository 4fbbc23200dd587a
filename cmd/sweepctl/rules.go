package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [cell...]",
	Short: "Print the solver constraint set after opening cells",
	Long: `Rules starts a game, uncovers the given cells in order and prints the
constraint set a solver would receive.

Example:
  sweepctl rules --preset beginner --seed 7 4-4
  sweepctl rules --kind hex --width 8 --height 8 --mines 10 --everything 3-3`,
	RunE: runRules,
}

func init() {
	addGameFlags(rulesCmd)
	rulesCmd.Flags().Bool("everything", false, "describe the whole board, not only the frontier")
}

func runRules(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	for _, cell := range args {
		if _, err := s.Uncover(cell); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(s.Rules(cfg.GetBool("everything")))
}
