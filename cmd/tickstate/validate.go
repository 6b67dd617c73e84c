package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tickstate/pkg/scenario"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a scenario file for errors",
		Long:  `Parses the scenario and reports unknown states, unknown action kinds and malformed params.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scenario %q is valid: %d states, %d scheduled changes\n",
				s.Name, len(s.States), len(s.Schedule))
			return nil
		},
	}
}
