package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate one project claim file (YAML or JSON)",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	reqs, err := readRequests(args[0])
	if err != nil {
		return err
	}
	if len(reqs) != 1 {
		return fmt.Errorf("%s holds %d projects; use batch", args[0], len(reqs))
	}

	e, err := newEngine()
	if err != nil {
		return err
	}

	v, err := e.runner.Run(cmd.Context(), reqs[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), v)
}
