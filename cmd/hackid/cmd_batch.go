package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/hackid/internal/validations"
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Validate every project in the given claim files with pacing",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	var reqs []validations.Request
	for _, path := range args {
		r, err := readRequests(path)
		if err != nil {
			return err
		}
		reqs = append(reqs, r...)
	}

	e, err := newEngine()
	if err != nil {
		return err
	}

	results := runAll(cmd.Context(), e, reqs)
	return writeJSON(cmd.OutOrStdout(), validations.BatchResponse{
		Results: results,
		Summary: validations.Summarize(results),
	})
}

// runAll validates reqs under the engine's pacing. Projects not started
// before ctx ends are reported with the cancellation error.
func runAll(ctx context.Context, e *engine, reqs []validations.Request) []validations.BatchResult {
	results := make([]validations.BatchResult, len(reqs))
	for i, r := range reqs {
		results[i].RepoURL = r.RepoURL
	}

	err := e.pacer.Run(ctx, len(reqs), func(ctx context.Context, i int) {
		v, err := e.runner.Run(ctx, reqs[i])
		if err != nil {
			results[i].Error = err.Error()
			return
		}
		results[i].Validation = v
	})
	if err != nil {
		for i := range results {
			if results[i].Validation == nil && results[i].Error == "" {
				results[i].Error = err.Error()
			}
		}
	}
	return results
}
