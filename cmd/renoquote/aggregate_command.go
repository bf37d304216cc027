package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"renoquote/internal/aggregate"
	"renoquote/internal/workflow"
)

func newAggregateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate [run-dir]",
		Short: "Merge a run's group outputs into aggregated_chunked_estimate.csv",
		Long:  "Parse every estimate_output_chunk_N.txt in a run directory. Without an argument the newest run is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			path, err := ctx.resolveRunDir(args)
			if err != nil {
				return err
			}
			dir, err := workflow.OpenRunDir(path)
			if err != nil {
				return err
			}
			defer dir.Release()

			result, err := aggregate.Run(cmd.Context(), dir.Path, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsed %d of %d outputs: %d items, %d repeats dropped\n",
				result.Parsed, result.Files, len(result.Items), result.Duplicates)
			fmt.Fprintf(out, "Wrote %s\n", result.CSVPath)
			return nil
		},
	}
}
