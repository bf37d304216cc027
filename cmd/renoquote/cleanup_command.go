package main

import (
	"github.com/spf13/cobra"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var jsonOut, showPasses bool

	cmd := &cobra.Command{
		Use:   "cleanup [run-dir]",
		Short: "Clean, total and render a run's aggregated estimate",
		Long: "Rerun aggregation (when group outputs exist), the cleanup passes and rendering for a run directory.\n" +
			"Without an argument the newest run is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := ctx.resolveRunDir(args)
			if err != nil {
				return err
			}
			pipeline, err := ctx.pipeline(cfg.Cleanup.LLMDedupe)
			if err != nil {
				return err
			}
			res, err := pipeline.Finish(cmd.Context(), path)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, newResultView(res))
			}
			out := cmd.OutOrStdout()
			if showPasses {
				printCleanupReport(out, res.Cleanup)
			}
			printResult(out, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the summary as JSON")
	cmd.Flags().BoolVar(&showPasses, "passes", false, "Show item counts for each cleanup pass")
	return cmd
}
