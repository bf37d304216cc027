package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"renoquote/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var transcript, scan, transcriptDir string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Estimate a project from a call transcript and a room scan",
		Example: "  renoquote run --transcript call.json --scan polycam.pdf\n" +
			"  renoquote run --transcript-dir ./transcript_chunks --scan polycam.pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireLLM(); err != nil {
				return err
			}
			var req workflow.Request
			if req.Transcript, err = expandOptional(transcript); err != nil {
				return err
			}
			if req.Scan, err = expandOptional(scan); err != nil {
				return err
			}
			if req.TranscriptDir, err = expandOptional(transcriptDir); err != nil {
				return err
			}

			pipeline, err := ctx.pipeline(true)
			if err != nil {
				return err
			}
			res, err := pipeline.Run(cmd.Context(), req)
			if err != nil {
				if res.RunDir != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Run directory: %s\n", res.RunDir)
				}
				return err
			}
			if jsonOut {
				return writeJSON(cmd, newResultView(res))
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&transcript, "transcript", "t", "", "Transcript file (PDF, meeting-notes JSON or text)")
	cmd.Flags().StringVarP(&scan, "scan", "s", "", "Measurement scan export (Polycam PDF)")
	cmd.Flags().StringVar(&transcriptDir, "transcript-dir", "", "Directory of chunk_N.txt files; skips extraction and chunking")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run summary as JSON")
	return cmd
}
