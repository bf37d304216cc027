package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"renoquote/internal/chunking"
	"renoquote/internal/tokens"
	"renoquote/internal/workflow"
)

func newChunkCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var maxTokens, overlap int

	cmd := &cobra.Command{
		Use:   "chunk <file>",
		Short: "Extract a transcript or takeoff and split it into chunk files",
		Long: "Extract text from a PDF, meeting-notes JSON or text file and write chunk_N.txt files.\n" +
			"Files whose name contains \"takeoff\" are split on sentence and line boundaries instead of transcript windows.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input, err := expandOptional(args[0])
			if err != nil {
				return err
			}
			dir := strings.TrimSpace(outputDir)
			if dir == "" {
				dir = filepath.Join(filepath.Dir(input), workflow.TranscriptChunksDir)
			}
			if dir, err = expandOptional(dir); err != nil {
				return err
			}

			opts := chunking.Options{MaxTokens: cfg.Chunking.TranscriptChunkTokens, OverlapTokens: cfg.Chunking.OverlapTokens}
			if cmd.Flags().Changed("max-tokens") {
				opts.MaxTokens = maxTokens
			}
			if cmd.Flags().Changed("overlap") {
				opts.OverlapTokens = overlap
			}
			counter, exact := tokens.NewCounter(cfg.Chunking.TokenizerModel)

			chunks, err := workflow.ChunkFile(input, opts, counter)
			if err != nil {
				return err
			}
			paths, err := chunking.WriteChunks(dir, chunks)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(chunks))
			for i, chunk := range chunks {
				rows = append(rows, []string{
					filepath.Base(paths[i]),
					humanize.Comma(int64(chunking.TotalChars([]string{chunk}))),
					humanize.Comma(int64(counter.Count(chunk))),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable(
				[]string{"Chunk", "Chars", "Tokens"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Wrote %s chunks (%s strategy, exact tokens: %s) to %s\n",
				strconv.Itoa(len(chunks)), chunking.StrategyFor(input), yesNo(exact), dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for chunk files (default: transcript_chunks beside the input)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Tokens per chunk (default: chunking.transcript_chunk_tokens)")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "Overlap tokens between transcript chunks (default: chunking.overlap_tokens)")
	return cmd
}
