package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"renoquote/internal/estimate"
	"renoquote/internal/pricing"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var sectionsFile string
	var offline bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report configuration, reference file and stage readiness",
		Long: "Check that reference files exist, the history database opens and every stage is ready.\n" +
			"With --sections, also report categories in an estimate CSV that are not pricing sections.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0

			fmt.Fprintf(out, "Config: %s\n", ctx.configPath)

			rows := [][]string{
				referenceRow("Master pricing", cfg.Paths.MasterPricing, &failed),
				referenceRow("Section minimums", cfg.Paths.SectionMinimums, &failed),
				referenceRow("Prompt file", cfg.Paths.PromptFile, &failed),
			}
			for _, scope := range cfg.Estimation.SampleScopes {
				rows = append(rows, referenceRow("Sample scope", scope, &failed))
			}
			fmt.Fprint(out, renderTable(
				[]string{"Reference", "Present", "Path"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			pipeline, err := ctx.pipeline(!offline)
			if err != nil {
				return err
			}
			var healthRows [][]string
			for _, h := range pipeline.Health(cmd.Context()) {
				if offline && h.Name == "estimate" {
					healthRows = append(healthRows, []string{h.Name, "skipped", "--offline"})
					continue
				}
				if !h.Ready {
					failed++
				}
				healthRows = append(healthRows, []string{h.Name, yesNo(h.Ready), h.Detail})
			}
			historyDetail := cfg.Paths.HistoryDB
			historyReady := false
			if store, err := ctx.historyStore(); err != nil {
				historyDetail = err.Error()
			} else if err := store.Ping(cmd.Context()); err != nil {
				historyDetail = err.Error()
			} else {
				historyReady = true
				historyDetail = store.Path()
			}
			if !historyReady {
				failed++
			}
			healthRows = append(healthRows, []string{"history", yesNo(historyReady), historyDetail})
			fmt.Fprint(out, renderTable(
				[]string{"Component", "Ready", "Detail"},
				healthRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if path := strings.TrimSpace(sectionsFile); path != "" {
				issues, err := checkSectionsFile(out, path, cfg.Paths.MasterPricing, cfg.Paths.SectionMinimums)
				if err != nil {
					return err
				}
				failed += issues
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&sectionsFile, "sections", "", "Estimate CSV whose categories are checked against pricing sections")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the LLM connectivity check")
	return cmd
}

// referenceRow reports whether a configured reference file exists. Unset
// optional references are not counted as failures.
func referenceRow(label, path string, failed *int) []string {
	if strings.TrimSpace(path) == "" {
		return []string{label, "unset", ""}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		*failed++
		return []string{label, "no", path}
	}
	return []string{label, "yes", path}
}

// validSections prefers the catalog's categories, then the section minimums
// sheet, then the built-in list.
func validSections(masterPricing, minimums string) ([]string, string) {
	if strings.EqualFold(filepath.Ext(masterPricing), ".csv") {
		if catalog, err := pricing.LoadCatalog(masterPricing); err == nil && len(catalog.Entries) > 0 {
			return catalog.Sections(), fmt.Sprintf("master pricing, %d codes", len(catalog.Codes()))
		}
	}
	if strings.TrimSpace(minimums) != "" {
		if rows, err := pricing.LoadSectionMinimums(minimums); err == nil && len(rows) > 0 {
			return pricing.SectionNames(rows), "section minimums"
		}
	}
	return pricing.DefaultSections, "built-in list"
}

func checkSectionsFile(out io.Writer, path, masterPricing, minimums string) (int, error) {
	expanded, err := expandOptional(path)
	if err != nil {
		return 0, err
	}
	items, err := estimate.ReadCSV(expanded)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, errors.New("no items in " + expanded)
	}
	valid, source := validSections(masterPricing, minimums)
	issues := pricing.CheckSections(items, valid)
	if len(issues) == 0 {
		fmt.Fprintf(out, "All %d items use valid sections (%s)\n", len(items), source)
		return 0, nil
	}
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{issue.Category, strconv.Itoa(issue.Items), issue.Suggestion})
	}
	fmt.Fprintf(out, "Unknown sections (checked against %s):\n", source)
	fmt.Fprint(out, renderTable(
		[]string{"Category", "Items", "Suggestion"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	return len(issues), nil
}
