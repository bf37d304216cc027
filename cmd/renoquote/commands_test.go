package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"renoquote/internal/testsupport"
)

func TestChunkCommandWritesChunkFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	input := testsupport.WriteFile(t, filepath.Join(env.baseDir, "call.txt"),
		strings.Repeat("We want to redo the kitchen countertops and replace the toilet. ", 80))
	outDir := filepath.Join(env.baseDir, "chunks")

	out, _, err := runCLI(t, []string{"chunk", input, "--output-dir", outDir, "--max-tokens", "200", "--overlap", "20"}, env.configPath)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	requireContains(t, out, "chunk_1.txt")
	requireContains(t, out, "transcript strategy")
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read chunk dir: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected several chunk files, got %d", len(entries))
	}
}

func TestChunkCommandRejectsUnsupportedFile(t *testing.T) {
	env := setupCLITestEnv(t)
	input := testsupport.WriteFile(t, filepath.Join(env.baseDir, "scan.docx"), "binary")

	_, _, err := runCLI(t, []string{"chunk", input}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "Unsupported file type") {
		t.Fatalf("expected unsupported file error, got %v", err)
	}
}

func TestRunRequiresAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := testsupport.WriteFile(t, filepath.Join(env.baseDir, "nokey.toml"),
		"[paths]\noutput_dir = \""+env.outputDir+"\"\nhistory_db = \""+filepath.Join(env.baseDir, "h.db")+"\"\n")
	input := testsupport.WriteFile(t, filepath.Join(env.baseDir, "call.txt"), "Replace the toilet.")

	_, _, err := runCLI(t, []string{"run", "--transcript", input}, cfg)
	if err == nil || !strings.Contains(err.Error(), "llm.api_key is required") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestRunThenInspectAndClean(t *testing.T) {
	env := setupCLITestEnv(t)
	input := testsupport.WriteFile(t, filepath.Join(env.baseDir, "call.txt"),
		"Client wants quartz countertops in the kitchen and a new toilet in the bathroom.")

	out, _, err := runCLI(t, []string{"run", "--transcript", input, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var result resultView
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode run json: %v\n%s", err, out)
	}
	if result.FinalItems != 2 || result.Subtotal != 5250 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if env.calls.Load() != 1 {
		t.Fatalf("expected one completion call, got %d", env.calls.Load())
	}
	for _, path := range []string{result.CSVPath, result.WorkbookPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected output %s: %v", path, err)
		}
	}

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, result.RunID[:8])
	requireContains(t, out, "completed")
	requireContains(t, out, "$5,775.00")
	requireContains(t, out, "1 completed, 0 failed, 0 running")

	out, _, err = runCLI(t, []string{"runs", "show", result.RunID[:8], "--items"}, env.configPath)
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	requireContains(t, out, "Quartz countertop")
	requireContains(t, out, "2 kept of 2 parsed")

	out, _, err = runCLI(t, []string{"aggregate"}, env.configPath)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	requireContains(t, out, "Parsed 1 of 1 outputs: 2 items")

	out, _, err = runCLI(t, []string{"cleanup", result.RunDir, "--passes"}, env.configPath)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	requireContains(t, out, "Grand Total")
	requireContains(t, out, "$5,775.00")
	requireContains(t, out, "Recategorized")
	if env.calls.Load() != 1 {
		t.Fatalf("cleanup should not call the model, got %d calls", env.calls.Load())
	}
}

func TestRunsShowUnknownID(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"runs", "show", "deadbeef"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	out, _, err := runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestCleanupWithoutRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"cleanup"}, env.configPath); err == nil {
		t.Fatal("expected error when no run directory exists")
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	estimateCSV := testsupport.WriteFile(t, filepath.Join(env.baseDir, "estimate.csv"),
		"Category,Room,ItemName,Description,Quantity,UnitCost,Markup,MarkupType,Total,Confidence\n"+
			"Plumbing,Bathroom,Toilet,Replace toilet,1,450,0.75,%,787.50,90\n")

	out, _, err := runCLI(t, []string{"check", "--offline", "--sections", estimateCSV}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "skipped")
	requireContains(t, out, "history")
	requireContains(t, out, "valid sections (built-in list)")
	requireContains(t, out, "All checks passed")

	bad := testsupport.WriteFile(t, filepath.Join(env.baseDir, "bad.csv"),
		"Category,Room,ItemName,Description,Quantity,UnitCost,Markup,MarkupType,Total,Confidence\n"+
			"Plumbing Fixtures,Bathroom,Toilet,Replace toilet,1,450,0.75,%,787.50,90\n")
	out, _, err = runCLI(t, []string{"check", "--offline", "--sections", bad}, env.configPath)
	if err == nil {
		t.Fatal("expected check failure for unknown section")
	}
	requireContains(t, out, "Plumbing Fixtures")
	requireContains(t, out, "Unknown sections (checked against built-in list)")
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "not sent")
}
