package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const cliEstimateResponse = "```json\n" + `{"sections":[
 {"name":"Countertops","items":[{"room":"Kitchen","scope_item":"Quartz countertop","description":"Supply & install quartz slab","quantity":30,"unit_cost":85,"markup":0.75,"subtotal":"4462.50","confidence_score":95}]},
 {"name":"Plumbing","items":[{"room":"Bathroom","scope_item":"Toilet replacement","description":"Replace toilet with new unit","quantity":1,"unit_cost":450,"markup":0.75,"subtotal":"787.50","confidence_score":90}]}
]}` + "\n```"

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	calls      *atomic.Int32
}

// setupCLITestEnv writes a config whose paths live under a temp dir and whose
// LLM endpoint is a local completion server.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("RENOQUOTE_NTFY_TOPIC", "")

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{
				"finish_reason": "stop",
				"message":       map[string]string{"content": cliEstimateResponse},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		outputDir:  filepath.Join(base, "runs"),
		calls:      calls,
	}
	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
history_db = %q

[llm]
api_key = "test-key"
base_url = %q
retry_attempts = 1

[estimation]
concurrency = 1
`, env.outputDir, filepath.Join(base, "logs"), filepath.Join(base, "history.db"), server.URL)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("expected output to contain %q\n%s", want, got)
	}
}
