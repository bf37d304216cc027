package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"renoquote/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("RENOQUOTE_NTFY_TOPIC", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, ".local", "share", "renoquote", "runs")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %q", cfg.LLM.Model)
	}
	if cfg.Chunking.TranscriptChunkTokens != 1500 || cfg.Chunking.OverlapTokens != 150 {
		t.Fatalf("unexpected chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.Chunking.GroupMaxTokens != 10000 {
		t.Fatalf("unexpected group budget: %d", cfg.Chunking.GroupMaxTokens)
	}
	if cfg.Cleanup.ConfidenceThreshold != 85 {
		t.Fatalf("unexpected confidence threshold: %v", cfg.Cleanup.ConfidenceThreshold)
	}
	if cfg.Cleanup.GeneralConditionsRate != 0.10 {
		t.Fatalf("unexpected general conditions rate: %v", cfg.Cleanup.GeneralConditionsRate)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if err := cfg.RequireLLM(); err != nil {
		t.Fatalf("RequireLLM returned error: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("RENOQUOTE_NTFY_TOPIC", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"output_dir":     "~/estimates",
			"master_pricing": "~/pricing.csv",
		},
		"llm": map[string]any{
			"api_key": "file-key",
			"model":   "gpt-4o-mini",
		},
		"estimation": map[string]any{
			"concurrency":   3,
			"sample_scopes": []string{"~/scope.csv", " "},
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "DEBUG",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "estimates") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.MasterPricing != filepath.Join(tempHome, "pricing.csv") {
		t.Fatalf("unexpected master pricing path: %q", cfg.Paths.MasterPricing)
	}
	if cfg.LLM.APIKey != "file-key" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected llm config: %+v", cfg.LLM)
	}
	if cfg.Chunking.TokenizerModel != "gpt-4o" {
		t.Fatalf("expected default tokenizer model, got %q", cfg.Chunking.TokenizerModel)
	}
	if cfg.Estimation.Concurrency != 3 {
		t.Fatalf("unexpected concurrency: %d", cfg.Estimation.Concurrency)
	}
	if len(cfg.Estimation.SampleScopes) != 1 || cfg.Estimation.SampleScopes[0] != filepath.Join(tempHome, "scope.csv") {
		t.Fatalf("unexpected sample scopes: %v", cfg.Estimation.SampleScopes)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestRequireLLMWithoutKey(t *testing.T) {
	cfg := config.Default()
	err := cfg.RequireLLM()
	if err == nil {
		t.Fatal("expected error without api key")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("expected hint in error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"overlap too large", func(c *config.Config) { c.Chunking.OverlapTokens = 1500 }, "overlap_tokens"},
		{"group smaller than chunk", func(c *config.Config) { c.Chunking.GroupMaxTokens = 100 }, "group_max_tokens"},
		{"threshold", func(c *config.Config) { c.Cleanup.ConfidenceThreshold = 120 }, "confidence_threshold"},
		{"conditions rate", func(c *config.Config) { c.Cleanup.GeneralConditionsRate = 2 }, "general_conditions_rate"},
		{"ntfy", func(c *config.Config) { c.Notifications.NtfyTopic = "my-topic" }, "ntfy_topic"},
		{"base url", func(c *config.Config) { c.LLM.BaseURL = "not a url" }, "base_url"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestSampleConfigParses(t *testing.T) {
	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.LLM.Model == "" {
		t.Fatal("expected sample config to set llm.model")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[llm]") {
		t.Fatalf("unexpected sample content: %q", data)
	}
}
