package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeChunking()
	if err := c.normalizeEstimation(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if c.Paths.MasterPricing, err = expandPath(strings.TrimSpace(c.Paths.MasterPricing)); err != nil {
		return fmt.Errorf("paths.master_pricing: %w", err)
	}
	if c.Paths.SectionMinimums, err = expandPath(strings.TrimSpace(c.Paths.SectionMinimums)); err != nil {
		return fmt.Errorf("paths.section_minimums: %w", err)
	}
	if c.Paths.PromptFile, err = expandPath(strings.TrimSpace(c.Paths.PromptFile)); err != nil {
		return fmt.Errorf("paths.prompt_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = defaultLLMMaxTokens
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.RetryAttempts <= 0 {
		c.LLM.RetryAttempts = defaultLLMRetryAttempts
	}
}

func (c *Config) normalizeChunking() {
	if c.Chunking.TranscriptChunkTokens <= 0 {
		c.Chunking.TranscriptChunkTokens = defaultTranscriptChunkTokens
	}
	if c.Chunking.OverlapTokens < 0 {
		c.Chunking.OverlapTokens = 0
	}
	if c.Chunking.GroupMaxTokens <= 0 {
		c.Chunking.GroupMaxTokens = defaultGroupMaxTokens
	}
	c.Chunking.TokenizerModel = strings.TrimSpace(c.Chunking.TokenizerModel)
	if c.Chunking.TokenizerModel == "" {
		c.Chunking.TokenizerModel = c.LLM.Model
	}
}

func (c *Config) normalizeEstimation() error {
	if c.Estimation.Concurrency <= 0 {
		c.Estimation.Concurrency = defaultConcurrency
	}
	scopes := make([]string, 0, len(c.Estimation.SampleScopes))
	for _, scope := range c.Estimation.SampleScopes {
		trimmed := strings.TrimSpace(scope)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("estimation.sample_scopes: %w", err)
		}
		scopes = append(scopes, expanded)
	}
	c.Estimation.SampleScopes = scopes
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("RENOQUOTE_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
