package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateChunking(); err != nil {
		return err
	}
	if err := c.validateCleanup(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

// RequireLLM reports an actionable error when no API key is available. It is
// separate from Validate so offline commands (chunk, aggregate, cleanup) keep
// working without credentials.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("llm.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'renoquote config init')", defaultPath)
}

func (c *Config) validateLLM() error {
	parsed, err := url.Parse(c.LLM.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("llm.base_url must be an absolute URL, got %q", c.LLM.BaseURL)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateChunking() error {
	if c.Chunking.OverlapTokens >= c.Chunking.TranscriptChunkTokens {
		return errors.New("chunking.overlap_tokens must be smaller than chunking.transcript_chunk_tokens")
	}
	if c.Chunking.GroupMaxTokens < c.Chunking.TranscriptChunkTokens {
		return errors.New("chunking.group_max_tokens must be at least chunking.transcript_chunk_tokens")
	}
	return nil
}

func (c *Config) validateCleanup() error {
	if c.Cleanup.ConfidenceThreshold < 0 || c.Cleanup.ConfidenceThreshold > 100 {
		return errors.New("cleanup.confidence_threshold must be between 0 and 100")
	}
	if c.Cleanup.GeneralConditionsRate < 0 || c.Cleanup.GeneralConditionsRate > 1 {
		return errors.New("cleanup.general_conditions_rate must be between 0 and 1")
	}
	if c.Cleanup.DefaultMarkup < 0 {
		return errors.New("cleanup.default_markup must be non-negative")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	parsed, err := url.Parse(topic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full URL (e.g. https://ntfy.sh/topic), got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
