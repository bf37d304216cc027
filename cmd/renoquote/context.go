package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"renoquote/internal/config"
	"renoquote/internal/history"
	"renoquote/internal/logging"
	"renoquote/internal/services/llm"
	"renoquote/internal/workflow"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	store *history.Store
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// ensureLogger builds the command logger. Records go to stderr so stdout
// carries only command output, and are appended to renoquote.log when a log
// directory is configured.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		paths := []string{"stderr"}
		if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
			paths = append(paths, filepath.Join(dir, "renoquote.log"))
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: paths,
		})
	})
	return c.logger, c.loggerErr
}

// historyStore opens the run history database once per command.
func (c *commandContext) historyStore() (*history.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	c.store = store
	return store, nil
}

// llmClient returns a client when an API key is configured, or nil.
func (c *commandContext) llmClient() *llm.Client {
	cfg, err := c.ensureConfig()
	if err != nil || strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return nil
	}
	return llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		MaxTokens:      cfg.LLM.MaxTokens,
		Temperature:    cfg.LLM.Temperature,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(cfg.LLM.RetryAttempts))
}

// pipeline wires the workflow with the configured collaborators. History
// failures are logged and the pipeline runs without recording.
func (c *commandContext) pipeline(withClient bool) (*workflow.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	deps := workflow.Dependencies{Logger: logger}
	if withClient {
		if client := c.llmClient(); client != nil {
			deps.Client = client
		}
	}
	if store, err := c.historyStore(); err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db"),
			logging.String(logging.FieldImpact, "runs will not be recorded"),
		)
	} else {
		deps.History = store
	}
	return workflow.New(cfg, deps), nil
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// expandOptional expands ~ and makes value absolute, leaving blanks blank.
func expandOptional(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	return config.ExpandPath(value)
}

// resolveRunDir returns the run directory named in args, or the newest run
// under the configured output directory.
func (c *commandContext) resolveRunDir(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return expandOptional(args[0])
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return workflow.LatestRunDir(cfg.Paths.OutputDir)
}
