package config

const (
	defaultConfigPath            = "~/.config/renoquote/config.toml"
	defaultOutputDir             = "~/.local/share/renoquote/runs"
	defaultLogDir                = "~/.local/share/renoquote/logs"
	defaultHistoryDB             = "~/.local/share/renoquote/history.db"
	defaultLLMBaseURL            = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel              = "gpt-4o"
	defaultLLMMaxTokens          = 4000
	defaultLLMTemperature        = 0.1
	defaultLLMTimeoutSeconds     = 180
	defaultLLMRetryAttempts      = 5
	defaultTranscriptChunkTokens = 1500
	defaultOverlapTokens         = 150
	defaultGroupMaxTokens        = 10000
	defaultTokenizerModel        = "gpt-4o"
	defaultConcurrency           = 1
	defaultConfidenceThreshold   = 85
	defaultGeneralConditions     = 0.10
	defaultMarkup                = 0.75
	defaultNotifyTimeout         = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			MaxTokens:      defaultLLMMaxTokens,
			Temperature:    defaultLLMTemperature,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Chunking: Chunking{
			TranscriptChunkTokens: defaultTranscriptChunkTokens,
			OverlapTokens:         defaultOverlapTokens,
			GroupMaxTokens:        defaultGroupMaxTokens,
			TokenizerModel:        defaultTokenizerModel,
		},
		Estimation: Estimation{
			Concurrency:  defaultConcurrency,
			RefusalRetry: true,
		},
		Cleanup: Cleanup{
			ConfidenceThreshold:   defaultConfidenceThreshold,
			GeneralConditionsRate: defaultGeneralConditions,
			DefaultMarkup:         defaultMarkup,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
