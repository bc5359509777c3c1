// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Flat snake_case keys shared by YAML files and CFINSIGHT_* env vars.
//   - New returns a Config populated with defaults; Load layers overrides on top.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// JudgeBaseURL is the public site root used to build problem links.
	JudgeBaseURL string `koanf:"judge_base_url"`

	// JudgeAPIURL is the root of the judge's JSON API.
	JudgeAPIURL string `koanf:"judge_api_url"`

	// JudgeTimeoutMS bounds a single judge HTTP call.
	JudgeTimeoutMS int `koanf:"judge_timeout_ms"`

	// JudgeRateIntervalMS and JudgeRateBurst pace outbound judge calls.
	JudgeRateIntervalMS int `koanf:"judge_rate_interval_ms"`
	JudgeRateBurst      int `koanf:"judge_rate_burst"`

	// CacheTTLSeconds is how long a fetched profile is reused per handle.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`
	// CacheMaxEntries bounds the fetch memo.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// SessionTTLSeconds expires idle dashboard sessions.
	SessionTTLSeconds int `koanf:"session_ttl_seconds"`
	// SessionMaxEntries bounds the session store.
	SessionMaxEntries int `koanf:"session_max_entries"`
	// PurgeIntervalSeconds is how often expired memo and session entries
	// are swept.
	PurgeIntervalSeconds int `koanf:"purge_interval_seconds"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
	// MetricsRefreshSeconds is how often runtime gauges are sampled.
	MetricsRefreshSeconds int `koanf:"metrics_refresh_seconds"`

	// LLMProvider names the text-generation backend: gemini, openai,
	// openrouter, anthropic or mock. Empty means auto-discover from env.
	LLMProvider string `koanf:"llm_provider"`
	LLMAPIKey   string `koanf:"llm_api_key"`
	LLMModel    string `koanf:"llm_model"`
	LLMBaseURL  string `koanf:"llm_base_url"`
	// LLMMaxTokens caps the coaching answer length.
	LLMMaxTokens int `koanf:"llm_max_tokens"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		JudgeBaseURL:          "https://codeforces.com",
		JudgeAPIURL:           "https://codeforces.com/api",
		JudgeTimeoutMS:        10_000,
		JudgeRateIntervalMS:   2_000,
		JudgeRateBurst:        2,
		CacheTTLSeconds:       3_600,
		CacheMaxEntries:       1_000,
		SessionTTLSeconds:     86_400,
		SessionMaxEntries:     10_000,
		PurgeIntervalSeconds:  60,
		MetricsEnabled:        true,
		MetricsRefreshSeconds: 10,
		LLMMaxTokens:          2_048,
	}
}
