package llm

import (
	"fmt"
	"os"
	"strings"
)

// Provider names.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderMock       = "mock"
)

const (
	defaultMaxTokens     = 2048
	defaultOpenRouterURL = "https://openrouter.ai/api/v1"
)

// defaultModels is used when Config.Model is empty.
var defaultModels = map[string]string{
	ProviderGemini:     "gemini-2.5-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.5-flash",
	ProviderAnthropic:  "claude-haiku",
	ProviderMock:       "mock",
}

// keyEnv lists the conventional env var holding each provider's key, in
// discovery priority order.
var keyEnv = []struct{ provider, env string }{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider selects the backend: gemini, openai, openrouter, anthropic, mock.
	// Empty means gemini.
	Provider string
	APIKey   string
	Model    string
	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL   string
	MaxTokens int
}

// WithDefaults fills empty fields.
func (c Config) WithDefaults() Config {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderGemini
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Provider == ProviderOpenRouter && c.BaseURL == "" {
		c.BaseURL = defaultOpenRouterURL
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	return c
}

// Discover fills a missing API key from the conventional provider env vars.
// With an explicit provider only that provider's variable is consulted;
// otherwise GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY and
// OPENROUTER_API_KEY are probed in that order. It reports whether the
// returned config carries a key.
func Discover(c Config) (Config, bool) {
	if c.APIKey != "" || strings.EqualFold(c.Provider, ProviderMock) {
		return c, true
	}
	want := strings.ToLower(strings.TrimSpace(c.Provider))
	for _, ke := range keyEnv {
		if want != "" && want != ke.provider {
			continue
		}
		if k := os.Getenv(ke.env); k != "" {
			c.Provider = ke.provider
			c.APIKey = k
			return c, true
		}
	}
	return c, false
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	c = c.WithDefaults()
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.Provider != ProviderMock && c.APIKey == "" {
		return fmt.Errorf("%w: provider %s", ErrMissingKey, c.Provider)
	}
	return nil
}
