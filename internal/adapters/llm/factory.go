package llm

import (
	"context"
	"fmt"

	"github.com/okian/cfinsight/pkg/logger"
)

// NewProvider creates a Provider from configuration, wrapped with logging
// and metrics. There is no retry layer.
func NewProvider(ctx context.Context, cfg Config, log logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderOpenAI, ProviderOpenRouter:
		base, err = NewOpenAIProvider(cfg)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderMock:
		base = NewMockProvider(MockResponse{Text: "Mock coaching report."})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, log), nil
}
