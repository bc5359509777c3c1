package service

import (
	"context"
	"time"

	"github.com/okian/cfinsight/internal/adapters/judge"
	"github.com/okian/cfinsight/internal/adapters/llm"
	"github.com/okian/cfinsight/internal/config"
	"github.com/okian/cfinsight/internal/domain/coach"
	"github.com/okian/cfinsight/pkg/logger"
)

// FromConfig builds a Service wired to the judge and, when a credential
// is available, a text-generation provider. A missing credential is not an
// error: the coach then answers with the missing key message.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}

	client := judge.NewClient(
		judge.WithAPIURL(cfg.JudgeAPIURL),
		judge.WithTimeout(time.Duration(cfg.JudgeTimeoutMS)*time.Millisecond),
		judge.WithRateLimit(time.Duration(cfg.JudgeRateIntervalMS)*time.Millisecond, cfg.JudgeRateBurst),
		judge.WithLogger(log.Named("judge")),
	)

	c, err := newCoach(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return New(
		WithLogger(log),
		WithFetcher(client),
		WithCoach(c),
		WithJudgeBaseURL(cfg.JudgeBaseURL),
		WithCacheTTL(time.Duration(cfg.CacheTTLSeconds)*time.Second),
		WithCacheSize(cfg.CacheMaxEntries),
		WithSessionTTL(time.Duration(cfg.SessionTTLSeconds)*time.Second),
		WithSessionSize(cfg.SessionMaxEntries),
		WithPurgeInterval(time.Duration(cfg.PurgeIntervalSeconds)*time.Second),
	), nil
}

func newCoach(ctx context.Context, cfg *config.Config, log logger.Logger) (*coach.Coach, error) {
	llmCfg, ok := llm.Discover(llm.Config{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.LLMAPIKey,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.LLMBaseURL,
		MaxTokens: cfg.LLMMaxTokens,
	})
	if !ok {
		log.Warn(ctx, "no model credential found; AI coach disabled")
		return coach.New(nil, coach.WithLogger(log)), nil
	}

	llmCfg = llmCfg.WithDefaults()
	p, err := llm.NewProvider(ctx, llmCfg, log.Named("llm"))
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "AI coach enabled",
		logger.String("provider", llmCfg.Provider),
		logger.String("model", llmCfg.Model),
	)
	return coach.New(llm.TextGenerator{Provider: p, MaxTokens: llmCfg.MaxTokens}, coach.WithLogger(log)), nil
}
