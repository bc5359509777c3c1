package llm

import (
	"context"
	"time"

	"github.com/okian/cfinsight/pkg/logger"
	"github.com/okian/cfinsight/pkg/metrics"
)

// LoggingProvider is a decorator that logs every request and records
// coach latency and outcome metrics.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      logger.Logger
}

// WithLogging wraps a Provider with logging and metrics.
func WithLogging(p Provider, provider string, log logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: provider, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	outcome := Outcome(err)
	metrics.RecordCoachRequest(outcome, float64(latency.Milliseconds()))

	fields := []logger.Field{
		logger.String("provider", l.provider),
		logger.String("model", l.inner.ModelID()),
		logger.String("outcome", outcome),
		logger.Duration("latency", latency),
	}
	if err != nil {
		metrics.RecordErrorByComponent("llm", outcome)
		l.log.Warn(ctx, "llm request failed", append(fields, logger.Error(err))...)
		return nil, err
	}

	l.log.Info(ctx, "llm request completed", append(fields,
		logger.Int("input_tokens", resp.Usage.InputTokens),
		logger.Int("output_tokens", resp.Usage.OutputTokens),
	)...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
