// Package coach builds the coaching prompt and turns a text generation
// result into something the dashboard can always display.
package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/cfinsight/pkg/logger"
)

// Fixed user-facing messages.
const (
	MissingKeyMessage    = "Error: API key missing! Set CFINSIGHT_LLM_API_KEY (or GEMINI_API_KEY) to enable the AI coach."
	NotEnoughDataMessage = "Not enough data for AI analysis."
	errorPrefix          = "AI Error: "
)

// TopicCount is how many strong and weak topics go into the prompt.
const TopicCount = 3

// Generator produces text for a prompt. Implementations make exactly one
// request and do not retry.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Input is the profile summary sent to the coach.
type Input struct {
	Handle    string
	Rating    int
	MaxRating int
	Strong    []string
	Weak      []string
}

// Coach requests coaching text from a Generator.
type Coach struct {
	gen Generator
	log logger.Logger
}

// Option configures a Coach.
type Option func(*Coach)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Coach) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Coach. A nil generator means no credential is configured.
func New(gen Generator, opts ...Option) *Coach {
	c := &Coach{gen: gen, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether a generator is configured.
func (c *Coach) Available() bool { return c != nil && c.gen != nil }

// Request returns coaching text. It never fails: a missing credential
// yields MissingKeyMessage and a generator error yields "AI Error: <desc>".
func (c *Coach) Request(ctx context.Context, in Input) string {
	if !c.Available() {
		return MissingKeyMessage
	}
	text, err := c.gen.Generate(ctx, Prompt(in))
	if err != nil {
		c.log.Warn(ctx, "coach generation failed", logger.String("handle", in.Handle), logger.Error(err))
		return errorPrefix + err.Error()
	}
	return text
}

// IsError reports whether text is one of the messages Request substitutes
// for a real answer.
func IsError(text string) bool {
	return text == MissingKeyMessage || strings.HasPrefix(text, errorPrefix)
}

// Prompt renders the coaching prompt. Only the first TopicCount topics of
// each list are used.
func Prompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are a legendary Competitive Programming Coach (strict but encouraging).\n")
	b.WriteString("Analyze this student's profile:\n\n")
	fmt.Fprintf(&b, "- Handle: %s\n", in.Handle)
	fmt.Fprintf(&b, "- Current Rating: %d (Max: %d)\n", in.Rating, in.MaxRating)
	fmt.Fprintf(&b, "- Strong Topics: %s\n", strings.Join(head(in.Strong, TopicCount), ", "))
	fmt.Fprintf(&b, "- Weak Topics: %s\n\n", strings.Join(head(in.Weak, TopicCount), ", "))
	b.WriteString("Your Task:\n")
	b.WriteString("1. Give a 2-sentence summary of their profile.\n")
	b.WriteString("2. Suggest a specific 3-step roadmap to reach the next rating tier.\n")
	b.WriteString("3. Recommend one specific algorithm they should learn next based on their weak topics.\n\n")
	b.WriteString("Keep it concise, professional, and motivating. Use Markdown formatting.\n")
	return b.String()
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
