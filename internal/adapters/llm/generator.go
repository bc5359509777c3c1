package llm

import (
	"context"
)

// TextGenerator turns a Provider into a single-prompt text generator.
type TextGenerator struct {
	Provider  Provider
	System    string
	MaxTokens int
}

// Generate sends prompt as one user message and returns the answer text.
func (g TextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.Provider.Generate(ctx, Request{
		System:    g.System,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens: g.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
