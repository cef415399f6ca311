package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/easel/internal/agent"
)

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderFake   = "fake"
)

// Collaborator is both halves of the agent's semantic dependency.
type Collaborator interface {
	agent.Decider
	agent.Proposer
	Name() string
}

// Options selects and configures a provider.
type Options struct {
	Provider  string
	Model     string
	APIKey    string
	Timeout   time.Duration
	FakeLabel string
}

// New constructs the collaborator selected by opts.Provider.
func New(ctx context.Context, opts Options) (Collaborator, error) {
	switch opts.Provider {
	case "", ProviderGemini:
		g, err := NewGeminiClient(ctx, opts.APIKey, opts.Model, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderFake:
		return NewFakeClient(opts.FakeLabel), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (must be %q or %q)", opts.Provider, ProviderGemini, ProviderFake)
	}
}
