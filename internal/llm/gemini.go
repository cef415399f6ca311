// Package llm implements the agent's semantic collaborators: deciding the next
// action from chat state and proposing segments, channels and plan steps.
package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	genai "google.golang.org/genai"

	"github.com/dyluth/easel/internal/agent"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const maxAttempts = 3

// generator is the slice of genai.Models the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	models  generator
	model   string
	timeout time.Duration
	backoff time.Duration
}

// NewGeminiClient creates a client for model. When apiKey is empty the genai
// SDK reads GEMINI_API_KEY / GOOGLE_API_KEY from the environment.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiClient(cli.Models, model, timeout), nil
}

func newGeminiClient(models generator, model string, timeout time.Duration) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiClient{models: models, model: model, timeout: timeout, backoff: 300 * time.Millisecond}
}

// Name identifies the provider and model.
func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// Decide asks the model for the next action label given the chat state.
func (g *GeminiClient) Decide(ctx context.Context, chatState string) (string, error) {
	system, err := loadPrompt(decidePrompt)
	if err != nil {
		return "", err
	}

	text, err := g.generate(ctx, system, "[CHAT STATE]\n"+chatState, "")
	if err != nil {
		return "", err
	}
	return cleanLabel(text), nil
}

// Propose asks the model for suggestions of req.Kind, requesting JSON output.
func (g *GeminiClient) Propose(ctx context.Context, req agent.ProposalRequest) ([]agent.Suggestion, error) {
	system, err := proposalPrompt(req.Kind)
	if err != nil {
		return nil, err
	}

	text, err := g.generate(ctx, system, "[INPUT JSON]\n"+req.Context, "application/json")
	if err != nil {
		return nil, err
	}
	return parseSuggestions(text)
}

// generate sends one request with up to maxAttempts tries and exponential backoff.
// Each attempt is bounded by the client timeout.
func (g *GeminiClient) generate(ctx context.Context, system, input, mimeType string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		Temperature:       genai.Ptr[float32](0),
	}
	if mimeType != "" {
		config.ResponseMIMEType = mimeType
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: input}}}}

	log.Printf("[LLM] Request to %s: %d bytes", g.Name(), len(system)+len(input))

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(g.backoff * time.Duration(1<<(attempt-1))):
			}
		}

		text, err := g.generateOnce(ctx, contents, config)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Printf("[LLM] Attempt %d/%d failed: %v", attempt+1, maxAttempts, err)
	}
	return "", fmt.Errorf("model request failed after %d attempts: %w", maxAttempts, lastErr)
}

func (g *GeminiClient) generateOnce(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrInvalidJSON
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
