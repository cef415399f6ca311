package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dyluth/easel/internal/agent"
)

// ErrInvalidJSON is returned when a model reply cannot be decoded.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

type suggestionsReply struct {
	Suggestions []agent.Suggestion `json:"suggestions"`
}

// parseSuggestions decodes a proposal reply. It accepts the documented
// {"suggestions": [...]} object or a bare array, optionally inside a
// markdown code fence. Entries without a name are dropped.
func parseSuggestions(text string) ([]agent.Suggestion, error) {
	text = stripFence(text)
	if text == "" {
		return nil, ErrInvalidJSON
	}

	var list []agent.Suggestion
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	} else {
		var reply suggestionsReply
		if err := json.Unmarshal([]byte(text), &reply); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		list = reply.Suggestions
	}

	out := make([]agent.Suggestion, 0, len(list))
	for _, s := range list {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		s.Description = strings.TrimSpace(s.Description)
		s.Priority = strings.ToLower(strings.TrimSpace(s.Priority))
		out = append(out, s)
	}
	return out, nil
}

// cleanLabel trims a decision reply down to its first line, without fences or quotes.
func cleanLabel(text string) string {
	text = stripFence(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.Trim(strings.TrimSpace(text), "`\"'.")
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
