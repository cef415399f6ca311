package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/dyluth/easel/internal/agent"
	"github.com/dyluth/easel/pkg/board"
)

// FakeClient is a deterministic offline collaborator for demos and tests.
//
// Decide returns Label when set. Otherwise it looks for an affirmative user
// response in a role's chat frame and maps it to that role's action.
// Propose returns canned suggestions per kind.
type FakeClient struct {
	Label string
}

// NewFakeClient returns a FakeClient that answers with label, or with the
// response-driven heuristic when label is empty.
func NewFakeClient(label string) *FakeClient {
	return &FakeClient{Label: label}
}

// Name identifies the provider.
func (f *FakeClient) Name() string { return "FakeLLM" }

// chatActions maps a chat role onto the action a "yes" in that chat triggers,
// in precedence order.
var chatActions = []struct {
	role   string
	action agent.NextAction
}{
	{board.RoleInitialChat, agent.ActionSetUpBoard},
	{board.ChatRole(board.RoleSegments), agent.ActionPredictSegments},
	{board.ChatRole(board.RoleChannels), agent.ActionPredictChannels},
	{board.ChatRole(board.RoleSummary), agent.ActionRefreshPlan},
}

var affirmatives = []string{"yes", "yep", "sure", "ok", "please", "go ahead"}

// Decide implements agent.Decider.
func (f *FakeClient) Decide(ctx context.Context, chatState string) (string, error) {
	if f.Label != "" {
		return f.Label, nil
	}

	var state map[string]string
	if err := json.Unmarshal([]byte(chatState), &state); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	for _, ca := range chatActions {
		for key, text := range state {
			if !strings.HasSuffix(key, "_"+ca.role) {
				continue
			}
			if isAffirmative(userResponse(text)) {
				return string(ca.action), nil
			}
		}
	}
	return string(agent.ActionNone), nil
}

// userResponse returns what follows the last "User:" marker.
func userResponse(chatText string) string {
	i := strings.LastIndex(chatText, "\nUser:")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(chatText[i+len("\nUser:"):])
}

func isAffirmative(response string) bool {
	words := strings.FieldsFunc(strings.ToLower(stripTags(response)), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	joined := " " + strings.Join(words, " ") + " "
	for _, phrase := range affirmatives {
		if strings.Contains(joined, " "+phrase+" ") {
			return true
		}
	}
	return false
}

// stripTags removes anything between angle brackets.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var cannedSuggestions = map[agent.ProposalKind][]agent.Suggestion{
	agent.ProposeSegments: {
		{Name: "Early Adopters", Description: "Tech-curious buyers who try new products first and share them.", Priority: "high"},
		{Name: "Small Businesses", Description: "Owners looking for tools that save time without a big budget.", Priority: "medium"},
		{Name: "Students", Description: "Price-sensitive users who value convenience and community.", Priority: "low"},
	},
	agent.ProposeChannels: {
		{Name: "Content Marketing", Description: "Guides and case studies that answer early adopters' questions.", Priority: "high"},
		{Name: "Community Forums", Description: "Targeted posts where small business owners already gather.", Priority: "medium"},
		{Name: "Campus Ambassadors", Description: "Peer-to-peer promotion reaching students directly.", Priority: "low"},
	},
	agent.ProposePlan: {
		{Name: "Sharpen the value proposition", Description: "Rewrite the headline around the top segment's main problem.", Priority: "high"},
		{Name: "Launch a content series", Description: "Publish weekly through the highest-priority channel.", Priority: "high"},
		{Name: "Measure and iterate", Description: "Track sign-ups per channel and rebalance spend monthly.", Priority: "medium"},
	},
}

// Propose implements agent.Proposer.
func (f *FakeClient) Propose(ctx context.Context, req agent.ProposalRequest) ([]agent.Suggestion, error) {
	canned, ok := cannedSuggestions[req.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown proposal kind %q", req.Kind)
	}
	return append([]agent.Suggestion(nil), canned...), nil
}
