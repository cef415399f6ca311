package llm

import (
	"embed"
	"fmt"

	"github.com/dyluth/easel/internal/agent"
)

//go:embed prompts/*.txt
var promptFS embed.FS

const decidePrompt = "prompts/decide.txt"

var proposalPrompts = map[agent.ProposalKind]string{
	agent.ProposeSegments: "prompts/propose_segments.txt",
	agent.ProposeChannels: "prompts/propose_channels.txt",
	agent.ProposePlan:     "prompts/propose_plan.txt",
}

// loadPrompt reads an embedded prompt file.
func loadPrompt(name string) (string, error) {
	data, err := promptFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
	}
	return string(data), nil
}

// proposalPrompt returns the system prompt for kind.
func proposalPrompt(kind agent.ProposalKind) (string, error) {
	name, ok := proposalPrompts[kind]
	if !ok {
		return "", fmt.Errorf("unknown proposal kind %q", kind)
	}
	return loadPrompt(name)
}
