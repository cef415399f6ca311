// Package agent decides what to do after each board change and carries it out.
//
// One Invoke call is one decision cycle: an empty board gets the initial chat
// frame, an unchanged board gets nothing, and any other change is handed to a
// Decider whose label selects a handler. Handlers mutate the board through
// BoardAPI and record the tags of any frames they create.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dyluth/easel/pkg/board"
)

// InitialPrompt is the agent prompt of the first chat frame on an empty board.
const InitialPrompt = "Would you like me to set up your marketing board?"

// Config wires an Agent to its collaborators. All fields are required.
type Config struct {
	BoardID  string
	API      BoardAPI
	Loader   BoardLoader
	Tags     TagRecorder
	Decider  Decider
	Proposer Proposer
}

// Agent runs decision cycles for one board.
type Agent struct {
	boardID  string
	api      BoardAPI
	loader   BoardLoader
	tags     TagRecorder
	decider  Decider
	proposer Proposer
}

// Result is the outcome of one Invoke.
// Baseline is the snapshot the caller should compare the next fetch against.
type Result struct {
	Action   NextAction
	Baseline *board.Snapshot
}

// New validates cfg and returns an Agent.
func New(cfg Config) (*Agent, error) {
	switch {
	case cfg.BoardID == "":
		return nil, fmt.Errorf("board id cannot be empty")
	case cfg.API == nil:
		return nil, fmt.Errorf("board API is required")
	case cfg.Loader == nil:
		return nil, fmt.Errorf("board loader is required")
	case cfg.Tags == nil:
		return nil, fmt.Errorf("tag recorder is required")
	case cfg.Decider == nil:
		return nil, fmt.Errorf("decider is required")
	case cfg.Proposer == nil:
		return nil, fmt.Errorf("proposer is required")
	}

	return &Agent{
		boardID:  cfg.BoardID,
		api:      cfg.API,
		loader:   cfg.Loader,
		tags:     cfg.Tags,
		decider:  cfg.Decider,
		proposer: cfg.Proposer,
	}, nil
}

// Invoke runs one decision cycle comparing previous against current.
//
// On success Baseline is current. On any error Baseline is previous, so the
// same change is reconsidered on the next cycle. User responses are cleared
// only once the decided action has completed, so a failed action leaves the
// request on the board for that retry.
func (a *Agent) Invoke(ctx context.Context, previous, current *board.Snapshot) (Result, error) {
	if current == nil {
		return Result{Baseline: previous}, fmt.Errorf("current snapshot cannot be nil")
	}

	action, decided, err := a.choose(ctx, previous, current)
	if err != nil {
		a.logEvent("decision_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{Baseline: previous}, err
	}

	if action == ActionNone {
		if decided {
			a.clearUserResponses(ctx, current)
		}
		return Result{Action: action, Baseline: current}, nil
	}

	log.Printf("[Agent] Next action: %s", action)
	start := time.Now()

	if err := a.handle(ctx, action, current); err != nil {
		a.logEvent("action_failed", map[string]interface{}{
			"action": string(action),
			"error":  err.Error(),
		})
		return Result{Action: action, Baseline: previous}, fmt.Errorf("%s failed: %w", action, err)
	}

	a.logEvent("action_completed", map[string]interface{}{
		"action":      string(action),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if decided {
		a.clearUserResponses(ctx, current)
	}
	return Result{Action: action, Baseline: current}, nil
}

// choose decides the next action. Only a board change that is not the empty
// board reaches the Decider; decided reports whether it was consulted.
func (a *Agent) choose(ctx context.Context, previous, current *board.Snapshot) (action NextAction, decided bool, err error) {
	if current.IsEmpty() {
		return ActionAddInitialFrame, false, nil
	}

	if previous.Equal(current) {
		return ActionNone, false, nil
	}

	chatState, err := current.ChatStateJSON()
	if err != nil {
		return "", false, err
	}

	label, err := a.decider.Decide(ctx, chatState)
	if err != nil {
		return "", false, fmt.Errorf("failed to decide next action: %w", err)
	}

	action, err = ParseDecision(label)
	if err != nil {
		return "", false, err
	}
	return action, true, nil
}

// clearUserResponses empties every non-empty chat response shape.
// Failures are logged and do not affect the decision.
func (a *Agent) clearUserResponses(ctx context.Context, snap *board.Snapshot) {
	for _, shape := range snap.ChatShapes() {
		if shape.Content() == "" {
			continue
		}
		if err := a.api.UpdateShapeContent(ctx, shape.ID, ""); err != nil {
			log.Printf("[Agent] Failed to clear response shape %s: %v", shape.ID, err)
			continue
		}
		log.Printf("[Agent] Cleared response shape %s", shape.ID)
	}
}

// handle dispatches to the action's handler.
func (a *Agent) handle(ctx context.Context, action NextAction, snap *board.Snapshot) error {
	switch action {
	case ActionAddInitialFrame:
		return a.addInitialFrame(ctx)
	case ActionSetUpBoard:
		return a.setUpBoard(ctx, snap)
	case ActionPredictSegments:
		return a.predictSegments(ctx, snap)
	case ActionPredictChannels:
		return a.predictChannels(ctx, snap)
	case ActionRefreshPlan:
		return a.refreshPlan(ctx, snap)
	default:
		return &UnrecognizedActionError{Label: string(action)}
	}
}

// logEvent emits one structured JSON log line.
func (a *Agent) logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = "agent"
	data["event_type"] = eventType
	data["board"] = a.boardID

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Agent] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}
