package agent

import (
	"errors"
	"fmt"
	"strings"
)

// NextAction is the outcome of one decision step.
type NextAction string

const (
	// ActionChooseNext is the decision step itself. It is never a terminal outcome.
	ActionChooseNext      NextAction = "CHOOSE_NEXT_ACTION"
	ActionAddInitialFrame NextAction = "ADD_INITIAL_FRAME"
	ActionNone            NextAction = "NO_ACTION"
	ActionSetUpBoard      NextAction = "SET_UP_BOARD"
	ActionPredictSegments NextAction = "PREDICT_SEGMENTS"
	ActionPredictChannels NextAction = "PREDICT_CHANNELS"
	ActionRefreshPlan     NextAction = "REFRESH_PLAN"
)

// terminalActions are the labels a decision may resolve to.
var terminalActions = map[NextAction]struct{}{
	ActionAddInitialFrame: {},
	ActionNone:            {},
	ActionSetUpBoard:      {},
	ActionPredictSegments: {},
	ActionPredictChannels: {},
	ActionRefreshPlan:     {},
}

// TerminalActions returns every label ParseDecision accepts, in declaration order.
func TerminalActions() []NextAction {
	return []NextAction{
		ActionAddInitialFrame,
		ActionNone,
		ActionSetUpBoard,
		ActionPredictSegments,
		ActionPredictChannels,
		ActionRefreshPlan,
	}
}

// String returns the action label.
func (a NextAction) String() string {
	return string(a)
}

// IsTerminal reports whether a is a valid decision outcome.
func (a NextAction) IsTerminal() bool {
	_, ok := terminalActions[a]
	return ok
}

// UnrecognizedActionError is returned when a decision label matches no terminal action.
type UnrecognizedActionError struct {
	Label string
}

func (e *UnrecognizedActionError) Error() string {
	return fmt.Sprintf("unrecognized action label %q", e.Label)
}

// IsUnrecognizedAction returns true if err is an *UnrecognizedActionError.
func IsUnrecognizedAction(err error) bool {
	var uErr *UnrecognizedActionError
	return errors.As(err, &uErr)
}

// ParseDecision maps a raw decision label onto a terminal action.
// Surrounding whitespace and case are ignored; nothing else is.
func ParseDecision(label string) (NextAction, error) {
	action := NextAction(strings.ToUpper(strings.TrimSpace(label)))
	if !action.IsTerminal() {
		return "", &UnrecognizedActionError{Label: label}
	}
	return action, nil
}
