// Package poller drives the agent from a fixed-interval poll of the board.
//
// Each cycle fetches a fresh snapshot and hands it to the agent together with
// the baseline from the previous cycle. Cycles never overlap and a failed
// cycle leaves the baseline untouched so the change is retried.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dyluth/easel/internal/agent"
	"github.com/dyluth/easel/pkg/board"
)

// DefaultInterval is used when Config.Interval is zero.
const DefaultInterval = 5 * time.Second

// SnapshotLoader builds the current board snapshot.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*board.Snapshot, error)
}

// Invoker runs one decision cycle.
type Invoker interface {
	Invoke(ctx context.Context, previous, current *board.Snapshot) (agent.Result, error)
}

// Config wires a Poller.
type Config struct {
	BoardID  string
	Loader   SnapshotLoader
	Agent    Invoker
	Interval time.Duration
}

// Status describes the most recent cycle.
type Status struct {
	Cycles     int        `json:"cycles"`
	Failures   int        `json:"failures"`
	LastCycle  string     `json:"last_cycle,omitempty"`
	LastAt     *time.Time `json:"last_at,omitempty"` // nil until the first cycle finishes
	LastAction string     `json:"last_action,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

// Failed reports whether the most recent cycle failed.
func (s Status) Failed() bool {
	return s.LastError != ""
}

// Poller owns the baseline snapshot and runs cycles one at a time.
type Poller struct {
	boardID  string
	loader   SnapshotLoader
	agent    Invoker
	interval time.Duration

	mu       sync.Mutex
	baseline *board.Snapshot
	primed   bool
	status   Status
}

// New validates cfg and returns a Poller.
func New(cfg Config) (*Poller, error) {
	if cfg.Loader == nil {
		return nil, fmt.Errorf("snapshot loader is required")
	}
	if cfg.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("interval cannot be negative: %s", cfg.Interval)
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}

	return &Poller{
		boardID:  cfg.BoardID,
		loader:   cfg.Loader,
		agent:    cfg.Agent,
		interval: interval,
	}, nil
}

// Interval returns the delay between the end of one cycle and the start of the next.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Prime loads the initial baseline. A board's existing state is therefore
// never treated as a change on the first cycle.
func (p *Poller) Prime(ctx context.Context) error {
	snapshot, err := p.loader.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load initial snapshot: %w", err)
	}

	p.mu.Lock()
	p.baseline = snapshot
	p.primed = true
	p.mu.Unlock()

	log.Printf("[Poller] Baseline loaded: %d items", snapshot.Len())
	return nil
}

// Baseline returns the snapshot the next cycle compares against.
func (p *Poller) Baseline() *board.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.baseline
}

// Status returns a copy of the most recent cycle status.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// PollOnce runs one cycle: fetch, invoke, then adopt the returned baseline.
// On error the previous baseline is kept.
func (p *Poller) PollOnce(ctx context.Context) (agent.Result, error) {
	cycleID := uuid.New().String()
	start := time.Now()
	previous := p.Baseline()

	current, err := p.loader.LoadSnapshot(ctx)
	if err != nil {
		p.finish(cycleID, "", err)
		p.logEvent("cycle_failed", map[string]interface{}{
			"cycle_id": cycleID,
			"stage":    "fetch",
			"error":    err.Error(),
		})
		return agent.Result{Baseline: previous}, err
	}

	result, err := p.agent.Invoke(ctx, previous, current)
	if err != nil {
		p.finish(cycleID, string(result.Action), err)
		p.logEvent("cycle_failed", map[string]interface{}{
			"cycle_id": cycleID,
			"stage":    "invoke",
			"action":   string(result.Action),
			"error":    err.Error(),
		})
		return agent.Result{Action: result.Action, Baseline: previous}, err
	}

	p.mu.Lock()
	p.baseline = result.Baseline
	p.mu.Unlock()
	p.finish(cycleID, string(result.Action), nil)

	if result.Action != agent.ActionNone {
		p.logEvent("cycle_completed", map[string]interface{}{
			"cycle_id":    cycleID,
			"action":      string(result.Action),
			"items":       current.Len(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
	return result, nil
}

// Run polls until ctx is cancelled. It primes the baseline first if Prime
// was not called. A failed cycle is logged and the loop carries on.
func (p *Poller) Run(ctx context.Context) error {
	p.mu.Lock()
	primed := p.primed
	p.mu.Unlock()

	if !primed {
		if err := p.Prime(ctx); err != nil {
			return err
		}
	}

	log.Printf("[Poller] Polling board %s every %s", p.boardID, p.interval)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Poller] Stopping")
			return nil
		case <-timer.C:
		}

		if _, err := p.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				log.Printf("[Poller] Stopping")
				return nil
			}
			log.Printf("[Poller] Cycle failed: %v", err)
		}
		timer.Reset(p.interval)
	}
}

func (p *Poller) finish(cycleID, action string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Cycles++
	p.status.LastCycle = cycleID
	now := time.Now().UTC()
	p.status.LastAt = &now
	p.status.LastAction = action
	p.status.LastError = ""
	if err != nil {
		p.status.Failures++
		p.status.LastError = err.Error()
	}
}

// logEvent emits one structured JSON log line.
func (p *Poller) logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	if eventType == "cycle_failed" {
		data["level"] = "error"
	}
	data["component"] = "poller"
	data["event_type"] = eventType
	data["board"] = p.boardID

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Poller] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}
