package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/easel/internal/agent"
	"github.com/dyluth/easel/pkg/board"
)

var errBoom = errors.New("boom")

type staticTags map[string][]string

func (s staticTags) AllMappings(ctx context.Context) (map[string][]string, error) {
	return s, nil
}

func snapshot(t *testing.T, contents ...string) *board.Snapshot {
	t.Helper()
	raws := make([]board.RawItem, 0, len(contents))
	for i, c := range contents {
		raws = append(raws, board.RawItem{
			ID:   string(rune('a' + i)),
			Type: string(board.ItemTypeStickyNote),
			Data: &board.RawData{Content: c},
		})
	}
	s, err := board.Load(context.Background(), raws, staticTags{})
	require.NoError(t, err)
	return s
}

// stubLoader returns queued snapshots, repeating the last one.
type stubLoader struct {
	mu    sync.Mutex
	snaps []*board.Snapshot
	errs  []error
	calls int
}

func (s *stubLoader) LoadSnapshot(ctx context.Context) (*board.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.snaps) {
		i = len(s.snaps) - 1
	}
	return s.snaps[i], nil
}

type invocation struct {
	previous, current *board.Snapshot
}

// stubAgent reports a change whenever the snapshots differ.
type stubAgent struct {
	mu    sync.Mutex
	err   error
	calls []invocation
}

func (s *stubAgent) Invoke(ctx context.Context, previous, current *board.Snapshot) (agent.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, invocation{previous, current})
	if s.err != nil {
		return agent.Result{Action: agent.ActionRefreshPlan, Baseline: previous}, s.err
	}
	if previous.Equal(current) {
		return agent.Result{Action: agent.ActionNone, Baseline: current}, nil
	}
	return agent.Result{Action: agent.ActionPredictSegments, Baseline: current}, nil
}

func (s *stubAgent) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestNew(t *testing.T) {
	loader := &stubLoader{}
	ag := &stubAgent{}

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing loader", Config{Agent: ag}, "snapshot loader is required"},
		{"missing agent", Config{Loader: loader}, "agent is required"},
		{"negative interval", Config{Loader: loader, Agent: ag, Interval: -time.Second}, "cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("default interval", func(t *testing.T) {
		p, err := New(Config{Loader: loader, Agent: ag})
		require.NoError(t, err)
		assert.Equal(t, DefaultInterval, p.Interval())
	})
}

func TestPrime(t *testing.T) {
	first := snapshot(t, "hello")
	p, err := New(Config{BoardID: "b1", Loader: &stubLoader{snaps: []*board.Snapshot{first}}, Agent: &stubAgent{}})
	require.NoError(t, err)

	require.NoError(t, p.Prime(context.Background()))
	assert.Same(t, first, p.Baseline())

	failing, err := New(Config{Loader: &stubLoader{errs: []error{errBoom}}, Agent: &stubAgent{}})
	require.NoError(t, err)
	err = failing.Prime(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, failing.Baseline())
}

func TestPollOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("unchanged board keeps baseline and does nothing", func(t *testing.T) {
		s := snapshot(t, "hello")
		ag := &stubAgent{}
		p, _ := New(Config{Loader: &stubLoader{snaps: []*board.Snapshot{s}}, Agent: ag})
		require.NoError(t, p.Prime(ctx))

		res, err := p.PollOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, agent.ActionNone, res.Action)
		require.Len(t, ag.calls, 1)
		assert.Same(t, s, ag.calls[0].previous)
	})

	t.Run("change adopts new baseline", func(t *testing.T) {
		before, after := snapshot(t, "hello"), snapshot(t, "hello", "world")
		ag := &stubAgent{}
		p, _ := New(Config{Loader: &stubLoader{snaps: []*board.Snapshot{before, after}}, Agent: ag})
		require.NoError(t, p.Prime(ctx))
		assert.Nil(t, p.Status().LastAt)

		res, err := p.PollOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, agent.ActionPredictSegments, res.Action)
		assert.Same(t, after, p.Baseline())

		st := p.Status()
		require.NotNil(t, st.LastAt)
		assert.Equal(t, 1, st.Cycles)
		assert.Zero(t, st.Failures)
		assert.False(t, st.Failed())
		assert.NotEmpty(t, st.LastCycle)
		assert.Equal(t, string(agent.ActionPredictSegments), st.LastAction)
	})

	t.Run("fetch failure keeps baseline and skips the agent", func(t *testing.T) {
		before := snapshot(t, "hello")
		ag := &stubAgent{}
		p, _ := New(Config{Loader: &stubLoader{snaps: []*board.Snapshot{before}, errs: []error{nil, errBoom}}, Agent: ag})
		require.NoError(t, p.Prime(ctx))

		res, err := p.PollOnce(ctx)
		assert.ErrorIs(t, err, errBoom)
		assert.Same(t, before, res.Baseline)
		assert.Same(t, before, p.Baseline())
		assert.Empty(t, ag.calls)

		st := p.Status()
		assert.True(t, st.Failed())
		assert.Equal(t, 1, st.Failures)
	})

	t.Run("agent failure keeps baseline so the change is retried", func(t *testing.T) {
		before, after := snapshot(t, "hello"), snapshot(t, "bye")
		ag := &stubAgent{err: errBoom}
		p, _ := New(Config{Loader: &stubLoader{snaps: []*board.Snapshot{before, after}}, Agent: ag})
		require.NoError(t, p.Prime(ctx))

		_, err := p.PollOnce(ctx)
		assert.ErrorIs(t, err, errBoom)
		assert.Same(t, before, p.Baseline())

		ag.err = nil
		res, err := p.PollOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, agent.ActionPredictSegments, res.Action)
		assert.Same(t, before, ag.calls[1].previous)
		assert.Same(t, after, p.Baseline())
		assert.False(t, p.Status().Failed())
	})

	t.Run("cycle ids are unique", func(t *testing.T) {
		p, _ := New(Config{Loader: &stubLoader{snaps: []*board.Snapshot{snapshot(t)}}, Agent: &stubAgent{}})
		_, _ = p.PollOnce(ctx)
		first := p.Status().LastCycle
		_, _ = p.PollOnce(ctx)
		assert.NotEqual(t, first, p.Status().LastCycle)
	})
}

func TestRun(t *testing.T) {
	t.Run("keeps polling through failures until cancelled", func(t *testing.T) {
		s := snapshot(t, "hello")
		loader := &stubLoader{snaps: []*board.Snapshot{s}, errs: []error{nil, errBoom, errBoom}}
		ag := &stubAgent{}
		p, _ := New(Config{Loader: loader, Agent: ag, Interval: time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- p.Run(ctx) }()

		require.Eventually(t, func() bool { return ag.count() >= 2 }, 2*time.Second, time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not stop after cancel")
		}
		assert.GreaterOrEqual(t, p.Status().Failures, 2)
	})

	t.Run("prime failure is returned", func(t *testing.T) {
		p, _ := New(Config{Loader: &stubLoader{errs: []error{errBoom}}, Agent: &stubAgent{}, Interval: time.Millisecond})
		err := p.Run(context.Background())
		assert.ErrorIs(t, err, errBoom)
	})
}

type stubLister struct {
	items []board.RawItem
	err   error
}

func (s stubLister) ListItems(ctx context.Context) ([]board.RawItem, error) {
	return s.items, s.err
}

func TestLoader(t *testing.T) {
	ctx := context.Background()
	items := []board.RawItem{
		{ID: "f1", Type: string(board.ItemTypeFrame), Data: &board.RawData{Title: "Product"}},
		{ID: "n1", Type: string(board.ItemTypeStickyNote), Parent: &board.RawRef{ID: "f1"}},
	}

	l := NewLoader(stubLister{items: items}, staticTags{"Product": {"f1"}})
	s, err := l.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	frame := s.FrameByRole("Product")
	require.NotNil(t, frame)
	assert.Equal(t, "f1", frame.ID)

	_, err = NewLoader(stubLister{err: errBoom}, staticTags{}).LoadSnapshot(ctx)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "failed to fetch board items")
}

var _ agent.BoardLoader = (*Loader)(nil)
