package render

import (
	"context"
	"errors"
	"html/template"
	"sync"

	"github.com/itchan-dev/routelab/shared/middleware/metrics"
)

var (
	ErrNoSlots      = errors.New("render: suspense boundary outside a slot-aware render")
	ErrSlotsStarted = errors.New("render: boundary registered after slots started running")
)

type SlotState int

const (
	SlotPending SlotState = iota
	SlotResolved
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotPending:
		return "pending"
	case SlotResolved:
		return "resolved"
	case SlotFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Suspense describes what a boundary shows before and instead of its task output.
type Suspense struct {
	Fallback template.HTML
	Failure  func(err error) template.HTML // nil leaves the fallback in place
}

// Update reports a boundary that settled.
type Update struct {
	Index int
	State SlotState
	HTML  template.HTML
	Err   error
}

type boundary struct {
	suspense Suspense
	task     Task
}

// Slots collects the suspense boundaries of one document and resolves them
// concurrently, tracking the state of each slot.
type Slots struct {
	ts *Templates

	mu         sync.Mutex
	boundaries []boundary
	states     []SlotState
	started    bool
}

type slotsKey struct{}

// WithSlots returns a context carrying a fresh boundary collector.
func WithSlots(ctx context.Context, ts *Templates) (context.Context, *Slots) {
	s := &Slots{ts: ts}
	return context.WithValue(ctx, slotsKey{}, s), s
}

func SlotsFrom(ctx context.Context) (*Slots, bool) {
	s, ok := ctx.Value(slotsKey{}).(*Slots)
	return s, ok
}

// Suspend registers task behind a boundary of the render in ctx and returns
// the placeholder markup to put where its output will land.
func Suspend(ctx context.Context, sp Suspense, task Task) (template.HTML, error) {
	s, ok := SlotsFrom(ctx)
	if !ok {
		return "", ErrNoSlots
	}
	return s.Suspend(sp, task)
}

func (s *Slots) Suspend(sp Suspense, task Task) (template.HTML, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return "", ErrSlotsStarted
	}
	idx := len(s.boundaries)
	s.boundaries = append(s.boundaries, boundary{suspense: sp, task: task})
	s.states = append(s.states, SlotPending)
	s.mu.Unlock()

	return s.ts.HTML("boundary", struct {
		Index    int
		Fallback template.HTML
	}{idx, sp.Fallback})
}

func (s *Slots) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boundaries)
}

// States is a snapshot of every slot in registration order.
func (s *Slots) States() []SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SlotState(nil), s.states...)
}

// Run starts every registered boundary and delivers updates in completion
// order. The channel is buffered for all slots and closed once each settled,
// so abandoning it never strands a goroutine.
func (s *Slots) Run(ctx context.Context) <-chan Update {
	s.mu.Lock()
	s.started = true
	boundaries := append([]boundary(nil), s.boundaries...)
	s.mu.Unlock()

	out := make(chan Update, len(boundaries))
	var wg sync.WaitGroup
	for i, b := range boundaries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := Update{Index: i, State: SlotResolved}
			html, err := b.task(ctx)
			if err != nil {
				u.State = SlotFailed
				u.Err = err
				if b.suspense.Failure != nil {
					u.HTML = b.suspense.Failure(err)
				}
			} else {
				u.HTML = html
			}
			s.setState(i, u.State)
			metrics.ObserveSlot(u.State.String())
			out <- u
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Chunk renders the markup that moves a settled slot's output into place.
// A failed slot without Failure markup keeps its fallback and yields nothing.
func (s *Slots) Chunk(u Update) (template.HTML, error) {
	if u.State == SlotFailed && u.HTML == "" {
		return "", nil
	}
	return s.ts.HTML("chunk", u)
}

func (s *Slots) setState(i int, state SlotState) {
	s.mu.Lock()
	s.states[i] = state
	s.mu.Unlock()
}
