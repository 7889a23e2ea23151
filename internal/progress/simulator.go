// Package progress drives the cosmetic step list shown while an analysis
// request is in flight. It is not coupled to real backend progress.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/agricarbon/internal/model"
)

// DefaultInterval is the time between ticks.
const DefaultInterval = 500 * time.Millisecond

// InitialSteps returns a fresh all-pending step list.
func InitialSteps() []model.ProgressStep {
	return []model.ProgressStep{
		{Name: model.StepProcessingImage, Status: model.StepPending},
		{Name: model.StepFetchingLocation, Status: model.StepPending},
		{Name: model.StepRunningAI, Status: model.StepPending},
		{Name: model.StepCalculatingCarbon, Status: model.StepPending},
		{Name: model.StepGeneratingReport, Status: model.StepPending},
	}
}

// Advance applies one tick in place. Both lanes are chosen from the state
// before the tick: the first in-progress step completes and the first pending
// step starts. It reports whether any step changed.
func Advance(steps []model.ProgressStep) bool {
	running, waiting := -1, -1
	for i, s := range steps {
		switch s.Status {
		case model.StepInProgress:
			if running < 0 {
				running = i
			}
		case model.StepPending:
			if waiting < 0 {
				waiting = i
			}
		}
	}

	if running >= 0 {
		steps[running].Status = model.StepComplete
	}
	if waiting >= 0 {
		steps[waiting].Status = model.StepInProgress
	}
	return running >= 0 || waiting >= 0
}

// Done reports whether every step is complete.
func Done(steps []model.ProgressStep) bool {
	for _, s := range steps {
		if s.Status != model.StepComplete {
			return false
		}
	}
	return true
}

// Observer receives a snapshot of the steps after every change.
type Observer func(steps []model.ProgressStep)

// Option configures a Simulator.
type Option func(*Simulator)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithObserver registers a callback for step changes.
func WithObserver(o Observer) Option {
	return func(s *Simulator) {
		s.observer = o
	}
}

// Simulator advances the step list on a fixed interval.
type Simulator struct {
	observer Observer
	steps    []model.ProgressStep
	interval time.Duration
	mu       sync.Mutex
}

// New creates a simulator holding the initial step list.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		steps:    InitialSteps(),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the configured tick interval.
func (s *Simulator) Interval() time.Duration {
	return s.interval
}

// Steps returns a copy of the current steps.
func (s *Simulator) Steps() []model.ProgressStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Start marks the first pending step in progress. It is called once when the
// request is dispatched.
func (s *Simulator) Start() {
	s.update(func(steps []model.ProgressStep) bool {
		for i := range steps {
			if steps[i].Status == model.StepPending {
				steps[i].Status = model.StepInProgress
				return true
			}
			if steps[i].Status == model.StepInProgress {
				return false
			}
		}
		return false
	})
}

// Tick advances the list by one step.
func (s *Simulator) Tick() {
	s.update(Advance)
}

// Fail marks the first step that has not completed as errored.
func (s *Simulator) Fail() {
	s.update(func(steps []model.ProgressStep) bool {
		for i := range steps {
			if steps[i].Status != model.StepComplete {
				steps[i].Status = model.StepError
				return true
			}
		}
		return false
	})
}

// Reset restores the all-pending list without notifying the observer.
func (s *Simulator) Reset() {
	s.mu.Lock()
	s.steps = InitialSteps()
	s.mu.Unlock()
}

// Run starts the list and ticks until ctx is done or every step is
// complete. The ticker is always stopped before Run returns.
func (s *Simulator) Run(ctx context.Context) {
	s.Start()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
			if Done(s.Steps()) {
				return
			}
		}
	}
}

func (s *Simulator) update(fn func([]model.ProgressStep) bool) {
	s.mu.Lock()
	changed := fn(s.steps)
	snapshot := s.snapshot()
	observer := s.observer
	s.mu.Unlock()

	if changed && observer != nil {
		observer(snapshot)
	}
}

func (s *Simulator) snapshot() []model.ProgressStep {
	out := make([]model.ProgressStep, len(s.steps))
	copy(out, s.steps)
	return out
}
