// Package session holds the state of one analysis: the last result, the
// progress shown while a request runs, and the chat transcript.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/agricarbon/internal/common"
	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/Veraticus/agricarbon/internal/progress"
	"github.com/Veraticus/agricarbon/internal/service"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrAnalysisInProgress is returned when Analyze is called while another
// analysis is still running.
var ErrAnalysisInProgress = errors.New("an analysis is already in progress")

// Backend is the remote surface a session needs.
type Backend interface {
	service.Analyzer
	service.Chatter
}

// Session is one user's analysis and conversation.
type Session struct {
	backend    Backend
	progress   *progress.Simulator
	result     *model.AnalysisResult
	now        func() time.Time
	transcript []model.ChatMessage
	id         uuid.UUID
	mu         sync.RWMutex
	running    atomic.Bool
}

// New creates an empty session. The options configure its progress
// simulator.
func New(backend Backend, opts ...progress.Option) *Session {
	return &Session{
		id:       uuid.New(),
		backend:  backend,
		progress: progress.New(opts...),
		now:      time.Now,
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id.String()
}

// Analyze submits the image while the progress simulator runs. The simulator
// is stopped as soon as the request settles. On success the result replaces
// any previous one; on failure the progress shows the error, is then reset,
// and no result is kept.
func (s *Session) Analyze(ctx context.Context, req service.AnalyzeRequest) (*model.AnalysisResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInProgress
	}
	defer s.running.Store(false)

	s.progress.Reset()
	s.mu.Lock()
	s.result = nil
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	simCtx, stopSimulator := context.WithCancel(gctx)
	defer stopSimulator()

	g.Go(func() error {
		s.progress.Run(simCtx)
		return nil
	})

	var result *model.AnalysisResult
	g.Go(func() error {
		defer stopSimulator()
		r, err := s.backend.Analyze(gctx, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})

	if err := g.Wait(); err != nil {
		s.progress.Fail()
		s.progress.Reset()
		common.LogError(err, "Analysis failed", common.Fields{"session": s.ID()})
		return nil, err
	}

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
	return result, nil
}

// Result returns the last successful analysis, or nil.
func (s *Session) Result() *model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Progress returns a snapshot of the step list.
func (s *Session) Progress() []model.ProgressStep {
	return s.progress.Steps()
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []model.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Clear drops the result, the transcript and the progress so another image
// can be analyzed.
func (s *Session) Clear() {
	s.mu.Lock()
	s.result = nil
	s.transcript = nil
	s.mu.Unlock()
	s.progress.Reset()
}

// Ask sends a question about the current result and records both sides of
// the exchange. Blank messages are ignored and report false.
func (s *Session) Ask(ctx context.Context, message string) (model.ChatMessage, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ChatMessage{}, false
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, model.ChatMessage{
		Timestamp: s.now(),
		Role:      model.RoleUser,
		Content:   message,
	})
	analysis := s.result
	s.mu.Unlock()

	reply := model.ChatMessage{
		Role:    model.RoleBot,
		Content: s.backend.Chat(ctx, message, analysis),
	}

	s.mu.Lock()
	reply.Timestamp = s.now()
	s.transcript = append(s.transcript, reply)
	s.mu.Unlock()

	return reply, true
}
