package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/Veraticus/agricarbon/internal/progress"
	"github.com/Veraticus/agricarbon/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type chatCall struct {
	analysis *model.AnalysisResult
	message  string
}

type fakeBackend struct {
	analyze func(ctx context.Context, req service.AnalyzeRequest) (*model.AnalysisResult, error)
	reply   string
	chats   []chatCall
	mu      sync.Mutex
}

func (f *fakeBackend) Analyze(ctx context.Context, req service.AnalyzeRequest) (*model.AnalysisResult, error) {
	return f.analyze(ctx, req)
}

func (f *fakeBackend) Chat(_ context.Context, message string, analysis *model.AnalysisResult) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, chatCall{message: message, analysis: analysis})
	return f.reply
}

type recorder struct {
	snapshots [][]model.ProgressStep
	mu        sync.Mutex
}

func (r *recorder) observe(steps []model.ProgressStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, steps)
}

func (r *recorder) sawError() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, snap := range r.snapshots {
		for _, step := range snap {
			if step.Status == model.StepError {
				return true
			}
		}
	}
	return false
}

func succeedWith(result *model.AnalysisResult) func(context.Context, service.AnalyzeRequest) (*model.AnalysisResult, error) {
	return func(context.Context, service.AnalyzeRequest) (*model.AnalysisResult, error) {
		return result, nil
	}
}

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Summary: model.Summary{
			Vegetation: model.Vegetation{Type: "forest"},
			Confidence: model.ConfidenceHigh,
		},
	}
}

func TestNew(t *testing.T) {
	a := New(&fakeBackend{})
	b := New(&fakeBackend{})

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Nil(t, a.Result())
	assert.Empty(t, a.Transcript())
	assert.Equal(t, progress.InitialSteps(), a.Progress())
}

func TestAnalyze_Success(t *testing.T) {
	defer goleak.VerifyNone(t)

	want := sampleResult()
	s := New(&fakeBackend{analyze: succeedWith(want)}, progress.WithInterval(time.Hour))

	got, err := s.Analyze(context.Background(), service.AnalyzeRequest{Filename: "farm.jpg"})
	require.NoError(t, err)

	assert.Same(t, want, got)
	assert.Same(t, want, s.Result())
}

func TestAnalyze_StopsSimulatorWhenRequestSettles(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(&fakeBackend{analyze: succeedWith(sampleResult())}, progress.WithInterval(time.Hour))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Analyze(context.Background(), service.AnalyzeRequest{})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Analyze did not return after the request settled")
	}

	steps := s.Progress()
	assert.Equal(t, model.StepInProgress, steps[0].Status)
	assert.Equal(t, model.StepPending, steps[1].Status)
}

func TestAnalyze_ProgressAdvancesWhileWaiting(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	backend := &fakeBackend{
		analyze: func(context.Context, service.AnalyzeRequest) (*model.AnalysisResult, error) {
			<-release
			return sampleResult(), nil
		},
	}
	s := New(backend, progress.WithInterval(5*time.Millisecond))

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Analyze(context.Background(), service.AnalyzeRequest{})
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		return progress.Done(s.Progress())
	}, 5*time.Second, 5*time.Millisecond)
	assert.Nil(t, s.Result(), "no result before the request settles")

	close(release)
	require.NoError(t, <-errCh)
	assert.True(t, progress.Done(s.Progress()))
	assert.NotNil(t, s.Result())
}

func TestAnalyze_Failure(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("service exploded")
	rec := &recorder{}
	backend := &fakeBackend{analyze: succeedWith(sampleResult())}
	s := New(backend, progress.WithInterval(time.Hour), progress.WithObserver(rec.observe))

	_, err := s.Analyze(context.Background(), service.AnalyzeRequest{})
	require.NoError(t, err)
	require.NotNil(t, s.Result())

	backend.analyze = func(context.Context, service.AnalyzeRequest) (*model.AnalysisResult, error) {
		return nil, boom
	}

	got, err := s.Analyze(context.Background(), service.AnalyzeRequest{})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Nil(t, s.Result(), "a failed analysis keeps no result")
	assert.True(t, rec.sawError(), "observer sees the failed step")
	assert.Equal(t, progress.InitialSteps(), s.Progress(), "progress is reset after a failure")
}

func TestAnalyze_Canceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	backend := &fakeBackend{
		analyze: func(ctx context.Context, _ service.AnalyzeRequest) (*model.AnalysisResult, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	s := New(backend, progress.WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := s.Analyze(ctx, service.AnalyzeRequest{})
		errCh <- err
	}()

	<-started
	cancel()

	require.ErrorIs(t, <-errCh, context.Canceled)
	assert.Nil(t, s.Result())
}

func TestAnalyze_RejectsConcurrentRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		analyze: func(context.Context, service.AnalyzeRequest) (*model.AnalysisResult, error) {
			close(started)
			<-release
			return sampleResult(), nil
		},
	}
	s := New(backend, progress.WithInterval(time.Hour))

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Analyze(context.Background(), service.AnalyzeRequest{})
		errCh <- err
	}()
	<-started

	_, err := s.Analyze(context.Background(), service.AnalyzeRequest{})
	require.ErrorIs(t, err, ErrAnalysisInProgress)

	close(release)
	require.NoError(t, <-errCh)
}

func TestAsk(t *testing.T) {
	backend := &fakeBackend{reply: "Plant more trees."}
	s := New(backend)
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	_, sent := s.Ask(context.Background(), "   ")
	assert.False(t, sent, "blank messages are ignored")
	assert.Empty(t, s.Transcript())

	reply, sent := s.Ask(context.Background(), "  How do I earn credits? ")
	require.True(t, sent)
	assert.Equal(t, model.ChatMessage{Timestamp: fixed, Role: model.RoleBot, Content: "Plant more trees."}, reply)

	assert.Equal(t, []model.ChatMessage{
		{Timestamp: fixed, Role: model.RoleUser, Content: "How do I earn credits?"},
		{Timestamp: fixed, Role: model.RoleBot, Content: "Plant more trees."},
	}, s.Transcript())

	require.Len(t, backend.chats, 1)
	assert.Equal(t, "How do I earn credits?", backend.chats[0].message)
	assert.Nil(t, backend.chats[0].analysis, "no analysis has been run yet")
}

func TestAsk_SendsCurrentResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	result := sampleResult()
	backend := &fakeBackend{analyze: succeedWith(result), reply: "ok"}
	s := New(backend, progress.WithInterval(time.Hour))

	_, err := s.Analyze(context.Background(), service.AnalyzeRequest{})
	require.NoError(t, err)

	_, sent := s.Ask(context.Background(), "What next?")
	require.True(t, sent)
	require.Len(t, backend.chats, 1)
	assert.Same(t, result, backend.chats[0].analysis)
}

func TestClear(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeBackend{analyze: succeedWith(sampleResult()), reply: "ok"}
	s := New(backend, progress.WithInterval(time.Hour))

	_, err := s.Analyze(context.Background(), service.AnalyzeRequest{})
	require.NoError(t, err)
	_, _ = s.Ask(context.Background(), "hello")

	s.Clear()

	assert.Nil(t, s.Result())
	assert.Empty(t, s.Transcript())
	assert.Equal(t, progress.InitialSteps(), s.Progress())
}
