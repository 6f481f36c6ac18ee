package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/usecase"
	"github.com/stretchr/testify/require"
)

type fakeCrawl struct {
	runs    atomic.Int32
	running atomic.Bool
	release chan struct{}
	err     error
}

func (f *fakeCrawl) Run(context.Context) (usecase.CrawlResult, error) {
	f.running.Store(true)
	defer f.running.Store(false)
	n := f.runs.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return usecase.CrawlResult{}, f.err
	}
	return usecase.CrawlResult{RunID: "run-" + string(rune('0'+n)), Written: int(n)}, nil
}

func (f *fakeCrawl) Running() bool { return f.running.Load() }

type fakeSync struct {
	mu      sync.Mutex
	calls   int
	err     error
	active  atomic.Bool
	release chan struct{}
}

func (f *fakeSync) Sync(context.Context) (usecase.ReferenceSyncResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		f.active.Store(true)
		<-f.release
		f.active.Store(false)
	}
	return usecase.ReferenceSyncResult{Patches: 1}, f.err
}

func (f *fakeSync) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestJobRunner_RunCycleSyncsThenCrawls(t *testing.T) {
	crawl := &fakeCrawl{}
	syncer := &fakeSync{err: errors.New("cdn down")}
	runner := newJobRunner(context.Background(), crawl, syncer, true, logging.NewNop())

	_, ok := runner.LastCrawl()
	require.False(t, ok)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err, "a failed reference sync does not block the crawl")
	require.Equal(t, "run-1", result.RunID)
	require.Equal(t, 1, syncer.calls)

	last, ok := runner.LastCrawl()
	require.True(t, ok)
	require.Equal(t, "run-1", last.RunID)
}

func TestJobRunner_RunCycleSkipsSyncWhenDisabled(t *testing.T) {
	crawl := &fakeCrawl{}
	syncer := &fakeSync{}
	runner := newJobRunner(context.Background(), crawl, syncer, false, logging.NewNop())

	_, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	require.Zero(t, syncer.calls)
}

func TestJobRunner_RunCycleKeepsPreviousResultOnError(t *testing.T) {
	crawl := &fakeCrawl{}
	runner := newJobRunner(context.Background(), crawl, nil, false, logging.NewNop())
	_, err := runner.RunCycle(context.Background())
	require.NoError(t, err)

	crawl.err = usecase.ErrRunInProgress
	_, err = runner.RunCycle(context.Background())
	require.ErrorIs(t, err, usecase.ErrRunInProgress)

	last, ok := runner.LastCrawl()
	require.True(t, ok)
	require.Equal(t, "run-1", last.RunID)
}

func TestJobRunner_TriggerCrawl(t *testing.T) {
	crawl := &fakeCrawl{release: make(chan struct{})}
	runner := newJobRunner(context.Background(), crawl, nil, false, logging.NewNop())

	require.NoError(t, runner.TriggerCrawl(context.Background()))
	require.Eventually(t, crawl.Running, time.Second, 5*time.Millisecond)

	err := runner.TriggerCrawl(context.Background())
	require.ErrorIs(t, err, usecase.ErrRunInProgress)

	close(crawl.release)
	runner.Wait()
	require.Equal(t, int32(1), crawl.runs.Load())
	_, ok := runner.LastCrawl()
	require.True(t, ok)
}

func TestJobRunner_TriggerDuringReferenceSyncIsRefused(t *testing.T) {
	crawl := &fakeCrawl{}
	syncer := &fakeSync{release: make(chan struct{})}
	runner := newJobRunner(context.Background(), crawl, syncer, true, logging.NewNop())

	require.NoError(t, runner.TriggerCrawl(context.Background()))
	require.Eventually(t, syncer.active.Load, time.Second, 5*time.Millisecond)
	require.False(t, crawl.Running())

	require.ErrorIs(t, runner.TriggerCrawl(context.Background()), usecase.ErrRunInProgress)
	_, err := runner.RunCycle(context.Background())
	require.ErrorIs(t, err, usecase.ErrRunInProgress)
	_, err = runner.SyncReferenceData(context.Background())
	require.ErrorIs(t, err, usecase.ErrRunInProgress)

	close(syncer.release)
	runner.Wait()
	require.Equal(t, 1, syncer.Calls())
	require.Equal(t, int32(1), crawl.runs.Load())

	_, err = runner.RunCycle(context.Background())
	require.NoError(t, err, "the cycle is released once the triggered run returns")
}

func TestJobRunner_TriggerAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := newJobRunner(ctx, &fakeCrawl{}, nil, false, logging.NewNop())

	err := runner.TriggerCrawl(context.Background())
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestJobRunner_SyncWithoutService(t *testing.T) {
	runner := newJobRunner(context.Background(), &fakeCrawl{}, nil, true, logging.NewNop())
	_, err := runner.SyncReferenceData(context.Background())
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestJobRunner_ScheduleRunsImmediately(t *testing.T) {
	crawl := &fakeCrawl{}
	runner := newJobRunner(context.Background(), crawl, nil, false, logging.NewNop())

	scheduler, err := runner.schedule(time.Hour)
	require.NoError(t, err)
	scheduler.Start()
	t.Cleanup(func() { _ = scheduler.Shutdown() })

	require.Eventually(t, func() bool { return crawl.runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
