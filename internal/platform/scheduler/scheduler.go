package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

// Job is a periodic task. Run should honor ctx cancellation and return a
// descriptive error on failure; the scheduler only logs it.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler drives registered jobs on fixed intervals. Each job runs on
// its own ticker; a tick is skipped when the previous run of the same job
// is still in flight, so slow runs never overlap.
type Scheduler struct {
	logger *logging.Logger
	jobs   []*managedJob

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

type managedJob struct {
	Job
	inFlight atomic.Bool
	runs     atomic.Int64
	skips    atomic.Int64
}

func New(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{logger: logger.Named("scheduler")}
}

func (s *Scheduler) Register(job Job) {
	if job.Name == "" || job.Interval <= 0 || job.Run == nil {
		s.logger.Warn("ignoring invalid job registration", "job", job.Name)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &managedJob{Job: job})
}

// Start launches all registered jobs. It is a no-op when already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(runCtx, job)
	}

	s.logger.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop cancels all job loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job *managedJob) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatch(ctx, job)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, job *managedJob) {
	if !job.inFlight.CompareAndSwap(false, true) {
		job.skips.Add(1)
		s.logger.WarnContext(ctx, "previous run still in flight, skipping tick",
			"job", job.Name,
			"skips", job.skips.Load(),
		)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer job.inFlight.Store(false)

		// A run gets at most two intervals before it is cancelled, so a
		// stuck run cannot hold the in-flight guard forever.
		runCtx, cancel := context.WithTimeout(ctx, 2*job.Interval)
		defer cancel()

		started := time.Now()
		err := job.Run(runCtx)
		job.runs.Add(1)
		if err != nil {
			s.logger.ErrorContext(ctx, "job run failed",
				"job", job.Name,
				"duration", time.Since(started),
				"error", err,
			)
			return
		}
		s.logger.DebugContext(ctx, "job run finished",
			"job", job.Name,
			"duration", time.Since(started),
		)
	}()
}
