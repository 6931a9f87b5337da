package cron

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a periodic background job.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
	// Enabled is checked before every tick so jobs can be toggled at runtime.
	Enabled func() bool
}

// JobState is a snapshot of a job's execution history.
type JobState struct {
	Name      string     `json:"name"`
	Interval  string     `json:"interval"`
	Enabled   bool       `json:"enabled"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	RunCount  int64      `json:"run_count"`
}

// Scheduler runs registered jobs on fixed intervals.
type Scheduler struct {
	log    *zap.Logger
	mu     sync.Mutex
	jobs   []*Job
	states map[string]*JobState
	stop   chan struct{}
	wg     sync.WaitGroup
}

// New creates a scheduler.
func New(log *zap.Logger) *Scheduler {
	return &Scheduler{
		log:    log.Named("cron"),
		states: make(map[string]*JobState),
		stop:   make(chan struct{}),
	}
}

// Register adds a job to the scheduler. Must be called before Start.
func (s *Scheduler) Register(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	s.states[job.Name] = &JobState{
		Name:     job.Name,
		Interval: job.Interval.String(),
	}
}

// Start launches one goroutine per job.
func (s *Scheduler) Start() {
	s.mu.Lock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, job := range jobs {
		s.wg.Add(1)
		go s.loop(job)
	}
	s.log.Info("scheduler started", zap.Int("jobs", len(jobs)))
}

func (s *Scheduler) loop(job *Job) {
	defer s.wg.Done()
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if job.Enabled != nil && !job.Enabled() {
				continue
			}
			s.RunJob(job)
		}
	}
}

// RunJob executes a job immediately and records its outcome.
func (s *Scheduler) RunJob(job *Job) {
	s.mu.Lock()
	state := s.states[job.Name]
	if state.Running {
		s.mu.Unlock()
		s.log.Warn("job still running, skipping tick", zap.String("job", job.Name))
		return
	}
	state.Running = true
	s.mu.Unlock()

	start := time.Now()
	err := job.Run(context.Background())

	s.mu.Lock()
	state.Running = false
	now := time.Now()
	state.LastRun = &now
	state.RunCount++
	if err != nil {
		state.LastError = err.Error()
	} else {
		state.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("job failed", zap.String("job", job.Name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return
	}
	s.log.Info("job finished", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
}

// Trigger runs the named job immediately. Returns false if unknown.
func (s *Scheduler) Trigger(name string) bool {
	s.mu.Lock()
	var target *Job
	for _, job := range s.jobs {
		if job.Name == name {
			target = job
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return false
	}
	go s.RunJob(target)
	return true
}

// List returns the state of all registered jobs.
func (s *Scheduler) List() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobState, 0, len(s.jobs))
	for _, job := range s.jobs {
		state := *s.states[job.Name]
		if job.Enabled != nil {
			state.Enabled = job.Enabled()
		} else {
			state.Enabled = true
		}
		out = append(out, state)
	}
	return out
}

// Stop halts all job loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}
