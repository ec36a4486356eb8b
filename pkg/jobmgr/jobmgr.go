// Package jobmgr runs named units of work on their own goroutines with
// cancellation, status callbacks and in-memory tracking of running jobs.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	// block the caller until the job finishes, off the caller's goroutine
//	err := jm.Await(ctx, "resolve:1234", func(ctx context.Context) error {
//	    return resolve(ctx)
//	})
//
//	// from elsewhere
//	_ = jm.Stop("resolve:1234")
//
// Jobs are removed automatically on completion. No retries, no persistence.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotRunning is returned by Stop when no job has the given name.
var ErrNotRunning = errors.New("job not running")

// Job represents a running unit of work.
type Job struct {
	Name   string
	Cancel context.CancelFunc
}

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:resolve:1234
//	error:resolve:1234:exit status 1
//	replaced:resolve:1234
//	done:resolve:1234
type StatusReporter func(string)

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	Reporter StatusReporter
}

// NewManager creates a new Manager. The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// Await runs runner on a separate goroutine under name and blocks until it
// returns or ctx is done. A job already running under the same name is
// cancelled and replaced, so the latest caller wins.
//
// The job context is derived from ctx; cancelling ctx or calling Stop(name)
// cancels the job.
func (m *Manager) Await(ctx context.Context, name string, runner func(ctx context.Context) error) error {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	job := &Job{Name: name, Cancel: cancel}

	m.mu.Lock()
	if prev, exists := m.jobs[name]; exists {
		prev.Cancel()
		m.report("replaced:" + name)
	}
	m.jobs[name] = job
	m.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- m.run(jobCtx, job, runner)
	}()

	select {
	case err := <-done:
		return err
	case <-jobCtx.Done():
		select {
		case err := <-done:
			return err
		default:
		}
		// the runner may still be unwinding; it removes itself when it does
		return jobCtx.Err()
	}
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}

	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every running job. Used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
}

// List returns the names of active jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) run(ctx context.Context, job *Job, runner func(ctx context.Context) error) error {
	m.report("running:" + job.Name)

	err := runner(ctx)
	if err != nil {
		m.report("error:" + job.Name + ":" + err.Error())
	} else {
		m.report("done:" + job.Name)
	}

	m.mu.Lock()
	// a replacement may already own the name
	if cur, ok := m.jobs[job.Name]; ok && cur == job {
		delete(m.jobs, job.Name)
	}
	m.mu.Unlock()

	return err
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
