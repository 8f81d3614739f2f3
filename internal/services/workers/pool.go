// -----------------------------------------------------------------------
// Worker pool - bounded fan-out for independent, side-effect-free tasks
// -----------------------------------------------------------------------

package workers

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ternarybob/arbor"
)

// Task is a labeled work item. The label identifies the unit (a file path)
// in error reporting.
type Task struct {
	Label string
	Run   func(ctx context.Context) error
}

// TaskError pairs a failed task's label with its error
type TaskError struct {
	Label string
	Err   error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.Label, e.Err)
}

// Pool fans independent tasks out across a bounded set of workers. Task
// functions must not share mutable state; results are merged by the caller
// after Wait returns.
type Pool struct {
	tasks      chan Task
	maxWorkers int
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	failures   []TaskError
	failuresMu sync.Mutex
	logger     arbor.ILogger
}

// NewPool creates a worker pool. maxWorkers <= 0 selects the hardware
// concurrency.
func NewPool(ctx context.Context, maxWorkers int, logger arbor.ILogger) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		tasks:      make(chan Task, maxWorkers*2),
		maxWorkers: maxWorkers,
		ctx:        poolCtx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Start begins the workers
func (p *Pool) Start() {
	p.logger.Debug().
		Int("max_workers", p.maxWorkers).
		Msg("Starting worker pool")

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit adds a task to the pool
func (p *Pool) Submit(task Task) error {
	select {
	case p.tasks <- task:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Wait closes the task channel and blocks until all workers drain it
func (p *Pool) Wait() {
	close(p.tasks)
	p.wg.Wait()
	p.cancel()
}

// Failures returns the labeled errors collected from failed tasks
func (p *Pool) Failures() []TaskError {
	p.failuresMu.Lock()
	defer p.failuresMu.Unlock()
	return append([]TaskError{}, p.failures...)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}

			if err := task.Run(p.ctx); err != nil {
				p.failuresMu.Lock()
				p.failures = append(p.failures, TaskError{Label: task.Label, Err: err})
				p.failuresMu.Unlock()

				p.logger.Warn().
					Err(err).
					Int("worker_id", id).
					Str("task", task.Label).
					Msg("Task failed")
			}

		case <-p.ctx.Done():
			return
		}
	}
}
