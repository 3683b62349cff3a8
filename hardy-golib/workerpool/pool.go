package workerpool

import (
	"sync"

	"github.com/hardyml/hardy/hardy-golib/errors"
)

// Job is a unit of work run by the pool.
type Job func() error

// Pool runs jobs on a fixed number of goroutines. Errors returned by jobs are collected and
// reported by Wait.
type Pool struct {
	jobs chan Job
	stop chan struct{}

	pending sync.WaitGroup
	workers sync.WaitGroup

	m    sync.Mutex
	errs errors.Errors

	stopOnce sync.Once
}

// New starts a pool with n workers; n < 1 is treated as 1.
func New(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		jobs: make(chan Job),
		stop: make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		p.workers.Add(1)
		go p.work()
	}
	return p
}

// Add queues jobs without blocking the caller.
func (p *Pool) Add(jobs []Job) {
	p.pending.Add(len(jobs))
	go func() {
		for i, job := range jobs {
			select {
			case p.jobs <- job:
			case <-p.stop:
				// account for the jobs that will never run
				p.pending.Add(-(len(jobs) - i))
				return
			}
		}
	}()
}

// Wait blocks until every queued job has finished or been dropped by Stop, and returns the
// combined job errors, if any.
func (p *Pool) Wait() error {
	p.pending.Wait()

	p.m.Lock()
	defer p.m.Unlock()
	if p.errs == nil {
		return nil
	}
	return p.errs
}

// Stop prevents queued jobs that have not started from running. Running jobs finish normally.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

// Close stops the pool and waits for its goroutines to exit.
func (p *Pool) Close() {
	p.Stop()
	p.workers.Wait()
}

func (p *Pool) work() {
	defer p.workers.Done()
	for {
		select {
		case job := <-p.jobs:
			p.run(job)
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) run(job Job) {
	defer p.pending.Done()
	if err := job(); err != nil {
		p.m.Lock()
		p.errs = errors.Append(p.errs, err)
		p.m.Unlock()
	}
}
