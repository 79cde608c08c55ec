// Package parallel runs independent render jobs on a fixed set of workers.
package parallel

import (
	"runtime"
	"sync"
)

// Pool distributes closures over numWorkers goroutines. With one worker the
// pool degenerates to synchronous execution in the caller's goroutine.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
	stop func()
}

// Start launches the workers. numWorkers < 1 means one worker per CPU.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{}
	if numWorkers == 1 {
		return p
	}

	p.jobs = make(chan func(), numWorkers)
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for f := range p.jobs {
				f()
			}
		}()
	}
	p.stop = sync.OnceFunc(func() { close(p.jobs) })
	return p
}

// Do submits one job. It may block until a worker is free.
func (p *Pool) Do(f func()) {
	if p.jobs == nil {
		f()
		return
	}
	p.jobs <- f
}

// Each runs f(0) .. f(n-1) on the pool and returns once all calls have
// finished. The pool stays usable afterwards, so callers that render
// repeatedly (one Each per frame) can share a single pool.
func (p *Pool) Each(n int, f func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		p.Do(func() {
			defer wg.Done()
			f(i)
		})
	}
	wg.Wait()
}

// Close stops accepting jobs and waits for the workers to drain. Calling
// Close more than once is fine.
func (p *Pool) Close() {
	if p.jobs == nil {
		return
	}
	p.stop()
	p.wg.Wait()
}
