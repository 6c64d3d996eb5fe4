// Package workerpool wraps an ants.Pool to provide the one piece of
// concurrency the engine actually needs: joining a small, fixed number
// of independent fan-out tasks (the per-side batch maintenance) before
// the driver resumes.
package workerpool

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Pool runs independent tasks concurrently on a bounded goroutine pool.
type Pool struct {
	logger *zap.Logger
	ants   *ants.Pool
	mu     sync.Mutex
	panics int64
}

// New creates a Pool with room for size concurrently running tasks.
// size should be at least as large as the largest fan-out Join will
// ever be asked to run (the engine only ever joins two tasks — buy side
// and sell side — so a small pool suffices).
func New(size int, logger *zap.Logger) (*Pool, error) {
	p, err := ants.NewPool(size, ants.WithPreAlloc(true))
	if err != nil {
		return nil, err
	}
	return &Pool{ants: p, logger: logger}, nil
}

// Join runs every task concurrently and blocks until all have
// returned. A task that panics is recovered, logged and counted rather
// than taking down the driver.
func (p *Pool) Join(tasks ...func()) {
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, task := range tasks {
		task := task
		run := func() {
			defer func() {
				if r := recover(); r != nil {
					p.mu.Lock()
					p.panics++
					p.mu.Unlock()
					if p.logger != nil {
						p.logger.Error("workerpool task panicked", zap.Any("panic", r))
					}
				}
			}()
			task()
		}
		err := p.ants.Submit(func() {
			defer wg.Done()
			run()
		})
		if err != nil {
			// Pool is saturated or closed; fall back to running inline so
			// correctness never depends on pool capacity.
			if p.logger != nil {
				p.logger.Warn("workerpool submit failed, running inline", zap.Error(err))
			}
			wg.Done()
			run()
		}
	}
	wg.Wait()
}

// Panics reports how many joined tasks have panicked over the pool's
// lifetime.
func (p *Pool) Panics() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.panics
}

// Release tears down the underlying ants pool.
func (p *Pool) Release() {
	p.ants.Release()
}
