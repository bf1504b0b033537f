package worker

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"
)

// Executor processes one ticker
type Executor interface {
	Execute(ctx context.Context, ticker string) error
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(ctx context.Context, ticker string) error

func (f ExecutorFunc) Execute(ctx context.Context, ticker string) error {
	return f(ctx, ticker)
}

// Result is the outcome of one ticker
type Result struct {
	Ticker string
	Err    error
}

type job struct {
	index  int
	ticker string
}

// Pool runs an executor over a batch of tickers with a fixed number of workers
type Pool struct {
	executor   Executor
	logger     arbor.ILogger
	numWorkers int
}

// NewPool creates a pool; numWorkers below 1 means one worker
func NewPool(executor Executor, logger arbor.ILogger, numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		executor:   executor,
		logger:     logger,
		numWorkers: numWorkers,
	}
}

// Run processes every ticker and returns results in input order. Tickers not
// started before ctx is cancelled report ctx.Err().
func (p *Pool) Run(ctx context.Context, tickers []string) []Result {
	results := make([]Result, len(tickers))
	for i, t := range tickers {
		results[i] = Result{Ticker: t, Err: context.Canceled}
	}

	workers := p.numWorkers
	if workers > len(tickers) {
		workers = len(tickers)
	}

	p.logger.Debug().
		Int("num_workers", workers).
		Int("tickers", len(tickers)).
		Msg("Starting worker pool")

	jobs := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go p.worker(ctx, i, jobs, results, &wg)
	}

feed:
	for i, t := range tickers {
		select {
		case jobs <- job{index: i, ticker: t}:
		case <-ctx.Done():
			for j := i; j < len(tickers); j++ {
				results[j].Err = ctx.Err()
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// worker is the main worker loop
func (p *Pool) worker(ctx context.Context, workerID int, jobs <-chan job, results []Result, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		err := p.executor.Execute(ctx, j.ticker)
		results[j.index].Err = err

		if err != nil {
			p.logger.Error().
				Err(err).
				Int("worker_id", workerID).
				Str("ticker", j.ticker).
				Msg("Job failed")
			continue
		}
		p.logger.Debug().
			Int("worker_id", workerID).
			Str("ticker", j.ticker).
			Msg("Job completed successfully")
	}
}
