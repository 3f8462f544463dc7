package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aluiziolira/go-price-watch/models"
)

// Runner executes a batch of targets over a fixed pool of workers and
// assembles the snapshot.
type Runner struct {
	assembler *Assembler
	workers   int
}

// NewRunner builds a runner with the given pool size.
func NewRunner(assembler *Assembler, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{assembler: assembler, workers: workers}
}

// Run scrapes all targets and returns the snapshot. Records appear in input
// order regardless of worker scheduling. On context cancellation the
// snapshot holds only the records completed before the cancellation; targets
// never started are absent rather than marked failed.
func (r *Runner) Run(ctx context.Context, targets []models.Target) *models.Snapshot {
	start := time.Now()

	results := make([]models.ProductRecord, len(targets))
	completed := make([]bool, len(targets))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				results[idx] = r.assembler.Scrape(ctx, targets[idx])
				completed[idx] = true
			}
		}()
	}

dispatch:
	for idx := range targets {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	snapshot := &models.Snapshot{CreatedAt: time.Now()}
	for idx := range targets {
		if completed[idx] {
			snapshot.Records = append(snapshot.Records, results[idx])
		}
	}

	slog.Info("run complete",
		slog.Int("targets", len(targets)),
		slog.Int("records", len(snapshot.Records)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return snapshot
}
