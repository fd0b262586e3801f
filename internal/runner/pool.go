package runner

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/haskel/ncdprime/internal/compressor"
	"github.com/haskel/ncdprime/internal/ncd"
)

// runPool computes jobs on a fixed set of workers and applies outcomes from
// a single collector goroutine in job order. At most window jobs are in
// flight or waiting for an earlier job, which bounds the reorder buffer.
func runPool(ctx context.Context, jobs []ncd.Job, payloads [][]byte, c compressor.Compressor, workers int, apply func(outcome) error) error {
	g, ctx := errgroup.WithContext(ctx)

	window := make(chan struct{}, workers*4)
	feed := make(chan ncd.Job)
	done := make(chan outcome, workers)

	g.Go(func() error {
		defer close(feed)
		for _, job := range jobs {
			select {
			case window <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			select {
			case feed <- job:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for job := range feed {
				o, err := compute(c, payloads, job)
				if err != nil {
					return err
				}
				select {
				case done <- o:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	g.Go(func() error {
		pending := make(map[int]outcome, cap(window))
		next := 0
		for o := range done {
			if ctx.Err() != nil {
				// Drain so workers can exit; the group already has an error.
				continue
			}
			pending[o.job.Index] = o
			for {
				ready, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if err := apply(ready); err != nil {
					return err
				}
				<-window
				next++
			}
		}
		return ctx.Err()
	})

	return g.Wait()
}
