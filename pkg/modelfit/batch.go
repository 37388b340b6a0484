package modelfit

import (
	"context"

	"modelfit/pkg/ransac"

	"golang.org/x/sync/errgroup"
)

// Job is one independent fit in a batch. Seed seeds the job's own sampler,
// so each job's result does not depend on scheduling.
type Job[P any] struct {
	Src  []P
	Dst  []P
	Seed uint64
}

// BatchResult holds the outcome of one Job.
type BatchResult[P, M any] struct {
	Estimate Estimate[P, M]
	Err      error
}

// FindBatch runs find over every job with at most limit fits in flight
// (limit <= 0 means no limit). Results are in job order. A failed fit is
// recorded on its result and does not stop the batch; cancelling ctx does, and
// its error is returned.
func FindBatch[P, M any](
	ctx context.Context,
	jobs []Job[P],
	find func(src, dst []P, cfg ransac.Config, sampler ransac.Sampler) (Estimate[P, M], error),
	cfg ransac.Config,
	limit int,
) ([]BatchResult[P, M], error) {
	results := make([]BatchResult[P, M], len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job := jobs[i]
			est, err := find(job.Src, job.Dst, cfg, ransac.NewSampler(job.Seed))
			results[i] = BatchResult[P, M]{Estimate: est, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
