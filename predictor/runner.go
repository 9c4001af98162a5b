package predictor

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/teranos/ANNX/errors"
	"github.com/teranos/ANNX/pack"
)

// Runner processes independent packs concurrently. Each pack gets its own
// pipeline instance, so no pack state is shared; the optional rate limiter
// is the only shared resource and throttles model calls across all workers.
type Runner struct {
	cfg     Config
	model   Model
	vocab   Vocab
	workers int
	limiter *rate.Limiter
}

// NewRunner creates a runner with the given worker count.
func NewRunner(cfg Config, model Model, workers int) (*Runner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errors.New("runner requires a model")
	}
	if workers < 1 {
		return nil, errors.Newf("worker count must be positive, got %d", workers)
	}
	return &Runner{cfg: cfg, model: model, workers: workers}, nil
}

// WithVocab sets the vocabulary shared by all pipelines.
func (r *Runner) WithVocab(v Vocab) *Runner {
	r.vocab = v
	return r
}

// WithRateLimit throttles model invocations across all workers to
// callsPerSecond. Zero or negative disables throttling.
func (r *Runner) WithRateLimit(callsPerSecond float64) *Runner {
	if callsPerSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(callsPerSecond), 1)
	} else {
		r.limiter = nil
	}
	return r
}

// Run processes every pack and returns one result per pack, index-aligned
// with the input. Per-batch failures live inside each result; Run itself
// fails only on pack-level errors or context cancellation.
func (r *Runner) Run(ctx context.Context, packs []*pack.Pack) ([]*Result, error) {
	results := make([]*Result, len(packs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, p := range packs {
		g.Go(func() error {
			pl, err := New(r.cfg, r.model)
			if err != nil {
				return err
			}
			pl.WithVocab(r.vocab).WithLimiter(r.limiter)

			result, err := pl.Process(ctx, p)
			results[i] = result
			return err
		})
	}

	return results, g.Wait()
}
