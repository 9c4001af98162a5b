// Package predictor drives the batch request/response cycle between a
// document pack and an external prediction model: context selection, batch
// assembly, predict, decode, and dedup-aware write-back.
//
// One pipeline instance processes one pack at a time and carries no state
// across packs. Use Runner to process independent packs concurrently.
package predictor

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/teranos/ANNX/errors"
	"github.com/teranos/ANNX/logger"
	"github.com/teranos/ANNX/ontology"
	"github.com/teranos/ANNX/pack"
)

// State names the per-pack phases of the pipeline.
type State string

const (
	StateAwaitingContext State = "AWAITING_CONTEXT"
	StateBatching        State = "BATCHING"
	StatePredicting      State = "PREDICTING"
	StateWritingBack     State = "WRITING_BACK"
	StateDone            State = "DONE"
)

// Argument is one predicted argument span in child-index coordinates:
// Start and End are inclusive child indices within the context, not
// document offsets.
type Argument struct {
	Start int
	End   int
	Label string
}

// Prediction maps a head child index to its argument spans, for one context.
type Prediction map[int][]Argument

// Model is the boundary to the external inference layer. Predict receives a
// batch and returns exactly one Prediction per context, keyed by original
// batch position regardless of any internal reordering. Predict is the only
// long-running call in the pipeline and is invoked synchronously.
type Model interface {
	Predict(ctx context.Context, batch *Batch) ([]Prediction, error)
}

// Pipeline runs the batch cycle for one pack at a time.
type Pipeline struct {
	cfg     Config
	model   Model
	vocab   Vocab
	limiter *rate.Limiter
	state   State
}

// New creates a pipeline. The config is validated up front so a
// misconfigured pipeline fails before touching any pack.
func New(cfg Config, model Model) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errors.New("predictor requires a model")
	}
	return &Pipeline{cfg: cfg, model: model, state: StateAwaitingContext}, nil
}

// WithVocab sets the vocabulary used to build padded numeric-id rows.
func (pl *Pipeline) WithVocab(v Vocab) *Pipeline {
	pl.vocab = v
	return pl
}

// WithLimiter rate-limits model invocations. The limiter may be shared
// across pipelines; rate.Limiter is safe for concurrent use.
func (pl *Pipeline) WithLimiter(l *rate.Limiter) *Pipeline {
	pl.limiter = l
	return pl
}

// State returns the current pipeline state.
func (pl *Pipeline) State() State { return pl.state }

// Process runs the full cycle over one pack. Batch-level failures (predict
// errors, malformed model output) are recorded in the result and do not
// abort the remaining batches; entries already written back from earlier
// batches stay valid. The returned error covers pack-level failures only
// (bad configuration, context cancellation).
func (pl *Pipeline) Process(ctx context.Context, p *pack.Pack) (*Result, error) {
	start := time.Now()
	result := &Result{PackID: p.ID().String()}

	pl.transition(StateAwaitingContext, p)
	pl.transition(StateBatching, p)

	batches, err := NewBatcher(pl.cfg, pl.vocab).Assemble(p)
	if err != nil {
		return result, errors.Wrap(err, "assembling batches")
	}
	result.Batches = len(batches)

	for _, batch := range batches {
		result.Contexts += len(batch.Contexts)

		if err := pl.processBatch(ctx, p, batch, result); err != nil {
			if ctx.Err() != nil {
				return result, errors.Wrap(err, "pipeline cancelled")
			}
			result.recordBatchFailure(batch.Index, err)
			logger.Logger.Warnw("batch failed, drafts discarded",
				logger.FieldPackID, result.PackID,
				logger.FieldBatchIndex, batch.Index,
				logger.FieldError, err.Error())
		}
	}

	pl.transition(StateDone, p)
	logger.Logger.Infow("pack processed",
		logger.FieldPackID, result.PackID,
		logger.FieldCount, result.Batches,
		logger.FieldCreated, result.Created,
		logger.FieldDeduped, result.Deduped,
		logger.FieldFailed, result.FailedBatches,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return result, nil
}

// processBatch runs predict, decode, and write-back for one batch. Nothing
// is written until the whole batch decodes cleanly, so a failing batch
// leaves the pack's entry count untouched.
func (pl *Pipeline) processBatch(ctx context.Context, p *pack.Pack, batch *Batch, result *Result) error {
	pl.transition(StatePredicting, p)

	if pl.limiter != nil {
		if err := pl.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "waiting for model rate limit")
		}
	}

	predictions, err := pl.model.Predict(ctx, batch)
	if err != nil {
		return errors.Wrapf(err, "predicting batch %d", batch.Index)
	}
	if len(predictions) != len(batch.Contexts) {
		return errors.NewDecoding("model returned %d predictions for %d contexts",
			len(predictions), len(batch.Contexts))
	}

	drafts, err := decodeBatch(batch, predictions)
	if err != nil {
		return err
	}

	pl.transition(StateWritingBack, p)
	return writeBack(p, drafts, result)
}

func (pl *Pipeline) transition(s State, p *pack.Pack) {
	pl.state = s
	logger.Logger.Debugw("pipeline state",
		logger.FieldPackID, p.ID().String(),
		logger.FieldState, string(s))
}

// srlDraft pairs a decoded predicate mention with its decoded arguments.
type srlDraft struct {
	mention *ontology.PredicateMention
	args    []srlArg
}

type srlArg struct {
	argument *ontology.PredicateArgument
	label    string
}

// decodeBatch translates child-index coordinates back to document offsets
// using the spans recorded at assembly. Any index outside the context's
// valid child range is a contract violation of the model and fails the
// whole batch before anything is written.
func decodeBatch(batch *Batch, predictions []Prediction) ([]srlDraft, error) {
	var drafts []srlDraft

	for i, prediction := range predictions {
		spans := batch.Contexts[i].Spans

		// Map iteration order is random; sort head indices so repeated
		// runs assign identities deterministically.
		heads := make([]int, 0, len(prediction))
		for head := range prediction {
			heads = append(heads, head)
		}
		sort.Ints(heads)

		for _, head := range heads {
			if head < 0 || head >= len(spans) {
				return nil, errors.NewDecoding(
					"head index %d outside %d children of context %d in batch %d",
					head, len(spans), i, batch.Index)
			}
			draft := srlDraft{
				mention: ontology.NewPredicateMention(spans[head].Begin, spans[head].End),
			}

			for _, arg := range prediction[head] {
				if arg.Start < 0 || arg.End >= len(spans) || arg.Start > arg.End {
					return nil, errors.NewDecoding(
						"argument span (%d,%d) outside %d children of context %d in batch %d",
						arg.Start, arg.End, len(spans), i, batch.Index)
				}
				begin := spans[arg.Start].Begin
				end := spans[arg.End].End
				if begin > end {
					return nil, errors.NewDecoding(
						"decoded argument offsets inverted: [%d,%d)", begin, end)
				}
				draft.args = append(draft.args, srlArg{
					argument: ontology.NewPredicateArgument(begin, end),
					label:    arg.Label,
				})
			}
			drafts = append(drafts, draft)
		}
	}
	return drafts, nil
}

// writeBack merges decoded drafts into the pack via AddOrGet. Overlapping
// batches and re-runs converge to the same canonical entries; only first
// insertions count as created.
func writeBack(p *pack.Pack, drafts []srlDraft, result *Result) error {
	for _, draft := range drafts {
		mention, err := p.AddOrGet(draft.mention)
		if err != nil {
			return errors.Wrap(err, "writing back predicate mention")
		}
		result.count(mention == pack.Entry(draft.mention))

		for _, a := range draft.args {
			argument, err := p.AddOrGet(a.argument)
			if err != nil {
				return errors.Wrap(err, "writing back predicate argument")
			}
			result.count(argument == pack.Entry(a.argument))

			link := ontology.NewPredicateLink(mention.ID(), argument.ID())
			link.SetArgType(a.label)
			committed, err := p.AddOrGet(link)
			if err != nil {
				return errors.Wrap(err, "writing back predicate link")
			}
			result.count(committed == pack.Entry(link))
		}
	}
	return nil
}
