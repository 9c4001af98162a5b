package predictor

import (
	"github.com/teranos/ANNX/errors"
	"github.com/teranos/ANNX/pack"
)

// Config parametrizes the pipeline boundary to the model layer.
type Config struct {
	// ContextKind is the outer grouping unit (e.g. Sentence): one model
	// invocation row per context
	ContextKind pack.Kind
	// ChildKind is what gets batched per context (e.g. Token)
	ChildKind pack.Kind
	// MaxBatchSize bounds contexts per batch; a final partial batch is
	// still processed
	MaxBatchSize int
	// PadID fills short child sequences up to the batch's longest row.
	// True lengths are recorded alongside, so padding never leaks into
	// length-gated computation.
	PadID int64
}

func (c Config) validate() error {
	if c.ContextKind == "" || c.ChildKind == "" {
		return errors.New("predictor config requires context and child kinds")
	}
	if c.MaxBatchSize < 1 {
		return errors.Newf("max batch size must be positive, got %d", c.MaxBatchSize)
	}
	return nil
}

// Vocab maps child texts to numeric ids for the model input tensor. It is
// an external collaborator; a nil vocab skips the numeric-id rows and hands
// the model texts only.
type Vocab interface {
	MapTokensToIDs(tokens []string) []int64
}

// Context is one assembled context row: the container annotation plus its
// contained children in document reading order, with the original document
// spans retained for decoding predictions back to offsets.
type Context struct {
	ContextID pack.EntryID
	Span      pack.Span
	Children  []pack.EntryID
	Spans     []pack.Span
	Texts     []string
}

// Batch groups up to MaxBatchSize contexts for one model invocation.
// Row i of TokenIDs/Lengths corresponds to Contexts[i] throughout
// predict and decode.
type Batch struct {
	Index    int
	Contexts []Context
	// TokenIDs is the padded numeric-id matrix, nil when no vocab is set
	TokenIDs [][]int64
	// Lengths holds each row's true (unpadded) child count
	Lengths []int
}

// Batcher assembles model-ready batches from a pack's span index.
type Batcher struct {
	cfg   Config
	vocab Vocab
}

// NewBatcher creates a batcher for the given configuration.
func NewBatcher(cfg Config, vocab Vocab) *Batcher {
	return &Batcher{cfg: cfg, vocab: vocab}
}

// Assemble queries all context annotations in span order, gathers the
// children contained in each, and packs them into batches. Contexts with
// zero children are kept: they yield empty predictions, not errors, and
// dropping them would break the batch-position-to-context correspondence.
func (b *Batcher) Assemble(p *pack.Pack) ([]*Batch, error) {
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}

	var batches []*Batch
	var pending []Context

	flush := func() {
		if len(pending) == 0 {
			return
		}
		batches = append(batches, b.finish(len(batches), pending))
		pending = nil
	}

	for _, ctxID := range p.Annotations(b.cfg.ContextKind) {
		ctx, err := b.gather(p, ctxID)
		if err != nil {
			return nil, err
		}
		pending = append(pending, ctx)
		if len(pending) == b.cfg.MaxBatchSize {
			flush()
		}
	}
	flush()

	return batches, nil
}

func (b *Batcher) gather(p *pack.Pack, ctxID pack.EntryID) (Context, error) {
	e, err := p.Get(ctxID)
	if err != nil {
		return Context{}, err
	}
	container, ok := e.(pack.Annotation)
	if !ok {
		return Context{}, errors.Newf("context kind %s is not an annotation", b.cfg.ContextKind)
	}

	ctx := Context{ContextID: ctxID, Span: container.Span()}
	for _, childID := range p.Query(container.Span(), b.cfg.ChildKind) {
		child, err := p.Get(childID)
		if err != nil {
			return Context{}, err
		}
		a := child.(pack.Annotation)
		ctx.Children = append(ctx.Children, childID)
		ctx.Spans = append(ctx.Spans, a.Span())
		ctx.Texts = append(ctx.Texts, p.TextOf(a))
	}
	return ctx, nil
}

// finish pads the pending contexts into a batch. Rows are padded to the
// longest child sequence in this batch only, not globally.
func (b *Batcher) finish(index int, contexts []Context) *Batch {
	batch := &Batch{
		Index:    index,
		Contexts: contexts,
		Lengths:  make([]int, len(contexts)),
	}

	maxLen := 0
	for i, ctx := range contexts {
		batch.Lengths[i] = len(ctx.Children)
		if len(ctx.Children) > maxLen {
			maxLen = len(ctx.Children)
		}
	}

	if b.vocab == nil {
		return batch
	}

	batch.TokenIDs = make([][]int64, len(contexts))
	for i, ctx := range contexts {
		row := make([]int64, maxLen)
		copy(row, b.vocab.MapTokensToIDs(ctx.Texts))
		for j := len(ctx.Children); j < maxLen; j++ {
			row[j] = b.cfg.PadID
		}
		batch.TokenIDs[i] = row
	}
	return batch
}
