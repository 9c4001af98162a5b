package predictor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ANNX/errors"
	"github.com/teranos/ANNX/ontology"
	"github.com/teranos/ANNX/pack"
)

var testConfig = Config{
	ContextKind:  ontology.KindSentence,
	ChildKind:    ontology.KindToken,
	MaxBatchSize: 4,
	PadID:        0,
}

// stubModel returns canned predictions and records the batches it saw.
type stubModel struct {
	predict func(batch *Batch) ([]Prediction, error)
	batches []*Batch
}

func (m *stubModel) Predict(_ context.Context, batch *Batch) ([]Prediction, error) {
	m.batches = append(m.batches, batch)
	return m.predict(batch)
}

// stubVocab maps each token text to a deterministic non-pad id.
type stubVocab struct{}

func (stubVocab) MapTokensToIDs(tokens []string) []int64 {
	ids := make([]int64, len(tokens))
	for i, tok := range tokens {
		ids[i] = int64(len(tok)) + 1
	}
	return ids
}

// srlPack builds the canonical fixture: "John hit the ball ." with five
// tokens and one sentence containing them all.
func srlPack(t *testing.T) *pack.Pack {
	t.Helper()
	p := pack.New("John hit the ball .")

	require.NoError(t, p.Add(ontology.NewSentence(0, 19)))
	for _, s := range [][2]int{{0, 4}, {5, 8}, {9, 12}, {13, 17}, {18, 19}} {
		require.NoError(t, p.Add(ontology.NewToken(s[0], s[1])))
	}
	return p
}

// srlPrediction marks "hit" as head with "John" as ARG0 and "the ball" as ARG1.
func srlPrediction(batch *Batch) ([]Prediction, error) {
	preds := make([]Prediction, len(batch.Contexts))
	for i := range preds {
		preds[i] = Prediction{
			1: {
				{Start: 0, End: 0, Label: "ARG0"},
				{Start: 2, End: 3, Label: "ARG1"},
			},
		}
	}
	return preds, nil
}

func TestProcessDecodesAndWritesBack(t *testing.T) {
	p := srlPack(t)
	model := &stubModel{predict: srlPrediction}

	pl, err := New(testConfig, model)
	require.NoError(t, err)

	result, err := pl.Process(context.Background(), p)
	require.NoError(t, err)
	require.True(t, result.Ok())
	assert.Equal(t, StateDone, pl.State())
	assert.Equal(t, 1, result.Batches)
	assert.Equal(t, 1, result.Contexts)

	// One mention, two arguments, two links on top of the 6 fixture entries.
	assert.Equal(t, 5, result.Created)
	assert.Equal(t, 11, p.Len())

	mentions := p.Annotations(ontology.KindPredicateMention)
	require.Len(t, mentions, 1)
	mention, err := p.Get(mentions[0])
	require.NoError(t, err)
	assert.Equal(t, pack.Span{Begin: 5, End: 8}, mention.(pack.Annotation).Span())
	assert.Equal(t, "hit", p.TextOf(mention.(pack.Annotation)))

	argSpans := map[string]string{}
	for _, id := range p.Annotations(ontology.KindPredicateArgument) {
		e, err := p.Get(id)
		require.NoError(t, err)
		a := e.(pack.Annotation)
		argSpans[p.TextOf(a)] = a.Span().String()
	}
	assert.Equal(t, map[string]string{
		"John":     "[0,4)",
		"the ball": "[9,17)",
	}, argSpans)

	labels := map[string]bool{}
	for id := pack.EntryID(1); id <= pack.EntryID(p.Len()); id++ {
		e, err := p.Get(id)
		if err != nil {
			continue
		}
		if link, ok := e.(*ontology.PredicateLink); ok {
			argType, set := link.ArgType()
			require.True(t, set)
			labels[argType] = true
			assert.Equal(t, mentions[0], link.Parent())
		}
	}
	assert.Equal(t, map[string]bool{"ARG0": true, "ARG1": true}, labels)
}

func TestProcessIsIdempotent(t *testing.T) {
	p := srlPack(t)
	model := &stubModel{predict: srlPrediction}

	pl, err := New(testConfig, model)
	require.NoError(t, err)

	first, err := pl.Process(context.Background(), p)
	require.NoError(t, err)
	countAfterFirst := p.Len()
	assert.Equal(t, 5, first.Created)

	// Re-running the same predictions merges into the canonical entries.
	second, err := pl.Process(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 5, second.Deduped)
	assert.Equal(t, countAfterFirst, p.Len())
}

func TestBatchSplit(t *testing.T) {
	// Five one-token sentences with max batch size 2 split into 2,2,1.
	p := pack.New("aa bb cc dd ee")
	for i := 0; i < 5; i++ {
		begin := i * 3
		require.NoError(t, p.Add(ontology.NewSentence(begin, begin+2)))
		require.NoError(t, p.Add(ontology.NewToken(begin, begin+2)))
	}

	model := &stubModel{predict: func(batch *Batch) ([]Prediction, error) {
		return make([]Prediction, len(batch.Contexts)), nil
	}}

	cfg := testConfig
	cfg.MaxBatchSize = 2
	pl, err := New(cfg, model)
	require.NoError(t, err)

	result, err := pl.Process(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, 5, result.Contexts)

	require.Len(t, model.batches, 3)
	assert.Len(t, model.batches[0].Contexts, 2)
	assert.Len(t, model.batches[1].Contexts, 2)
	assert.Len(t, model.batches[2].Contexts, 1)

	// Every context appears exactly once, in span order.
	seen := map[pack.EntryID]int{}
	for _, b := range model.batches {
		for _, ctx := range b.Contexts {
			seen[ctx.ContextID]++
		}
	}
	assert.Len(t, seen, 5)
	for id, n := range seen {
		assert.Equal(t, 1, n, "context %d", id)
	}
}

func TestBatchPadding(t *testing.T) {
	// Two sentences with 2 and 1 tokens; the short row pads to length 2.
	p := pack.New("aa bb cc")
	require.NoError(t, p.Add(ontology.NewSentence(0, 5)))
	require.NoError(t, p.Add(ontology.NewSentence(6, 8)))
	for _, s := range [][2]int{{0, 2}, {3, 5}, {6, 8}} {
		require.NoError(t, p.Add(ontology.NewToken(s[0], s[1])))
	}

	cfg := testConfig
	cfg.PadID = -1
	batches, err := NewBatcher(cfg, stubVocab{}).Assemble(p)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	batch := batches[0]
	assert.Equal(t, []int{2, 1}, batch.Lengths)
	require.Len(t, batch.TokenIDs, 2)
	assert.Len(t, batch.TokenIDs[0], 2)
	assert.Equal(t, []int64{3, -1}, batch.TokenIDs[1], "short row is padded")
	assert.Equal(t, []string{"aa", "bb"}, batch.Contexts[0].Texts)
}

func TestEmptyContextYieldsEmptyPrediction(t *testing.T) {
	// A sentence with no tokens still occupies its batch position.
	p := pack.New("aa bb")
	require.NoError(t, p.Add(ontology.NewSentence(0, 2)))
	require.NoError(t, p.Add(ontology.NewSentence(3, 5)))
	require.NoError(t, p.Add(ontology.NewToken(0, 2)))

	model := &stubModel{predict: func(batch *Batch) ([]Prediction, error) {
		return make([]Prediction, len(batch.Contexts)), nil
	}}

	pl, err := New(testConfig, model)
	require.NoError(t, err)

	result, err := pl.Process(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, result.Ok())
	assert.Equal(t, 2, result.Contexts)

	require.Len(t, model.batches, 1)
	assert.Equal(t, []int{1, 0}, model.batches[0].Lengths)
}

func TestMalformedHeadIndexFailsBatch(t *testing.T) {
	p := srlPack(t)
	before := p.Len()

	model := &stubModel{predict: func(batch *Batch) ([]Prediction, error) {
		preds := make([]Prediction, len(batch.Contexts))
		preds[0] = Prediction{99: {{Start: 0, End: 0, Label: "ARG0"}}}
		return preds, nil
	}}

	pl, err := New(testConfig, model)
	require.NoError(t, err)

	result, err := pl.Process(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FailedBatches)
	require.Len(t, result.Errors, 1)
	assert.True(t, errors.IsDecoding(result.Errors[0]))
	assert.Equal(t, before, p.Len(), "failed batch must not write anything")
}

func TestMalformedArgumentRangeFailsBatch(t *testing.T) {
	p := srlPack(t)
	before := p.Len()

	model := &stubModel{predict: func(batch *Batch) ([]Prediction, error) {
		preds := make([]Prediction, len(batch.Contexts))
		preds[0] = Prediction{1: {{Start: 3, End: 1, Label: "ARG0"}}}
		return preds, nil
	}}

	pl, err := New(testConfig, model)
	require.NoError(t, err)

	result, err := pl.Process(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedBatches)
	assert.True(t, errors.IsDecoding(result.Errors[0]))
	assert.Equal(t, before, p.Len())
}

func TestPredictionCountMismatchFailsBatch(t *testing.T) {
	p := srlPack(t)

	model := &stubModel{predict: func(batch *Batch) ([]Prediction, error) {
		return make([]Prediction, len(batch.Contexts)+1), nil
	}}

	pl, err := New(testConfig, model)
	require.NoError(t, err)

	result, err := pl.Process(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedBatches)
	assert.True(t, errors.IsDecoding(result.Errors[0]))
}

func TestFailedBatchKeepsEarlierBatches(t *testing.T) {
	// Two single-context batches; the second one fails.
	p := pack.New("aa bb")
	require.NoError(t, p.Add(ontology.NewSentence(0, 2)))
	require.NoError(t, p.Add(ontology.NewSentence(3, 5)))
	require.NoError(t, p.Add(ontology.NewToken(0, 2)))
	require.NoError(t, p.Add(ontology.NewToken(3, 5)))

	calls := 0
	model := &stubModel{predict: func(batch *Batch) ([]Prediction, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("model exploded")
		}
		return []Prediction{{0: {{Start: 0, End: 0, Label: "ARG0"}}}}, nil
	}}

	cfg := testConfig
	cfg.MaxBatchSize = 1
	pl, err := New(cfg, model)
	require.NoError(t, err)

	result, err := pl.Process(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Batches)
	assert.Equal(t, 1, result.FailedBatches)
	// The first batch's write-back survives: mention + argument + link.
	assert.Equal(t, 3, result.Created)
	assert.Len(t, p.Annotations(ontology.KindPredicateMention), 1)
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Config{}, &stubModel{})
	assert.Error(t, err)

	_, err = New(testConfig, nil)
	assert.Error(t, err)
}
