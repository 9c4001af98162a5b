package predictor

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ANNX/errors"
	"github.com/teranos/ANNX/ontology"
	"github.com/teranos/ANNX/pack"
)

// countingModel is a concurrency-safe stub shared across runner workers.
type countingModel struct {
	mu    sync.Mutex
	calls int
}

func (m *countingModel) Predict(_ context.Context, batch *Batch) ([]Prediction, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	preds := make([]Prediction, len(batch.Contexts))
	for i := range preds {
		preds[i] = Prediction{
			1: {{Start: 0, End: 0, Label: "ARG0"}},
		}
	}
	return preds, nil
}

func TestRunnerProcessesAllPacks(t *testing.T) {
	packs := []*pack.Pack{srlPack(t), srlPack(t), srlPack(t)}
	model := &countingModel{}

	r, err := NewRunner(testConfig, model, 2)
	require.NoError(t, err)

	results, err := r.Run(context.Background(), packs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, result := range results {
		require.NotNil(t, result, "result %d", i)
		assert.Equal(t, packs[i].ID().String(), result.PackID, "results are index-aligned")
		assert.True(t, result.Ok())
		assert.Equal(t, 3, result.Created) // mention, argument, link
		require.Len(t, packs[i].Annotations(ontology.KindPredicateMention), 1)
	}
	assert.Equal(t, 3, model.calls)
}

func TestRunnerPropagatesModelError(t *testing.T) {
	packs := []*pack.Pack{srlPack(t)}

	model := &stubModel{predict: func(batch *Batch) ([]Prediction, error) {
		return nil, errors.New("model down")
	}}

	r, err := NewRunner(testConfig, model, 1)
	require.NoError(t, err)

	// Model failures are batch-level: Run succeeds, the result records them.
	results, err := r.Run(context.Background(), packs)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].FailedBatches)
	assert.False(t, results[0].Ok())
}

func TestRunnerRejectsBadArguments(t *testing.T) {
	_, err := NewRunner(testConfig, nil, 1)
	assert.Error(t, err)

	_, err = NewRunner(testConfig, &countingModel{}, 0)
	assert.Error(t, err)
}

func TestRunnerCancellation(t *testing.T) {
	packs := []*pack.Pack{srlPack(t), srlPack(t)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &countingModel{}
	r, err := NewRunner(testConfig, model, 1)
	require.NoError(t, err)
	r.WithRateLimit(100) // limiter.Wait observes the cancelled context

	_, err = r.Run(ctx, packs)
	assert.Error(t, err)
}
