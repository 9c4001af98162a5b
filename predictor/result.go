package predictor

import "fmt"

// Result accumulates per-pack write-back statistics and per-batch failures.
type Result struct {
	PackID   string
	Batches  int
	Contexts int

	// Created counts first insertions; Deduped counts drafts that merged
	// into an existing canonical entry
	Created int
	Deduped int

	// FailedBatches counts batches whose drafts were discarded. Their
	// errors are kept in Errors, index-aligned with failure order, for
	// the caller to inspect (no automatic retry).
	FailedBatches int
	Errors        []error
}

func (r *Result) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Deduped++
	}
}

func (r *Result) recordBatchFailure(batchIndex int, err error) {
	r.FailedBatches++
	r.Errors = append(r.Errors, fmt.Errorf("batch %d: %w", batchIndex, err))
}

// Ok reports whether every batch was written back.
func (r *Result) Ok() bool {
	return r.FailedBatches == 0
}
