package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/batchhost/batchhost/host"
)

func TestRecordFromObservation_Success(t *testing.T) {
	obs := host.BatchObservation{
		BatchID:    "batch-1",
		Size:       4,
		MergeDur:   2 * time.Millisecond,
		PredictDur: 10 * time.Millisecond,
		SplitDur:   1 * time.Millisecond,
	}

	rec := RecordFromObservation(obs)

	assert.Equal(t, "batch-1", rec.BatchID)
	assert.Equal(t, 4, rec.Size)
	assert.Equal(t, OutcomeSuccess, rec.Outcome)
	assert.Equal(t, int64(2000), rec.MergeDurationUs)
	assert.Equal(t, int64(10000), rec.PredictDurationUs)
	assert.Equal(t, int64(1000), rec.SplitDurationUs)
	assert.Empty(t, rec.ErrorMessage)
}

func TestRecordFromObservation_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"merge error", &host.BatchMergeError{Err: errors.New("bad input")}, OutcomeMergeError},
		{"predictor error", &host.PredictorError{Err: errors.New("model crashed")}, OutcomePredictError},
		{"split error", &host.BatchSplitError{Err: errors.New("shape mismatch")}, OutcomeSplitError},
		{"split arity error", &host.BatchSplitArityError{Expected: 3, Got: 2}, OutcomeSplitError},
		{"unknown error", errors.New("boom"), OutcomePredictError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecordFromObservation(host.BatchObservation{BatchID: "x", Err: tt.err})
			assert.Equal(t, tt.want, rec.Outcome)
			assert.Equal(t, tt.err.Error(), rec.ErrorMessage)
		})
	}
}

func TestBatchRecord_TableName(t *testing.T) {
	assert.Equal(t, "batch_records", BatchRecord{}.TableName())
}
