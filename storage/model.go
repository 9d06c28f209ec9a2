package storage

import (
	"time"

	"github.com/batchhost/batchhost/host"
)

// Outcome classifies how a completed batch finished, derived from the
// error type host.Host reports through its observer hook.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeMergeError   Outcome = "merge_error"
	OutcomePredictError Outcome = "predict_error"
	OutcomeSplitError   Outcome = "split_error"
)

// BatchRecord is one audit-log row describing a completed batch
// invocation: how big it was, how long each phase took, and how it ended.
// It never carries in-flight item payloads — only post-hoc metadata.
type BatchRecord struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" bson:"-"`
	BatchID           string    `gorm:"column:batch_id;uniqueIndex" bson:"batch_id"`
	Size              int       `gorm:"column:size" bson:"size"`
	Outcome           Outcome   `gorm:"column:outcome" bson:"outcome"`
	MergeDurationUs   int64     `gorm:"column:merge_duration_us" bson:"merge_duration_us"`
	PredictDurationUs int64     `gorm:"column:predict_duration_us" bson:"predict_duration_us"`
	SplitDurationUs   int64     `gorm:"column:split_duration_us" bson:"split_duration_us"`
	ErrorMessage      string    `gorm:"column:error_message" bson:"error_message"`
	CreatedAt         time.Time `gorm:"column:created_at" bson:"created_at"`
}

// TableName pins the GORM table name regardless of struct name pluralization.
func (BatchRecord) TableName() string { return "batch_records" }

// RecordFromObservation converts a host.BatchObservation into the
// audit-log row persisted by a Store. CreatedAt is left zero; callers
// that need a precise timestamp should set it before calling Write,
// since this package never calls time.Now() itself.
func RecordFromObservation(obs host.BatchObservation) BatchRecord {
	rec := BatchRecord{
		BatchID:           obs.BatchID,
		Size:              obs.Size,
		Outcome:           classify(obs.Err),
		MergeDurationUs:   obs.MergeDur.Microseconds(),
		PredictDurationUs: obs.PredictDur.Microseconds(),
		SplitDurationUs:   obs.SplitDur.Microseconds(),
	}
	if obs.Err != nil {
		rec.ErrorMessage = obs.Err.Error()
	}
	return rec
}

func classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	switch err.(type) {
	case *host.BatchMergeError:
		return OutcomeMergeError
	case *host.PredictorError:
		return OutcomePredictError
	case *host.BatchSplitError, *host.BatchSplitArityError:
		return OutcomeSplitError
	default:
		return OutcomePredictError
	}
}
