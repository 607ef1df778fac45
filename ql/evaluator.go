package ql

import (
	"go.uber.org/zap"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/stream"
)

// Evaluator evaluates write terms. One Evaluator may serve concurrent
// invocations: all per-invocation state (stats, key ledger, condition set)
// is constructed inside each call and never shared.
type Evaluator struct {
	limits    datum.Limits
	batchSize int
	log       *zap.SugaredLogger
}

// NewEvaluator returns an evaluator with the given limits and terminal
// batch size. A nil logger means silent operation.
func NewEvaluator(limits datum.Limits, batchSize int, log *zap.SugaredLogger) *Evaluator {
	if batchSize <= 0 {
		batchSize = stream.DefaultBatchSize
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Evaluator{limits: limits, batchSize: batchSize, log: log}
}

// Limits returns the limits this evaluator applies.
func (e *Evaluator) Limits() datum.Limits { return e.limits }

func (e *Evaluator) batchSpec() stream.BatchSpec {
	return stream.BatchSpec{MaxSize: e.batchSize}
}

// finishStats attaches accumulated warnings and returns the final stats
// document handed back to the caller.
func finishStats(stats datum.Datum, conds *datum.ConditionSet, limits datum.Limits) datum.Datum {
	b := datum.BuildingFrom(stats)
	b.AddWarnings(conds, limits)
	return b.Finish()
}
