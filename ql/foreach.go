package ql

import (
	"context"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
	"github.com/samuelmolinski/rethinkdb/stream"
)

const forEachFailMsg = "FOR_EACH expects one or more basic write queries."

// Foreach evaluates a foreach term: fn is invoked once per row and is
// expected to perform its own writes, returning a stats-shaped object or
// an array of them, each merged into the running total. The total starts
// from an empty object, not the six-counter zero object; whatever shape fn
// returns is merged as-is. Failures from fn or from interpreting its
// result are re-raised with a fixed contextual message, preserving the
// original error's class.
func (e *Evaluator) Foreach(ctx context.Context, rows stream.Stream, fn Func) (datum.Datum, error) {
	stats := datum.Object(nil)
	var conds datum.ConditionSet

	for {
		if err := ctx.Err(); err != nil {
			return datum.Datum{}, err
		}
		row, ok, err := rows.Next(ctx)
		if err != nil {
			return datum.Datum{}, err
		}
		if !ok {
			break
		}

		result, err := fn.Call(ctx, row)
		if err != nil {
			return datum.Datum{}, errors.WithMessage(err, forEachFailMsg)
		}
		stats, err = e.mergeForeachResult(stats, result, &conds)
		if err != nil {
			return datum.Datum{}, errors.WithMessage(err, forEachFailMsg)
		}
	}

	return finishStats(stats, &conds, e.limits), nil
}

// mergeForeachResult folds one per-row result into the running stats:
// objects merge directly, arrays merge element by element in order.
func (e *Evaluator) mergeForeachResult(stats, result datum.Datum, conds *datum.ConditionSet) (datum.Datum, error) {
	switch result.Type() {
	case datum.TypeObject:
		return stats.Merge(result, statsMerge, e.limits, conds)
	case datum.TypeArray:
		var err error
		for i := 0; i < result.Len(); i++ {
			elem := result.Index(i)
			if elem.Type() != datum.TypeObject {
				return datum.Datum{}, errors.NewLogicf("Expected type OBJECT but found %s.", elem.Type())
			}
			stats, err = stats.Merge(elem, statsMerge, e.limits, conds)
			if err != nil {
				return datum.Datum{}, err
			}
		}
		return stats, nil
	default:
		return datum.Datum{}, errors.NewLogicf("Expected type OBJECT but found %s.", result.Type())
	}
}
