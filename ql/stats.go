package ql

import (
	"fmt"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
)

// statsCounters are the six counters every insert/replace batch conserves:
// their sum over one batch equals the batch's document count.
var statsCounters = []string{"inserted", "deleted", "skipped", "replaced", "unchanged", "errors"}

// newStatsObject returns the zero stats document.
func newStatsObject() datum.Datum {
	b := datum.NewObjectBuilder()
	for _, key := range statsCounters {
		b.Add(key, datum.Number(0))
	}
	return b.Finish()
}

// statsMerge combines per-batch partial stats into the running total. It is
// commutative and associative on the counter fields, so merge order across
// batches does not affect the result. Any key pair outside the shapes below
// must never occur; hitting one is a defect in this engine, reported as an
// assertion failure rather than a wrong result.
func statsMerge(key string, left, right datum.Datum, limits datum.Limits, conds *datum.ConditionSet) (datum.Datum, error) {
	switch {
	case left.Type() == datum.TypeNumber && right.Type() == datum.TypeNumber:
		return datum.Number(left.NumVal() + right.NumVal()), nil

	case key == "warnings" && left.Type() == datum.TypeArray && right.Type() == datum.TypeArray:
		return unionWarnings(left, right), nil

	case key == "changes" && left.Type() == datum.TypeArray && right.Type() == datum.TypeArray:
		return concatChanges(left, right, limits, conds), nil

	case key == "first_error" && left.Type() == datum.TypeString && right.Type() == datum.TypeString:
		// Keep the earlier-merged error.
		if left.StrVal() != "" {
			return left, nil
		}
		return right, nil

	default:
		return datum.Datum{}, errors.AssertionFailedf(
			"cannot merge stats field `%s` (%s vs %s)", key, left.Type(), right.Type())
	}
}

// unionWarnings merges two warning arrays as condition sets: deduplicated,
// left operand's order first.
func unionWarnings(left, right datum.Datum) datum.Datum {
	var set datum.ConditionSet
	for i := 0; i < left.Len(); i++ {
		set.Add(left.Index(i).StrVal())
	}
	for i := 0; i < right.Len(); i++ {
		set.Add(right.Index(i).StrVal())
	}
	conds := set.All()
	out := make([]datum.Datum, len(conds))
	for i, c := range conds {
		out[i] = datum.String(c)
	}
	return datum.Array(out)
}

// concatChanges concatenates two change-record arrays, left first,
// truncating at the array size limit with a recorded condition.
func concatChanges(left, right datum.Datum, limits datum.Limits, conds *datum.ConditionSet) datum.Datum {
	out := make([]datum.Datum, 0, left.Len()+right.Len())
	for i := 0; i < left.Len(); i++ {
		out = append(out, left.Index(i))
	}
	for i := 0; i < right.Len(); i++ {
		out = append(out, right.Index(i))
	}
	if limit := limits.ArraySizeLimit(); len(out) > limit {
		out = out[:limit]
		conds.Add(truncatedChangesWarning(limit))
	}
	return datum.Array(out)
}

func truncatedChangesWarning(limit int) string {
	return fmt.Sprintf("Too many changes, array truncated to %d.", limit)
}
