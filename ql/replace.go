package ql

import (
	"context"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
)

// Replace evaluates a conditional replace term. target is either a
// SingleSelection or a Selection over a table. Unless the non_atomic
// option is set, fn must be provably deterministic; the check happens
// before any row is touched.
func (e *Evaluator) Replace(ctx context.Context, target interface{}, fn Func, opts OptArgs) (datum.Datum, error) {
	nonAtomic, err := resolveNonAtomic(opts)
	if err != nil {
		return datum.Datum{}, err
	}
	returnChanges, err := resolveReturnChanges(opts)
	if err != nil {
		return datum.Datum{}, err
	}
	durability, err := resolveDurability(opts)
	if err != nil {
		return datum.Datum{}, err
	}

	if !nonAtomic && !fn.IsDeterministic() {
		return datum.Datum{}, errors.NewLogicf(
			"Could not prove argument deterministic.  Maybe you want to use the non_atomic flag?")
	}

	stats := newStatsObject()
	var conds datum.ConditionSet

	switch t := target.(type) {
	case SingleSelection:
		partial, err := t.Replace(ctx, fn, nonAtomic, durability, returnChanges)
		if err != nil {
			return datum.Datum{}, err
		}
		stats, err = stats.Merge(partial, statsMerge, e.limits, &conds)
		if err != nil {
			return datum.Datum{}, err
		}

	case Selection:
		stats, err = e.replaceSelection(ctx, t, fn, stats, &conds, nonAtomic, durability, returnChanges)
		if err != nil {
			return datum.Datum{}, err
		}

	default:
		return datum.Datum{}, errors.AssertionFailedf("unsupported replace target %T", target)
	}

	return finishStats(stats, &conds, e.limits), nil
}

// replaceSelection drives the batched replace over a table scan. For a
// deterministic function, a projection is attached to the stream so each
// yielded value is already the row's primary key and the rows need not be
// carried through the pipeline; the table re-fetches them keyed. For a
// non-deterministic function the full rows flow through and keys are
// extracted per batch.
func (e *Evaluator) replaceSelection(ctx context.Context, sel Selection, fn Func,
	stats datum.Datum, conds *datum.ConditionSet,
	nonAtomic bool, durability Durability, returnChanges ReturnChanges) (datum.Datum, error) {

	pkey := sel.Table.PrimaryKey()
	deterministic := fn.IsDeterministic()
	if deterministic {
		sel.Rows.AddTransformation(func(row datum.Datum) (datum.Datum, error) {
			v, ok := row.Field(pkey)
			if !ok {
				return datum.Datum{}, errors.NewNonExistencef("No attribute `%s` in object.", pkey)
			}
			return v, nil
		})
	}

	spec := e.batchSpec()
	for {
		if err := ctx.Err(); err != nil {
			return datum.Datum{}, err
		}
		vals, err := sel.Rows.NextBatch(ctx, spec)
		if err != nil {
			return datum.Datum{}, err
		}
		if len(vals) == 0 {
			return stats, nil
		}

		keys := vals
		if !deterministic {
			keys = make([]datum.Datum, len(vals))
			for i, row := range vals {
				v, ok := row.Field(pkey)
				if !ok {
					return datum.Datum{}, errors.NewNonExistencef("No attribute `%s` in object.", pkey)
				}
				keys[i] = v
			}
		}

		partial, err := sel.Table.BatchedReplace(ctx, vals, keys, fn, nonAtomic, durability, returnChanges)
		if err != nil {
			return datum.Datum{}, err
		}
		stats, err = stats.Merge(partial, statsMerge, e.limits, conds)
		if err != nil {
			return datum.Datum{}, err
		}
	}
}
