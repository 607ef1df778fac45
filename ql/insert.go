package ql

import (
	"context"
	"fmt"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
	"github.com/samuelmolinski/rethinkdb/stream"
)

// Insert evaluates an insert term. src is either a single document
// (datum.Datum) or a stream of documents (stream.Stream); a single array
// datum is treated as a sequence. Per-document outcomes are reported
// through the returned stats document; only option errors and hard
// table-layer failures surface as returned errors.
func (e *Evaluator) Insert(ctx context.Context, tbl Table, src interface{}, opts OptArgs) (datum.Datum, error) {
	returnChanges, err := resolveReturnChanges(opts)
	if err != nil {
		return datum.Datum{}, err
	}
	conflict, err := resolveConflict(opts)
	if err != nil {
		return datum.Datum{}, err
	}
	durability, err := resolveDurability(opts)
	if err != nil {
		return datum.Datum{}, err
	}

	stats := newStatsObject()
	var conds datum.ConditionSet
	ledger := &keyLedger{}

	var rows stream.Stream
	switch v := src.(type) {
	case datum.Datum:
		if v.Type() == datum.TypeObject {
			// A single document is a one-element batch.
			stats, err = e.insertBatch(ctx, tbl, []datum.Datum{v}, ledger,
				stats, &conds, conflict, durability, returnChanges)
			if err != nil {
				return datum.Datum{}, err
			}
			return e.finishInsert(stats, &conds, ledger)
		}
		if v.Type() != datum.TypeArray {
			return datum.Datum{}, errors.NewLogicf("Cannot convert %s to SEQUENCE.", v.Type())
		}
		items := make([]datum.Datum, v.Len())
		for i := range items {
			items[i] = v.Index(i)
		}
		rows = stream.FromSlice(items)
	case stream.Stream:
		rows = v
	default:
		return datum.Datum{}, errors.AssertionFailedf("unsupported insert source %T", src)
	}

	spec := e.batchSpec()
	for {
		if err := ctx.Err(); err != nil {
			// An in-flight batch is never interrupted; stop between batches.
			return datum.Datum{}, err
		}
		batch, err := rows.NextBatch(ctx, spec)
		if err != nil {
			return datum.Datum{}, err
		}
		if len(batch) == 0 {
			break
		}
		stats, err = e.insertBatch(ctx, tbl, batch, ledger,
			stats, &conds, conflict, durability, returnChanges)
		if err != nil {
			return datum.Datum{}, err
		}
	}

	return e.finishInsert(stats, &conds, ledger)
}

// insertBatch generates missing primary keys for one batch, applies it,
// and folds the partial stats into the running total.
func (e *Evaluator) insertBatch(ctx context.Context, tbl Table, batch []datum.Datum,
	ledger *keyLedger, stats datum.Datum, conds *datum.ConditionSet,
	conflict ConflictBehavior, durability Durability, returnChanges ReturnChanges) (datum.Datum, error) {

	autogenerated := make([]bool, len(batch))
	for i, doc := range batch {
		if doc.Type() != datum.TypeObject {
			continue
		}
		newDoc, wasGenerated, err := maybeGenerateKey(tbl, e.limits, ledger, doc)
		if err != nil {
			// Deferred on purpose: the table layer re-reports the
			// authoritative error for this document.
			e.log.Debugw("key generation deferred to table layer",
				"primary_key", tbl.PrimaryKey(), "error", err)
			continue
		}
		batch[i] = newDoc
		autogenerated[i] = wasGenerated
	}

	partial, err := tbl.BatchedInsert(ctx, batch, autogenerated, conflict, durability, returnChanges)
	if err != nil {
		return datum.Datum{}, err
	}
	return stats.Merge(partial, statsMerge, e.limits, conds)
}

// finishInsert attaches the generated-key list and warnings to the final
// stats document.
func (e *Evaluator) finishInsert(stats datum.Datum, conds *datum.ConditionSet, ledger *keyLedger) (datum.Datum, error) {
	b := datum.BuildingFrom(stats)
	if len(ledger.keys) > 0 {
		if conflict := b.Add("generated_keys", ledger.generatedKeys()); conflict {
			// The stats object cannot already carry this field.
			return datum.Datum{}, errors.AssertionFailedf(
				"stats object already has a `generated_keys` field")
		}
	}
	b.AddWarnings(conds, e.limits)
	if ledger.skipped > 0 {
		b.AddWarning(fmt.Sprintf("Too many generated keys (%d), array truncated to %d.",
			ledger.skipped+len(ledger.keys), len(ledger.keys)), e.limits)
	}
	return b.Finish(), nil
}
