// Package ql implements the write terms of the query engine: insert,
// conditional replace, and foreach. Each term drives bounded batches
// against a table collaborator and folds the per-batch partial stats into
// one result document.
package ql

import (
	"context"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/stream"
)

// Table is the storage collaborator the write terms drive. Implementations
// must be safe to call repeatedly with disjoint batches and must report
// per-document outcomes through the stats counters rather than hard
// failures; an error return is fatal to the whole evaluation.
type Table interface {
	// PrimaryKey returns the table's primary key field name.
	PrimaryKey() string

	// BatchedInsert applies one insert batch. pkeyWasAutogenerated marks,
	// per document, whether the primary key was freshly generated.
	BatchedInsert(ctx context.Context, docs []datum.Datum, pkeyWasAutogenerated []bool,
		conflict ConflictBehavior, durability Durability, returnChanges ReturnChanges) (datum.Datum, error)

	// BatchedReplace applies fn to one batch of rows, keyed per document.
	// When fn is deterministic, docs and keys are both the projected
	// primary-key values and the rows are re-fetched table-side.
	BatchedReplace(ctx context.Context, docs, keys []datum.Datum, fn Func,
		nonAtomic bool, durability Durability, returnChanges ReturnChanges) (datum.Datum, error)
}

// SingleSelection is one addressable row.
type SingleSelection interface {
	Replace(ctx context.Context, fn Func, nonAtomic bool,
		durability Durability, returnChanges ReturnChanges) (datum.Datum, error)
}

// Selection is a row-producing scan over a table.
type Selection struct {
	Table Table
	Rows  stream.Stream
}

// Func is a callable taking one document. IsDeterministic reports whether
// the function is provably side-effect-free; the replace term requires
// that unless the non_atomic flag is set.
type Func interface {
	Call(ctx context.Context, row datum.Datum) (datum.Datum, error)
	IsDeterministic() bool
}

type funcImpl struct {
	call          func(context.Context, datum.Datum) (datum.Datum, error)
	deterministic bool
}

func (f funcImpl) Call(ctx context.Context, row datum.Datum) (datum.Datum, error) {
	return f.call(ctx, row)
}

func (f funcImpl) IsDeterministic() bool { return f.deterministic }

// NewFunc wraps a Go function as a Func with the given determinism claim.
func NewFunc(deterministic bool, call func(context.Context, datum.Datum) (datum.Datum, error)) Func {
	return funcImpl{call: call, deterministic: deterministic}
}
