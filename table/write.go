package table

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
	"github.com/samuelmolinski/rethinkdb/ql"
)

// writeResult accumulates the per-document outcomes of one batch. The six
// counters always sum to the batch's document count.
type writeResult struct {
	inserted  int
	deleted   int
	skipped   int
	replaced  int
	unchanged int
	errCount  int

	firstError string
	changes    []datum.Datum
}

func (r *writeResult) softError(msg string) {
	r.errCount++
	if r.firstError == "" {
		r.firstError = msg
	}
}

func (r *writeResult) change(oldVal, newVal datum.Datum) {
	r.changes = append(r.changes, datum.Object(map[string]datum.Datum{
		"old_val": oldVal,
		"new_val": newVal,
	}))
}

func (r *writeResult) stats(returnChanges ql.ReturnChanges) datum.Datum {
	b := datum.NewObjectBuilder()
	b.Add("inserted", datum.Number(float64(r.inserted)))
	b.Add("deleted", datum.Number(float64(r.deleted)))
	b.Add("skipped", datum.Number(float64(r.skipped)))
	b.Add("replaced", datum.Number(float64(r.replaced)))
	b.Add("unchanged", datum.Number(float64(r.unchanged)))
	b.Add("errors", datum.Number(float64(r.errCount)))
	if r.firstError != "" {
		b.Add("first_error", datum.String(r.firstError))
	}
	if returnChanges != ql.ReturnChangesNo {
		b.Add("changes", datum.Array(r.changes))
	}
	return b.Finish()
}

// BatchedInsert applies one insert batch. Per-document problems (wrong
// type, missing or malformed primary key, conflicts under the "error"
// behavior) land in the stats counters; only storage failures return an
// error, which is fatal to the whole evaluation.
func (s *Store) BatchedInsert(ctx context.Context, docs []datum.Datum, pkeyWasAutogenerated []bool,
	conflict ql.ConflictBehavior, durability ql.Durability, returnChanges ql.ReturnChanges) (datum.Datum, error) {

	var result writeResult
	err := s.withBatchTx(ctx, durability, func(tx *sql.Tx) error {
		for _, doc := range docs {
			if err := s.insertOne(ctx, tx, doc, conflict, returnChanges, &result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return datum.Datum{}, err
	}

	s.log.Debugw("Insert batch applied",
		"table", s.name,
		"documents", len(docs),
		"inserted", result.inserted,
		"errors", result.errCount,
		"conflict", conflict.String(),
		"durability", durability.String(),
	)
	return result.stats(returnChanges), nil
}

func (s *Store) insertOne(ctx context.Context, tx *sql.Tx, doc datum.Datum,
	conflict ql.ConflictBehavior, returnChanges ql.ReturnChanges, result *writeResult) error {

	if doc.Type() != datum.TypeObject {
		result.softError(fmt.Sprintf("Expected type OBJECT but found %s.", doc.Type()))
		return nil
	}
	keyVal, ok := doc.Field(s.pkey)
	if !ok {
		result.softError(fmt.Sprintf("Inserted object must have primary key `%s`:\n%s", s.pkey, doc))
		return nil
	}
	encoded, err := encodeKey(keyVal)
	if err != nil {
		result.softError(err.Error())
		return nil
	}

	old, err := s.fetch(ctx, tx, encoded)
	if err != nil {
		return err
	}

	if old.IsNull() {
		if err := s.put(ctx, tx, encoded, doc); err != nil {
			return err
		}
		result.inserted++
		if returnChanges != ql.ReturnChangesNo {
			result.change(datum.Null(), doc)
		}
		return nil
	}

	switch conflict {
	case ql.ConflictError:
		result.softError(fmt.Sprintf("Duplicate primary key `%s`:\n%s\n%s", s.pkey, old, doc))

	case ql.ConflictReplace:
		return s.upsertResolved(ctx, tx, encoded, old, doc, returnChanges, result)

	case ql.ConflictUpdate:
		merged := datum.BuildingFrom(old)
		for _, key := range doc.Keys() {
			v, _ := doc.Field(key)
			merged.Overwrite(key, v)
		}
		return s.upsertResolved(ctx, tx, encoded, old, merged.Finish(), returnChanges, result)
	}
	return nil
}

// upsertResolved writes the resolved document over an existing row,
// counting unchanged no-ops.
func (s *Store) upsertResolved(ctx context.Context, tx *sql.Tx, encoded string,
	old, resolved datum.Datum, returnChanges ql.ReturnChanges, result *writeResult) error {

	if resolved.Equal(old) {
		result.unchanged++
		if returnChanges == ql.ReturnChangesAlways {
			result.change(old, old)
		}
		return nil
	}
	if err := s.put(ctx, tx, encoded, resolved); err != nil {
		return err
	}
	result.replaced++
	if returnChanges != ql.ReturnChangesNo {
		result.change(old, resolved)
	}
	return nil
}

func (s *Store) put(ctx context.Context, tx *sql.Tx, encoded string, doc datum.Datum) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return errors.Wrapf(err, "failed to encode document for table `%s`", s.name)
	}
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (pk, doc) VALUES (?, ?)", s.sqlName)
	if _, err := tx.ExecContext(ctx, query, encoded, string(raw)); err != nil {
		return errors.Wrapf(err, "failed to write document to table `%s`", s.name)
	}
	return nil
}

// BatchedReplace applies fn to one batch of rows, keyed per document. The
// stored row (or null for a missing one) is what fn sees; docs carry
// either the full rows or, for a deterministic function, the projected
// key values, and are not consulted beyond their count.
func (s *Store) BatchedReplace(ctx context.Context, docs, keys []datum.Datum, fn ql.Func,
	nonAtomic bool, durability ql.Durability, returnChanges ql.ReturnChanges) (datum.Datum, error) {

	if len(docs) != len(keys) {
		return datum.Datum{}, errors.AssertionFailedf(
			"replace batch size mismatch: %d documents, %d keys", len(docs), len(keys))
	}

	var result writeResult
	err := s.withBatchTx(ctx, durability, func(tx *sql.Tx) error {
		for _, keyVal := range keys {
			if err := s.replaceOne(ctx, tx, keyVal, fn, returnChanges, &result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return datum.Datum{}, err
	}

	s.log.Debugw("Replace batch applied",
		"table", s.name,
		"documents", len(keys),
		"replaced", result.replaced,
		"deleted", result.deleted,
		"errors", result.errCount,
		"non_atomic", nonAtomic,
		"durability", durability.String(),
	)
	return result.stats(returnChanges), nil
}

func (s *Store) replaceOne(ctx context.Context, tx *sql.Tx, keyVal datum.Datum,
	fn ql.Func, returnChanges ql.ReturnChanges, result *writeResult) error {

	encoded, err := encodeKey(keyVal)
	if err != nil {
		result.softError(err.Error())
		return nil
	}
	old, err := s.fetch(ctx, tx, encoded)
	if err != nil {
		return err
	}

	newDoc, err := fn.Call(ctx, old)
	if err != nil {
		result.softError(err.Error())
		return nil
	}

	switch {
	case newDoc.IsNull():
		if old.IsNull() {
			result.skipped++
			if returnChanges == ql.ReturnChangesAlways {
				result.change(datum.Null(), datum.Null())
			}
			return nil
		}
		query := fmt.Sprintf("DELETE FROM %s WHERE pk = ?", s.sqlName)
		if _, err := tx.ExecContext(ctx, query, encoded); err != nil {
			return errors.Wrapf(err, "failed to delete document from table `%s`", s.name)
		}
		result.deleted++
		if returnChanges != ql.ReturnChangesNo {
			result.change(old, datum.Null())
		}
		return nil

	case newDoc.Type() != datum.TypeObject:
		result.softError(fmt.Sprintf("Expected type OBJECT but found %s.", newDoc.Type()))
		return nil
	}

	newKey, ok := newDoc.Field(s.pkey)
	if !ok || !newKey.Equal(keyVal) {
		result.softError(fmt.Sprintf("Primary key `%s` cannot be changed (%s -> %s).",
			s.pkey, keyVal, newDoc))
		return nil
	}

	if old.IsNull() {
		if err := s.put(ctx, tx, encoded, newDoc); err != nil {
			return err
		}
		result.inserted++
		if returnChanges != ql.ReturnChangesNo {
			result.change(datum.Null(), newDoc)
		}
		return nil
	}
	if newDoc.Equal(old) {
		result.unchanged++
		if returnChanges == ql.ReturnChangesAlways {
			result.change(old, old)
		}
		return nil
	}
	if err := s.put(ctx, tx, encoded, newDoc); err != nil {
		return err
	}
	result.replaced++
	if returnChanges != ql.ReturnChangesNo {
		result.change(old, newDoc)
	}
	return nil
}
