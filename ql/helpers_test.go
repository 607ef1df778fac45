package ql

import (
	"context"
	"fmt"

	"github.com/samuelmolinski/rethinkdb/datum"
)

// fakeTable is an in-memory Table that reports per-document outcomes the
// way the storage layer does: soft errors land in the stats counters, hard
// failures are returned as errors.
type fakeTable struct {
	pkey string
	rows map[string]datum.Datum

	insertBatches  [][]datum.Datum
	autogenBatches [][]bool
	replaceDocs    [][]datum.Datum
	replaceKeys    [][]datum.Datum

	lastConflict      ConflictBehavior
	lastDurability    Durability
	lastReturnChanges ReturnChanges
	lastNonAtomic     bool

	failHard error
}

func newFakeTable(pkey string) *fakeTable {
	return &fakeTable{pkey: pkey, rows: make(map[string]datum.Datum)}
}

func (t *fakeTable) PrimaryKey() string { return t.pkey }

func (t *fakeTable) seed(docs ...datum.Datum) {
	for _, doc := range docs {
		key, _ := doc.Field(t.pkey)
		t.rows[key.StrVal()] = doc
	}
}

func (t *fakeTable) BatchedInsert(_ context.Context, docs []datum.Datum, autogen []bool,
	conflict ConflictBehavior, durability Durability, returnChanges ReturnChanges) (datum.Datum, error) {
	if t.failHard != nil {
		return datum.Datum{}, t.failHard
	}
	t.insertBatches = append(t.insertBatches, docs)
	t.autogenBatches = append(t.autogenBatches, autogen)
	t.lastConflict = conflict
	t.lastDurability = durability
	t.lastReturnChanges = returnChanges

	var inserted, replaced, unchanged, errCount float64
	firstError := ""
	var changes []datum.Datum
	for _, doc := range docs {
		if doc.Type() != datum.TypeObject {
			errCount++
			if firstError == "" {
				firstError = fmt.Sprintf("Expected type OBJECT but found %s.", doc.Type())
			}
			continue
		}
		keyVal, ok := doc.Field(t.pkey)
		if !ok || keyVal.Type() != datum.TypeString {
			errCount++
			if firstError == "" {
				firstError = fmt.Sprintf("Inserted object must have primary key `%s`.", t.pkey)
			}
			continue
		}
		key := keyVal.StrVal()
		old, exists := t.rows[key]
		switch {
		case !exists:
			t.rows[key] = doc
			inserted++
			if returnChanges != ReturnChangesNo {
				changes = append(changes, changeRecord(datum.Null(), doc))
			}
		case conflict == ConflictError:
			errCount++
			if firstError == "" {
				firstError = fmt.Sprintf("Duplicate primary key `%s`:\n%s\n%s", t.pkey, old, doc)
			}
		case doc.Equal(old):
			unchanged++
			if returnChanges == ReturnChangesAlways {
				changes = append(changes, changeRecord(old, old))
			}
		default:
			t.rows[key] = doc
			replaced++
			if returnChanges != ReturnChangesNo {
				changes = append(changes, changeRecord(old, doc))
			}
		}
	}

	b := datum.NewObjectBuilder()
	b.Add("inserted", datum.Number(inserted))
	b.Add("deleted", datum.Number(0))
	b.Add("skipped", datum.Number(0))
	b.Add("replaced", datum.Number(replaced))
	b.Add("unchanged", datum.Number(unchanged))
	b.Add("errors", datum.Number(errCount))
	if firstError != "" {
		b.Add("first_error", datum.String(firstError))
	}
	if returnChanges != ReturnChangesNo {
		b.Add("changes", datum.Array(changes))
	}
	return b.Finish(), nil
}

func (t *fakeTable) BatchedReplace(ctx context.Context, docs, keys []datum.Datum, fn Func,
	nonAtomic bool, durability Durability, returnChanges ReturnChanges) (datum.Datum, error) {
	if t.failHard != nil {
		return datum.Datum{}, t.failHard
	}
	t.replaceDocs = append(t.replaceDocs, docs)
	t.replaceKeys = append(t.replaceKeys, keys)
	t.lastNonAtomic = nonAtomic
	t.lastDurability = durability
	t.lastReturnChanges = returnChanges

	var replaced, unchanged, deleted float64
	for _, keyVal := range keys {
		key := keyVal.StrVal()
		old, exists := t.rows[key]
		row := datum.Null()
		if exists {
			row = old
		}
		newDoc, err := fn.Call(ctx, row)
		if err != nil {
			return datum.Datum{}, err
		}
		switch {
		case newDoc.IsNull():
			delete(t.rows, key)
			deleted++
		case exists && newDoc.Equal(old):
			unchanged++
		default:
			t.rows[key] = newDoc
			replaced++
		}
	}

	b := datum.NewObjectBuilder()
	b.Add("inserted", datum.Number(0))
	b.Add("deleted", datum.Number(deleted))
	b.Add("skipped", datum.Number(0))
	b.Add("replaced", datum.Number(replaced))
	b.Add("unchanged", datum.Number(unchanged))
	b.Add("errors", datum.Number(0))
	return b.Finish(), nil
}

func changeRecord(oldVal, newVal datum.Datum) datum.Datum {
	return datum.Object(map[string]datum.Datum{
		"old_val": oldVal,
		"new_val": newVal,
	})
}

// counterSum adds up the six standard counters of a stats document.
func counterSum(d datum.Datum) float64 {
	var sum float64
	for _, key := range statsCounters {
		if v, ok := d.Field(key); ok {
			sum += v.NumVal()
		}
	}
	return sum
}

func counterValue(d datum.Datum, key string) float64 {
	v, _ := d.Field(key)
	return v.NumVal()
}

func doc(pairs map[string]datum.Datum) datum.Datum {
	return datum.Object(pairs)
}
