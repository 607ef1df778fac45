package ql

import (
	"github.com/google/uuid"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
)

// keyLedger records the primary keys generated during one insert
// evaluation. At most limits.ArraySizeLimit() keys are retained for
// reporting; the rest are only counted. Created fresh per evaluation and
// discarded once the final stats document is built.
type keyLedger struct {
	keys    []string
	skipped int
}

func (l *keyLedger) record(key string, limits datum.Limits) {
	if len(l.keys) < limits.ArraySizeLimit() {
		l.keys = append(l.keys, key)
	} else {
		l.skipped++
	}
}

func (l *keyLedger) generatedKeys() datum.Datum {
	out := make([]datum.Datum, len(l.keys))
	for i, k := range l.keys {
		out[i] = datum.String(k)
	}
	return datum.Array(out)
}

// maybeGenerateKey gives doc a primary key if it lacks one. A document that
// already has a value at the primary-key field passes through unchanged
// with autogenerated=false; its value is never touched. Otherwise a fresh
// random UUID is merged in as a new field.
//
// NOTE: autogenerated must be true only when a regular UUID was generated,
// not for any other key scheme; downstream layers assume an autogenerated
// key is a fresh UUID.
func maybeGenerateKey(tbl Table, limits datum.Limits, ledger *keyLedger, doc datum.Datum) (datum.Datum, bool, error) {
	pkey := tbl.PrimaryKey()
	if _, ok := doc.Field(pkey); ok {
		return doc, false, nil
	}

	key := uuid.New().String()
	b := datum.BuildingFrom(doc)
	if conflict := b.Add(pkey, datum.String(key)); conflict {
		// We just confirmed the field was absent.
		return doc, false, errors.AssertionFailedf(
			"field `%s` appeared while generating a key", pkey)
	}
	ledger.record(key, limits)
	return b.Finish(), true, nil
}
