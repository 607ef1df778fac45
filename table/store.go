// Package table provides the SQLite-backed document store driven by the
// write terms. One Store is one table: documents are JSON rows keyed by an
// encoded primary-key value, and every batched operation reports
// per-document outcomes through a stats document rather than hard failures.
package table

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
	"github.com/samuelmolinski/rethinkdb/ql"
	"github.com/samuelmolinski/rethinkdb/stream"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Store implements ql.Table over a SQLite database.
type Store struct {
	db      *sql.DB
	name    string
	pkey    string
	sqlName string
	log     *zap.SugaredLogger
}

// Open binds a Store to the named table, creating its schema if needed.
// A nil logger means silent operation.
func Open(db *sql.DB, name, pkey string, log *zap.SugaredLogger) (*Store, error) {
	if !tableNamePattern.MatchString(name) {
		return nil, errors.NewLogicf("Table name `%s` invalid (use A-Za-z0-9_ and start with a letter).", name)
	}
	if pkey == "" {
		pkey = "id"
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Store{
		db:      db,
		name:    name,
		pkey:    pkey,
		sqlName: "documents_" + name,
		log:     log,
	}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	s.log.Debugw("Table store opened", "table", name, "primary_key", pkey)
	return s, nil
}

func (s *Store) ensureSchema() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			pk  TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)`, s.sqlName)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.name, err)
	}
	return nil
}

// Name returns the table name.
func (s *Store) Name() string { return s.name }

// PrimaryKey returns the primary key field name.
func (s *Store) PrimaryKey() string { return s.pkey }

// Get fetches one document by primary-key value. A missing row is the
// null datum, matching row-lookup semantics elsewhere in the engine.
func (s *Store) Get(ctx context.Context, key datum.Datum) (datum.Datum, error) {
	encoded, err := encodeKey(key)
	if err != nil {
		return datum.Datum{}, err
	}
	return s.fetch(ctx, s.db, encoded)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *Store) fetch(ctx context.Context, q queryRower, encodedKey string) (datum.Datum, error) {
	var raw string
	query := fmt.Sprintf("SELECT doc FROM %s WHERE pk = ?", s.sqlName)
	err := q.QueryRowContext(ctx, query, encodedKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return datum.Null(), nil
	}
	if err != nil {
		return datum.Datum{}, errors.Wrapf(err, "failed to fetch document from table `%s`", s.name)
	}
	return datum.FromJSON([]byte(raw))
}

// Count returns the number of documents in the table.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.sqlName)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "failed to count documents in table `%s`", s.name)
	}
	return n, nil
}

// Rows returns a stream over a snapshot of the table, ordered by encoded
// primary key.
func (s *Store) Rows(ctx context.Context) (stream.Stream, error) {
	query := fmt.Sprintf("SELECT doc FROM %s ORDER BY pk", s.sqlName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan table `%s`", s.name)
	}
	defer rows.Close()

	var docs []datum.Datum
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrapf(err, "failed to scan document from table `%s`", s.name)
		}
		d, err := datum.FromJSON([]byte(raw))
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan table `%s`", s.name)
	}
	return stream.FromSlice(docs), nil
}

// Selection returns the whole table as a replace target.
func (s *Store) Selection(ctx context.Context) (ql.Selection, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return ql.Selection{}, err
	}
	return ql.Selection{Table: s, Rows: rows}, nil
}

// Row addresses a single document by primary-key value.
func (s *Store) Row(key datum.Datum) *Row {
	return &Row{store: s, key: key}
}

// Row is one addressable document; it implements ql.SingleSelection.
type Row struct {
	store *Store
	key   datum.Datum
}

// Replace applies fn to the row. A missing row presents as null to the
// function; a non-null result inserts.
func (r *Row) Replace(ctx context.Context, fn ql.Func, nonAtomic bool,
	durability ql.Durability, returnChanges ql.ReturnChanges) (datum.Datum, error) {
	keys := []datum.Datum{r.key}
	return r.store.BatchedReplace(ctx, keys, keys, fn, nonAtomic, durability, returnChanges)
}

// withBatchTx runs one batch inside a transaction, honoring the durability
// requirement. Soft durability trades the synchronous guarantee for speed
// for the duration of the batch.
func (s *Store) withBatchTx(ctx context.Context, durability ql.Durability, body func(*sql.Tx) error) error {
	if durability == ql.DurabilitySoft {
		if _, err := s.db.ExecContext(ctx, "PRAGMA synchronous = OFF"); err != nil {
			return errors.Wrap(err, "failed to relax synchronous mode")
		}
		defer func() {
			if _, err := s.db.Exec("PRAGMA synchronous = FULL"); err != nil {
				s.log.Warnw("Failed to restore synchronous mode", "error", err)
			}
		}()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin batch transaction")
	}
	if err := body(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit batch transaction")
	}
	return nil
}

// encodeKey maps a primary-key datum to its storage encoding. The type tag
// keeps the number 1 and the string "1" distinct.
func encodeKey(key datum.Datum) (string, error) {
	switch key.Type() {
	case datum.TypeString:
		return "S:" + key.StrVal(), nil
	case datum.TypeNumber:
		return "N:" + strconv.FormatFloat(key.NumVal(), 'g', -1, 64), nil
	case datum.TypeBool:
		return "B:" + strconv.FormatBool(key.BoolVal()), nil
	default:
		return "", errors.NewLogicf("Primary keys must be either a number, string or bool (got type %s).", key.Type())
	}
}
