package commands

import (
	"database/sql"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/samuelmolinski/rethinkdb/am"
	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
	"github.com/samuelmolinski/rethinkdb/logger"
	"github.com/samuelmolinski/rethinkdb/ql"
	"github.com/samuelmolinski/rethinkdb/stream"
	"github.com/samuelmolinski/rethinkdb/table"
)

// JSONOutput switches command output and logs to machine-readable JSON.
// Set by the root command's --json flag before any command runs.
var JSONOutput bool

// openTable loads configuration, opens the configured database and binds
// the named table. The caller owns closing the returned database handle.
func openTable(name string) (*table.Store, *sql.DB, *ql.Evaluator, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to load configuration")
	}

	db, err := table.OpenDB(cfg.Database.Path, logger.Logger)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to open database")
	}

	store, err := table.Open(db, name, "id", logger.Logger)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	limits := datum.NewLimits(cfg.Eval.ArraySizeLimit)
	eval := ql.NewEvaluator(limits, cfg.Eval.BatchSize, logger.Logger)
	return store, db, eval, nil
}

// printStats renders a write-stats document. JSON mode prints the raw
// object; console mode summarizes the counters and surfaces the first
// error, if any.
func printStats(stats datum.Datum) error {
	if JSONOutput {
		raw, err := stats.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	}

	for _, key := range []string{"inserted", "replaced", "unchanged", "skipped", "deleted", "errors"} {
		if v, ok := stats.Field(key); ok && v.NumVal() > 0 {
			pterm.Info.Printf("%s: %d\n", key, int(v.NumVal()))
		}
	}
	if keys, ok := stats.Field("generated_keys"); ok {
		for i := 0; i < keys.Len(); i++ {
			pterm.Info.Printf("generated key: %s\n", keys.Index(i).StrVal())
		}
	}
	if warnings, ok := stats.Field("warnings"); ok {
		for i := 0; i < warnings.Len(); i++ {
			pterm.Warning.Println(warnings.Index(i).StrVal())
		}
	}
	if firstErr, ok := stats.Field("first_error"); ok {
		pterm.Error.Println(firstErr.StrVal())
	}
	if errCount, ok := stats.Field("errors"); !ok || errCount.NumVal() == 0 {
		pterm.Success.Println("Write complete")
	}
	return nil
}

// parseDocs accepts a single JSON object or an array of objects and
// returns a stream over them.
func parseDocs(raw []byte) (stream.Stream, error) {
	d, err := datum.FromJSON(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse input JSON")
	}
	switch d.Type() {
	case datum.TypeObject:
		return stream.FromSlice([]datum.Datum{d}), nil
	case datum.TypeArray:
		docs := make([]datum.Datum, 0, d.Len())
		for i := 0; i < d.Len(); i++ {
			docs = append(docs, d.Index(i))
		}
		return stream.FromSlice(docs), nil
	default:
		return nil, errors.NewLogicf("Expected an OBJECT or an ARRAY of objects but found %s.", d.Type())
	}
}
