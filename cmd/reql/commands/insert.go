package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
	"github.com/samuelmolinski/rethinkdb/ql"
)

// InsertCmd inserts documents into a table.
var InsertCmd = &cobra.Command{
	Use:   "insert <table> [file]",
	Short: "Insert documents from a JSON file or stdin",
	Long: `Insert documents into a table.

Input is a single JSON object or an array of objects, read from the given
file or from stdin. Documents without an "id" field get a generated UUID
primary key, reported under generated_keys in the stats.

Examples:
  reql insert users docs.json
  cat docs.json | reql insert users
  reql insert users docs.json --conflict update --durability soft
  reql insert users docs.json --return-changes always`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInsert,
}

var (
	insertConflictFlag      string
	insertDurabilityFlag    string
	insertReturnChangesFlag string
)

func init() {
	InsertCmd.Flags().StringVar(&insertConflictFlag, "conflict", "", "Conflict behavior: error, replace or update")
	InsertCmd.Flags().StringVar(&insertDurabilityFlag, "durability", "", "Durability: hard or soft")
	InsertCmd.Flags().StringVar(&insertReturnChangesFlag, "return-changes", "", "Report old/new value pairs: true, false or always")
}

func runInsert(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args)
	if err != nil {
		return err
	}
	docs, err := parseDocs(raw)
	if err != nil {
		return err
	}

	store, db, eval, err := openTable(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	opts := ql.OptArgs{}
	if insertConflictFlag != "" {
		opts["conflict"] = datum.String(insertConflictFlag)
	}
	if insertDurabilityFlag != "" {
		opts["durability"] = datum.String(insertDurabilityFlag)
	}
	if insertReturnChangesFlag != "" {
		switch insertReturnChangesFlag {
		case "true":
			opts["return_changes"] = datum.Bool(true)
		case "false":
			opts["return_changes"] = datum.Bool(false)
		default:
			opts["return_changes"] = datum.String(insertReturnChangesFlag)
		}
	}

	stats, err := eval.Insert(cmd.Context(), store, docs, opts)
	if err != nil {
		return err
	}
	return printStats(stats)
}

func readInput(args []string) ([]byte, error) {
	if len(args) > 1 {
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read input file `%s`", args[1])
		}
		return raw, nil
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stdin")
	}
	return raw, nil
}
