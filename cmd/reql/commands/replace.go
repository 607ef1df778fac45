package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
	"github.com/samuelmolinski/rethinkdb/ql"
)

// ReplaceIntoCmd rewrites every document in a table through a field update.
var ReplaceIntoCmd = &cobra.Command{
	Use:   "replace-into <table> <field>=<json>",
	Short: "Replace every document in a table through a field update",
	Long: `Replace every document in a table, setting one field to a JSON value.

The assignment runs as a replace over the whole table: each document is
rewritten with the field set to the given value. Documents already carrying
that value count as unchanged.

Examples:
  reql replace-into users 'active=true'
  reql replace-into users 'score=42'
  reql replace-into users 'tags=["a","b"]' --durability soft`,
	Args: cobra.ExactArgs(2),
	RunE: runReplaceInto,
}

var replaceDurabilityFlag string

func init() {
	ReplaceIntoCmd.Flags().StringVar(&replaceDurabilityFlag, "durability", "", "Durability: hard or soft")
}

func runReplaceInto(cmd *cobra.Command, args []string) error {
	field, value, err := parseAssignment(args[1])
	if err != nil {
		return err
	}

	store, db, eval, err := openTable(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	sel, err := store.Selection(cmd.Context())
	if err != nil {
		return err
	}

	fn := ql.NewFunc(true, func(_ context.Context, row datum.Datum) (datum.Datum, error) {
		b := datum.BuildingFrom(row)
		b.Overwrite(field, value)
		return b.Finish(), nil
	})

	opts := ql.OptArgs{}
	if replaceDurabilityFlag != "" {
		opts["durability"] = datum.String(replaceDurabilityFlag)
	}

	stats, err := eval.Replace(cmd.Context(), sel, fn, opts)
	if err != nil {
		return err
	}
	return printStats(stats)
}

// parseAssignment splits "field=json" and parses the value.
func parseAssignment(arg string) (string, datum.Datum, error) {
	field, raw, found := strings.Cut(arg, "=")
	if !found || field == "" {
		return "", datum.Datum{}, errors.NewLogicf("Expected an assignment of the form `field=json` but found `%s`.", arg)
	}
	value, err := datum.FromJSON([]byte(raw))
	if err != nil {
		return "", datum.Datum{}, errors.Wrapf(err, "failed to parse value for field `%s`", field)
	}
	return field, value, nil
}
