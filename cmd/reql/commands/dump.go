package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// DumpCmd prints every document in a table.
var DumpCmd = &cobra.Command{
	Use:   "dump <table>",
	Short: "Print every document in a table",
	Long: `Print every document in a table, one JSON object per line, ordered
by primary key.

Examples:
  reql dump users
  reql dump users --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	store, db, _, err := openTable(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := store.Rows(cmd.Context())
	if err != nil {
		return err
	}

	count := 0
	for {
		doc, ok, err := rows.Next(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		raw, err := doc.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		count++
	}

	if !JSONOutput {
		pterm.Info.Printf("%d document(s) in table `%s`\n", count, args[0])
	}
	return nil
}
