package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samuelmolinski/rethinkdb/cmd/reql/commands"
	"github.com/samuelmolinski/rethinkdb/logger"
)

var rootCmd = &cobra.Command{
	Use:   "reql",
	Short: "reql - Batched document write evaluator",
	Long: `reql - Evaluate batched document writes against a local store.

Documents live in SQLite-backed tables keyed by the "id" field. Writes run
in batches and report per-invocation statistics (inserted, replaced,
unchanged, skipped, deleted, errors) as a single JSON object.

Available commands:
  insert       - Insert documents from a JSON file or stdin
  replace-into - Replace every document in a table through a field update
  dump         - Print every document in a table

Examples:
  reql insert users docs.json                 # Insert documents from a file
  cat docs.json | reql insert users           # Insert from stdin
  reql insert users docs.json --conflict update
  reql replace-into users 'active=true'       # Set a field on every document
  reql dump users                             # Show table contents`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(commands.JSONOutput); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&commands.JSONOutput, "json", false, "Machine-readable JSON output and logs")

	rootCmd.AddCommand(commands.InsertCmd)
	rootCmd.AddCommand(commands.ReplaceIntoCmd)
	rootCmd.AddCommand(commands.DumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
