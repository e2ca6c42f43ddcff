package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"autobro/dromru/internal/config"
	"autobro/dromru/internal/db"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [clear <query|all>]",
		Short: "Show or clear queries stored with --save",
		Long: `Lists the queries recorded by "dromru --save", newest first.

Examples:
  dromru history
  dromru history clear "make=Honda&max_price=&min_price=&model=Civic&year="
  dromru history clear all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && strings.ToLower(args[0]) != "clear" {
				return fmt.Errorf("unknown history command %q", args[0])
			}
			if len(args) == 1 {
				return fmt.Errorf(`usage: dromru history clear "query" (or 'all')`)
			}
			cmd.SilenceUsage = true

			appCfg, err := config.GetAppConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			database, err := db.Connect(appCfg.DBPath)
			if err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			if len(args) == 0 {
				return printHistory(cmd.OutOrStdout(), database)
			}
			return clearHistory(cmd.OutOrStdout(), database, strings.TrimSpace(strings.Join(args[1:], " ")))
		},
	}
}

func printHistory(out io.Writer, database *sql.DB) error {
	entries, err := db.ListQueryHistory(database)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history found.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "[%s] %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Key)
	}
	return nil
}

func clearHistory(out io.Writer, database *sql.DB, target string) error {
	var (
		affected int64
		err      error
	)
	if strings.EqualFold(target, "all") {
		affected, err = db.ClearAllQueryHistory(database)
	} else {
		affected, err = db.ClearQueryHistory(database, target)
	}
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(out, "Removed %d entry(s) from history.\n", affected)
	return nil
}
