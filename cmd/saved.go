package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"autobro/dromru/internal/config"
	"autobro/dromru/internal/db"
)

func newSavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "Print listings stored with --save",
		Long:  `Reads all active listings from the local database (DB_PATH) and prints them as a JSON array, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			listings, err := db.GetActiveListings(database)
			if err != nil {
				return fmt.Errorf("failed to load listings: %w", err)
			}
			return writeListings(cmd.OutOrStdout(), listings)
		},
	}
}
