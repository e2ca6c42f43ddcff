package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"autobro/dromru/internal/config"
	"autobro/dromru/internal/db"
	"autobro/dromru/internal/models"
	"autobro/dromru/internal/scraper"
)

// stdout is reserved for JSON, so diagnostics go to stderr.
var logger = log.New(os.Stderr, "DROMRU: ", log.LstdFlags|log.Lshortfile)

// NewRootCmd builds the dromru command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	var (
		q    models.ListingQuery
		save bool
	)

	rootCmd := &cobra.Command{
		Use:   "dromru",
		Short: "Search drom.ru vehicle listings",
		Long: `Queries drom.ru for vehicle listings matching the given filters and
prints them to stdout as a JSON array.

The drom.ru client is a placeholder: it answers with a single sample
listing that echoes the make, model and year filters.

Examples:
  dromru
  dromru --make Honda --model Civic
  dromru --make Lada --year 2015 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags parsed fine; runtime errors should not print usage.
			cmd.SilenceUsage = true
			return runSearch(cmd.OutOrStdout(), q, save)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&q.Make, "make", "", "Vehicle make, e.g. Toyota")
	flags.StringVar(&q.Model, "model", "", "Vehicle model, e.g. Camry")
	flags.StringVar(&q.Year, "year", "", "Model year")
	flags.StringVar(&q.MinPrice, "min_price", "", "Minimum price")
	flags.StringVar(&q.MaxPrice, "max_price", "", "Maximum price")
	flags.BoolVar(&save, "save", false, "Store results and the query in the local database (DB_PATH)")

	rootCmd.AddCommand(newSavedCmd(), newHistoryCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd := NewRootCmd()
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runSearch(out io.Writer, q models.ListingQuery, save bool) error {
	appCfg, err := config.GetAppConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	siteCfg, err := config.SiteConfigFor(appCfg)
	if err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}

	listings, err := scraper.Run(siteCfg, q)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}

	if err := writeListings(out, listings); err != nil {
		return err
	}

	if !save {
		return nil
	}
	return saveResults(appCfg.DBPath, q, listings)
}

func saveResults(dbPath string, q models.ListingQuery, listings []models.Listing) error {
	database, err := db.Connect(dbPath)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	defer database.Close()

	count, err := db.SaveListings(database, listings)
	if err != nil {
		return fmt.Errorf("failed to save listings: %w", err)
	}
	if err := db.RecordQuery(database, q); err != nil {
		return err
	}
	logger.Printf("Upserted %d listing(s) into %s", count, dbPath)
	return nil
}

// writeListings encodes listings as a single compact JSON array.
// Non-ASCII text and HTML characters are written as-is.
func writeListings(w io.Writer, listings []models.Listing) error {
	if listings == nil {
		listings = []models.Listing{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(listings); err != nil {
		return fmt.Errorf("failed to encode listings: %w", err)
	}
	return nil
}
