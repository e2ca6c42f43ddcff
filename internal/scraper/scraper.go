package scraper

import (
	"log"
	"os"

	"autobro/dromru/internal/config"
	"autobro/dromru/internal/models"
)

var logger = log.New(os.Stderr, "SCRAPER: ", log.LstdFlags|log.Lshortfile)

// Run returns the listings matching q.
//
// There is no real drom.ru client yet: Run always answers with a single
// placeholder listing that echoes the make, model and year filters.
func Run(cfg *config.SiteConfig, q models.ListingQuery) ([]models.Listing, error) {
	if q.MinPrice != "" || q.MaxPrice != "" {
		logger.Printf("Price range %q-%q is not applied yet", q.MinPrice, q.MaxPrice)
	}

	item := models.Listing{
		Make:     orDefault(q.Make, cfg.Fallback.Make),
		Model:    orDefault(q.Model, cfg.Fallback.Model),
		Year:     orDefault(q.Year, cfg.Fallback.Year),
		Price:    cfg.Sample.Price,
		Title:    cfg.Sample.Title,
		URL:      cfg.Sample.URL,
		ImageURL: cfg.Sample.ImageURL,
		Source:   cfg.Source,
	}

	return []models.Listing{item}, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
