package models

import (
	"net/url"
	"time"
)

// ListingQuery holds the filters supplied on the command line.
type ListingQuery struct {
	Make     string
	Model    string
	Year     string
	MinPrice string
	MaxPrice string
}

// Key returns a canonical form of the query, used to store it in history.
func (q ListingQuery) Key() string {
	v := url.Values{}
	v.Set("make", q.Make)
	v.Set("model", q.Model)
	v.Set("year", q.Year)
	v.Set("min_price", q.MinPrice)
	v.Set("max_price", q.MaxPrice)
	return v.Encode()
}

// Listing is a single vehicle record as returned by the scraper.
type Listing struct {
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     string `json:"year"`
	Price    int64  `json:"price"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
	Source   string `json:"source"`
}

// QueryRecord is a ListingQuery that has been saved to history.
type QueryRecord struct {
	Key       string
	Query     ListingQuery
	CreatedAt time.Time
}
