package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autobro/dromru/internal/models"
)

const defaultOutput = `[{"make":"Toyota","model":"Camry","year":"2020","price":2000000,"title":"Toyota Camry 2020","url":"https://drom.ru/auto/toyota/camry/2020","imageUrl":"https://example.com/car.jpg","source":"drom.ru"}]` + "\n"

// isolate points the commands at a throwaway database and the built-in
// site config.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "data", "listings.db"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := NewRootCmd()
	c.SetArgs(args)
	c.SetOut(&out)
	c.SetErr(&out)
	err := c.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) []models.Listing {
	t.Helper()
	var listings []models.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &listings))
	return listings
}

func TestRootNoArgs(t *testing.T) {
	isolate(t)
	out, err := run(t)
	require.NoError(t, err)
	assert.Equal(t, defaultOutput, out)
}

func TestRootFallbacks(t *testing.T) {
	testCases := []struct {
		name  string
		args  []string
		make  string
		model string
		year  string
	}{
		{"make and model", []string{"--make", "Honda", "--model", "Civic"}, "Honda", "Civic", "2020"},
		{"year only", []string{"--year", "1999"}, "Toyota", "Camry", "1999"},
		{"empty make", []string{"--make", "", "--model", "Corolla"}, "Toyota", "Corolla", "2020"},
		{"all set", []string{"--make", "BMW", "--model", "X5", "--year", "2018"}, "BMW", "X5", "2018"},
		{"price range only", []string{"--min_price", "100000", "--max_price", "500000"}, "Toyota", "Camry", "2020"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			out, err := run(t, tc.args...)
			require.NoError(t, err)

			listings := decode(t, out)
			require.Len(t, listings, 1)
			l := listings[0]
			assert.Equal(t, tc.make, l.Make)
			assert.Equal(t, tc.model, l.Model)
			assert.Equal(t, tc.year, l.Year)

			// Fixed fields never follow the query.
			assert.Equal(t, int64(2000000), l.Price)
			assert.Equal(t, "Toyota Camry 2020", l.Title)
			assert.Equal(t, "https://drom.ru/auto/toyota/camry/2020", l.URL)
			assert.Equal(t, "https://example.com/car.jpg", l.ImageURL)
			assert.Equal(t, "drom.ru", l.Source)
		})
	}
}

func TestRootKeepsNonASCII(t *testing.T) {
	isolate(t)
	out, err := run(t, "--make", "Лада", "--model", "Нива & <4x4>")
	require.NoError(t, err)

	assert.Contains(t, out, `"make":"Лада"`)
	assert.Contains(t, out, `"model":"Нива & <4x4>"`)

	listings := decode(t, out)
	require.Len(t, listings, 1)
	assert.Equal(t, "Лада", listings[0].Make)
}

func TestRootUnknownFlag(t *testing.T) {
	isolate(t)
	out, err := run(t, "--color", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
	assert.Contains(t, out, "Usage:")
}

func TestRootRejectsPositionalArgs(t *testing.T) {
	isolate(t)
	_, err := run(t, "camry")
	assert.Error(t, err)
}

func TestSaveSavedAndHistory(t *testing.T) {
	isolate(t)

	out, err := run(t, "--make", "Honda", "--model", "Civic", "--save")
	require.NoError(t, err)
	require.Len(t, decode(t, out), 1)

	// Same listing again: still one stored row, one history entry per query.
	_, err = run(t, "--make", "Honda", "--model", "Civic", "--save")
	require.NoError(t, err)
	_, err = run(t, "--make", "Mazda", "--save")
	require.NoError(t, err)

	out, err = run(t, "saved")
	require.NoError(t, err)
	saved := decode(t, out)
	require.Len(t, saved, 1)
	assert.Equal(t, "Mazda", saved[0].Make)

	out, err = run(t, "history")
	require.NoError(t, err)
	hondaKey := models.ListingQuery{Make: "Honda", Model: "Civic"}.Key()
	mazdaKey := models.ListingQuery{Make: "Mazda"}.Key()
	assert.Contains(t, out, hondaKey)
	assert.Contains(t, out, mazdaKey)

	out, err = run(t, "history", "clear", hondaKey)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 entry(s)")

	out, err = run(t, "history", "clear", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 entry(s)")

	out, err = run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No history found.")
}

func TestSavedEmpty(t *testing.T) {
	isolate(t)
	out, err := run(t, "saved")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestHistoryBadUsage(t *testing.T) {
	isolate(t)
	_, err := run(t, "history", "clear")
	assert.Error(t, err)

	_, err = run(t, "history", "purge")
	assert.Error(t, err)
}
