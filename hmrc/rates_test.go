package hmrc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

const juneRates = `Country/Territories,Currency,Currency Code,Currency Units per £1
United States,Dollar,USD,1.3421
Euro Zone,Euro,EUR,1.1752
Japan,Yen,JPY,194.2612
`

func TestParseRates(t *testing.T) {
	rates, err := parseRates(strings.NewReader(juneRates))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(rates))
	assert.Equal(t, "1.3421", rates["USD"].String())
	assert.Equal(t, "194.2612", rates["JPY"].String())
}

func TestParseRatesMissingColumns(t *testing.T) {
	_, err := parseRates(strings.NewReader("a,b\n1,2\n"))
	assert.Error(t, err)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monthly_csv_2025-6.csv")
	assert.NoError(t, os.WriteFile(path, []byte(juneRates), 0o644))

	src := NewDirSource(dir)
	rate, err := src.Rate(context.Background(), "usd", 2025, time.June)
	assert.NoError(t, err)
	assert.Equal(t, "1.3421", rate.String())

	_, err = src.Rate(context.Background(), "CHF", 2025, time.June)
	assert.Error(t, err)

	_, err = src.Rate(context.Background(), "USD", 2025, time.July)
	assert.Error(t, err)
}

func TestHTTPSourceCachesMonth(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/monthly_csv_2025-6.csv", r.URL.Path)
		_, _ = w.Write([]byte(juneRates))
	}))
	defer server.Close()

	src := NewHTTPSource(server.Client(), nil)
	src.baseURL = server.URL

	for range 3 {
		rate, err := src.Rate(context.Background(), "EUR", 2025, time.June)
		assert.NoError(t, err)
		assert.Equal(t, "1.1752", rate.String())
	}
	assert.Equal(t, 1, hits)
}

func TestHTTPSourceNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	src := NewHTTPSource(server.Client(), nil)
	src.baseURL = server.URL

	_, err := src.Rate(context.Background(), "USD", 2019, time.January)
	assert.Error(t, err)
}

func TestConverter(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "monthly_csv_2025-6.csv"), []byte(juneRates), 0o644))

	conv := NewConverter(NewDirSource(dir))
	on := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	// 1342.10 USD at 1.3421 per pound is exactly 1000 pounds.
	got, err := conv.ToGBP(context.Background(), decimal.NewFromFloat(1342.10), "USD", on)
	assert.NoError(t, err)
	assert.Equal(t, "1000", got.String())

	// Sterling passes through without a rate lookup.
	got, err = conv.ToGBP(context.Background(), decimal.NewFromFloat(-55.555), "GBP", on)
	assert.NoError(t, err)
	assert.Equal(t, "-55.56", got.String())

	// Sign preserved, rounded to pence.
	got, err = conv.ToGBP(context.Background(), decimal.NewFromFloat(-100), "EUR", on)
	assert.NoError(t, err)
	assert.Equal(t, "-85.09", got.String())

	_, err = conv.ToGBP(context.Background(), decimal.NewFromInt(1), "CHF", on)
	assert.Error(t, err)
}
