// Package hmrc converts foreign-currency amounts to sterling using the
// published monthly exchange rates. Rates are expressed as currency units
// per one pound, so conversion divides the foreign amount by the rate.
package hmrc

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultBaseURL serves the monthly exchange-rate CSV files.
const DefaultBaseURL = "https://www.trade-tariff.service.gov.uk/api/v2/exchange_rates/files"

// Source provides the rate of a currency against sterling for a given month.
type Source interface {
	Rate(ctx context.Context, currency string, year int, month time.Month) (decimal.Decimal, error)
}

// monthKey identifies one published rate file.
type monthKey struct {
	year  int
	month time.Month
}

func fileName(k monthKey) string {
	return fmt.Sprintf("monthly_csv_%d-%d.csv", k.year, int(k.month))
}

// parseRates reads a monthly CSV. The files carry a Currency Code column and
// a Currency Units per £1 column; header spellings drifted over the years so
// both are matched loosely.
func parseRates(r io.Reader) (map[string]decimal.Decimal, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rates CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("rates CSV has no data rows")
	}

	codeCol, rateCol := -1, -1
	for i, name := range records[0] {
		n := strings.ToLower(strings.TrimSpace(name))
		switch {
		case strings.Contains(n, "currency code") || n == "currency":
			codeCol = i
		case strings.Contains(n, "units per"):
			rateCol = i
		}
	}
	if codeCol < 0 || rateCol < 0 {
		return nil, fmt.Errorf("rates CSV missing currency or rate column")
	}

	rates := make(map[string]decimal.Decimal)
	for _, row := range records[1:] {
		if len(row) <= codeCol || len(row) <= rateCol {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(row[codeCol]))
		rate, err := decimal.NewFromString(strings.TrimSpace(row[rateCol]))
		if err != nil || code == "" {
			continue
		}
		rates[code] = rate
	}
	return rates, nil
}

// HTTPSource fetches monthly rate files over HTTP and caches each month
// after the first fetch.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	mu     sync.Mutex
	months map[monthKey]map[string]decimal.Decimal
}

// NewHTTPSource returns a source against the published rate files. A nil
// client falls back to http.DefaultClient, a nil logger to a no-op one.
func NewHTTPSource(client *http.Client, logger *zap.Logger) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		baseURL: DefaultBaseURL,
		client:  client,
		logger:  logger,
		months:  make(map[monthKey]map[string]decimal.Decimal),
	}
}

// Rate implements Source.
func (s *HTTPSource) Rate(ctx context.Context, currency string, year int, month time.Month) (decimal.Decimal, error) {
	rates, err := s.month(ctx, monthKey{year, month})
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := rates[strings.ToUpper(currency)]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate published for %d-%02d", currency, year, int(month))
	}
	return rate, nil
}

// Table returns the full rate table for one month.
func (s *HTTPSource) Table(ctx context.Context, year int, month time.Month) (map[string]decimal.Decimal, error) {
	return s.month(ctx, monthKey{year, month})
}

func (s *HTTPSource) month(ctx context.Context, key monthKey) (map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rates, ok := s.months[key]; ok {
		return rates, nil
	}

	url := s.baseURL + "/" + fileName(key)
	s.logger.Info("fetching exchange rates", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch exchange rates: %s returned %s", url, resp.Status)
	}

	rates, err := parseRates(resp.Body)
	if err != nil {
		return nil, err
	}
	s.months[key] = rates
	return rates, nil
}

// DirSource reads monthly rate files from a local directory, named the same
// way as the published downloads. It backs offline runs and tests.
type DirSource struct {
	dir string

	mu     sync.Mutex
	months map[monthKey]map[string]decimal.Decimal
}

// NewDirSource returns a source over dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir, months: make(map[monthKey]map[string]decimal.Decimal)}
}

// Rate implements Source.
func (s *DirSource) Rate(_ context.Context, currency string, year int, month time.Month) (decimal.Decimal, error) {
	key := monthKey{year, month}
	rates, err := s.month(key)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := rates[strings.ToUpper(currency)]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate in %s", currency, fileName(key))
	}
	return rate, nil
}

// Table returns the full rate table for one month.
func (s *DirSource) Table(_ context.Context, year int, month time.Month) (map[string]decimal.Decimal, error) {
	return s.month(monthKey{year, month})
}

func (s *DirSource) month(key monthKey) (map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rates, ok := s.months[key]; ok {
		return rates, nil
	}

	path := filepath.Join(s.dir, fileName(key))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rates file: %w", err)
	}
	defer f.Close()

	rates, err := parseRates(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s.months[key] = rates
	return rates, nil
}
