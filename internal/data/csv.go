package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CSVSource serves OHLCV history from a directory of per-ticker CSV
// files (TICKER.csv with a Date,Open,High,Low,Close,Volume header).
// It exists so analyses and scans run offline; live market glue stays
// behind the same Source interface.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// periodBars maps a period hint to a trailing bar count. Unknown hints
// and "max" return the full file.
var periodBars = map[string]int{
	"1mo": 21,
	"3mo": 63,
	"6mo": 126,
	"1y":  252,
	"2y":  504,
}

func (s *CSVSource) History(ctx context.Context, ticker, period string, autoAdjust bool) (Series, error) {
	_ = autoAdjust // CSV files carry a single adjustment variant

	path := filepath.Join(s.dir, sanitizeTicker(ticker)+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candle file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read candle file %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("candle file %s has no data rows", path)
	}

	series := make(Series, 0, len(rows)-1)
	for _, row := range rows[1:] {
		c, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("candle file %s: %w", path, err)
		}
		series = append(series, c)
	}

	if n, ok := periodBars[period]; ok && len(series) > n {
		series = series[len(series)-n:]
	}
	return series, nil
}

// Quote is unsupported for CSV data; callers fall back to last close.
func (s *CSVSource) Quote(ctx context.Context, ticker string) (float64, error) {
	return 0, fmt.Errorf("csv source has no live quote for %s", ticker)
}

func sanitizeTicker(ticker string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(ticker)), "/", "_")
}

func parseRow(row []string) (Candle, error) {
	ts, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
	if err != nil {
		return Candle{}, fmt.Errorf("bad date %q: %w", row[0], err)
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad numeric field %q: %w", row[i+1], err)
		}
		vals[i] = v
	}
	return Candle{Time: ts, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4]}, nil
}
