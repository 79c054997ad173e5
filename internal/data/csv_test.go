package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCandleFile(t *testing.T, dir, name string, rows int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		c := 100.0 + float64(i)
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,%d\n",
			day.AddDate(0, 0, i).Format("2006-01-02"), c-0.5, c+1, c-1, c, 1000+i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644))
}

func TestCSVSourceHistory(t *testing.T) {
	dir := t.TempDir()
	writeCandleFile(t, dir, "AAPL.csv", 300)
	src := NewCSVSource(dir)

	series, err := src.History(context.Background(), "aapl", "6mo", false)
	require.NoError(t, err)
	assert.Len(t, series, 126, "6mo trims to the trailing bars")
	assert.Equal(t, 100.0+299.0, series.LastClose(), "trailing rows are the newest")

	full, err := src.History(context.Background(), "AAPL", "max", false)
	require.NoError(t, err)
	assert.Len(t, full, 300)
}

func TestCSVSourceShortFileReturnsAll(t *testing.T) {
	dir := t.TempDir()
	writeCandleFile(t, dir, "TINY.csv", 30)
	src := NewCSVSource(dir)

	series, err := src.History(context.Background(), "TINY", "1y", false)
	require.NoError(t, err)
	assert.Len(t, series, 30)
}

func TestCSVSourceMissingTicker(t *testing.T) {
	src := NewCSVSource(t.TempDir())
	_, err := src.History(context.Background(), "NOPE", "6mo", false)
	assert.Error(t, err)
}

func TestCSVSourceMalformedRows(t *testing.T) {
	dir := t.TempDir()
	bad := "Date,Open,High,Low,Close,Volume\nnot-a-date,1,2,3,4,5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BAD.csv"), []byte(bad), 0o644))

	src := NewCSVSource(dir)
	_, err := src.History(context.Background(), "BAD", "6mo", false)
	assert.Error(t, err)
}

func TestCSVSourceSanitizesTicker(t *testing.T) {
	dir := t.TempDir()
	writeCandleFile(t, dir, "BTC_USD.csv", 20)
	src := NewCSVSource(dir)

	series, err := src.History(context.Background(), "btc/usd", "max", false)
	require.NoError(t, err)
	assert.Len(t, series, 20)
}

func TestCSVSourceQuoteUnsupported(t *testing.T) {
	src := NewCSVSource(t.TempDir())
	_, err := src.Quote(context.Background(), "AAPL")
	assert.Error(t, err, "callers fall back to last close")
}
