package fundamentals

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestCheckExemptions(t *testing.T) {
	c := NewChecker()

	for _, qt := range []string{"ETF", "MUTUALFUND", "CRYPTOCURRENCY"} {
		res := c.Check("SPY", Info{QuoteType: qt, MarketCap: 1})
		assert.True(t, res.IsExempt, qt)
		assert.Zero(t, res.Penalty, qt)
	}

	// Name-based detection catches mislabeled funds.
	res := c.Check("360750.KS", Info{QuoteType: "EQUITY", ShortName: "TIGER S&P500 ETF"})
	assert.True(t, res.IsExempt)
	assert.Zero(t, res.Penalty)
}

func TestCheckMarketCapFloors(t *testing.T) {
	c := NewChecker()
	tests := []struct {
		name    string
		ticker  string
		cap     float64
		penalty float64
	}{
		{"korean below floor", "005930.KS", 10_000_000_000, MarketCapPenalty},
		{"korean kosdaq below floor", "035720.KQ", 25_000_000_000, MarketCapPenalty},
		{"korean above floor", "005930.KS", 50_000_000_000, 0},
		{"global below floor", "AAPL", 150_000_000, MarketCapPenalty},
		{"global above floor", "AAPL", 500_000_000, 0},
		{"missing cap no penalty", "AAPL", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Check(tt.ticker, Info{QuoteType: "EQUITY", MarketCap: tt.cap})
			assert.Equal(t, tt.penalty, res.Penalty)
		})
	}
}

func TestCheckEPSRule(t *testing.T) {
	c := NewChecker()
	base := Info{QuoteType: "EQUITY", MarketCap: 1_000_000_000}

	losing := base
	losing.TrailingEPS = fptr(-2.5)
	res := c.Check("PLTR", losing)
	assert.Equal(t, NegativeEPSPenalty, res.Penalty)

	grower := losing
	grower.RevenueGrowth = 0.35
	res = c.Check("PLTR", grower)
	assert.Zero(t, res.Penalty, "growth exemption waives the EPS penalty")
	assert.NotEmpty(t, res.Messages)

	// Absent EPS triggers nothing.
	res = c.Check("PLTR", base)
	assert.Zero(t, res.Penalty)
}

func TestCheckDebtRule(t *testing.T) {
	c := NewChecker()
	base := Info{QuoteType: "EQUITY", MarketCap: 1_000_000_000, DebtToEquity: fptr(350)}

	res := c.Check("F", base)
	assert.Equal(t, DebtPenalty, res.Penalty)

	bank := base
	bank.Industry = "Banks - Diversified"
	res = c.Check("JPM", bank)
	assert.Zero(t, res.Penalty, "banks run leveraged by design")

	insurer := base
	insurer.Sector = "Insurance"
	res = c.Check("ALL", insurer)
	assert.Zero(t, res.Penalty)
}

func TestCheckPenaltiesAccumulate(t *testing.T) {
	c := NewChecker()
	info := Info{
		QuoteType:    "EQUITY",
		MarketCap:    100_000_000,
		TrailingEPS:  fptr(-1),
		DebtToEquity: fptr(300),
	}
	res := c.Check("XYZ", info)
	assert.Equal(t, MarketCapPenalty+NegativeEPSPenalty+DebtPenalty, res.Penalty)
	assert.Len(t, res.Messages, 3)
}

func TestCheckHealthy(t *testing.T) {
	res := NewChecker().Check("AAPL", Info{QuoteType: "EQUITY", MarketCap: 3e12, TrailingEPS: fptr(6.1)})
	assert.Zero(t, res.Penalty)
	assert.Equal(t, []string{"fundamentals healthy"}, res.Messages)
}

func TestUnavailable(t *testing.T) {
	res := Unavailable()
	assert.Zero(t, res.Penalty)
	assert.False(t, res.IsExempt)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0], "unavailable")
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	want := Info{QuoteType: "EQUITY", ShortName: "Apple Inc.", MarketCap: 3e12}
	raw, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.json"), raw, 0o644))

	p := NewFileProvider(dir)
	got, err := p.Info(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = p.Info(context.Background(), "MSFT")
	assert.Error(t, err, "missing file is a provider failure")
}
