package fundamentals

import (
	"context"
	"fmt"
	"strings"
)

// Info is the key-value bag a fundamentals provider returns. Every
// field is optional; pointer fields distinguish "absent" from zero.
// Absent fields never trigger a penalty.
type Info struct {
	QuoteType     string   `json:"quote_type"`
	ShortName     string   `json:"short_name"`
	MarketCap     float64  `json:"market_cap"`
	TrailingEPS   *float64 `json:"trailing_eps"`
	RevenueGrowth float64  `json:"revenue_growth"`
	DebtToEquity  *float64 `json:"debt_to_equity"`
	Industry      string   `json:"industry"`
	Sector        string   `json:"sector"`
}

// Result is the checker's outcome: an additive penalty plus the
// ordered human-readable audit trail.
type Result struct {
	Penalty  float64  `json:"penalty"`
	Messages []string `json:"messages"`
	IsExempt bool     `json:"is_exempt"`
}

// Provider fetches the fundamentals info for a ticker. Failures are
// reduced by the caller to a zero-penalty informational result.
type Provider interface {
	Info(ctx context.Context, ticker string) (Info, error)
}

// Penalty weights and thresholds.
const (
	MarketCapPenalty    = 25.0
	NegativeEPSPenalty  = 20.0
	DebtPenalty         = 10.0
	KoreanCapFloorKRW   = 30_000_000_000 // ₩30B
	GlobalCapFloorUSD   = 200_000_000    // $200M
	GrowthExemptionRate = 0.20
	DebtEquityThreshold = 200.0
)

var exemptQuoteTypes = map[string]bool{
	"ETF":            true,
	"MUTUALFUND":     true,
	"CRYPTOCURRENCY": true,
}

var financialKeywords = []string{"bank", "financial", "insurance"}

// Checker applies the ordered penalty rules to a fundamentals bag.
// Each rule is independent and additive; exemptions short-circuit or
// downgrade a rule to a message.
type Checker struct{}

func NewChecker() *Checker { return &Checker{} }

// Check scores the fundamentals for ticker. It never returns an error:
// missing fields simply do not trigger their rule.
func (c *Checker) Check(ticker string, info Info) Result {
	// ETFs, funds and crypto have no balance sheet to x-ray.
	if exemptQuoteTypes[info.QuoteType] || strings.Contains(info.ShortName, "ETF") {
		return Result{
			Penalty:  0,
			Messages: []string{"ETF/fund/crypto — fundamentals check exempt"},
			IsExempt: true,
		}
	}

	var penalty float64
	var messages []string
	upper := strings.ToUpper(strings.TrimSpace(ticker))
	isKorean := strings.HasSuffix(upper, ".KS") || strings.HasSuffix(upper, ".KQ")

	if info.MarketCap > 0 {
		if isKorean && info.MarketCap < KoreanCapFloorKRW {
			penalty += MarketCapPenalty
			messages = append(messages, fmt.Sprintf(
				"market cap ₩%.0fB below ₩30B floor (-%.0f)", info.MarketCap/1e9, MarketCapPenalty))
		} else if !isKorean && info.MarketCap < GlobalCapFloorUSD {
			penalty += MarketCapPenalty
			messages = append(messages, fmt.Sprintf(
				"market cap $%.0fM below $200M floor (-%.0f)", info.MarketCap/1e6, MarketCapPenalty))
		}
	}

	if info.TrailingEPS != nil && *info.TrailingEPS < 0 {
		if info.RevenueGrowth > GrowthExemptionRate {
			messages = append(messages, fmt.Sprintf(
				"growth-stock exemption — revenue growth %.0f%% waives EPS penalty", info.RevenueGrowth*100))
		} else {
			penalty += NegativeEPSPenalty
			messages = append(messages, fmt.Sprintf("persistent losses (EPS<0) (-%.0f)", NegativeEPSPenalty))
		}
	}

	if info.DebtToEquity != nil && *info.DebtToEquity > DebtEquityThreshold {
		if isFinancial(info) {
			messages = append(messages, "financial sector — leverage penalty exempt")
		} else {
			penalty += DebtPenalty
			messages = append(messages, fmt.Sprintf("debt/equity above 200%% (-%.0f)", DebtPenalty))
		}
	}

	if penalty == 0 && len(messages) == 0 {
		messages = append(messages, "fundamentals healthy")
	}
	return Result{Penalty: penalty, Messages: messages}
}

// Unavailable is the degraded result used when the provider fails:
// penalty zero, a single informational message, never an error.
func Unavailable() Result {
	return Result{Penalty: 0, Messages: []string{"fundamentals data unavailable — check skipped"}}
}

func isFinancial(info Info) bool {
	industry := strings.ToLower(info.Industry)
	sector := strings.ToLower(info.Sector)
	for _, kw := range financialKeywords {
		if strings.Contains(industry, kw) || strings.Contains(sector, kw) {
			return true
		}
	}
	return false
}
