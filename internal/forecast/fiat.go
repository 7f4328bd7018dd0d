package forecast

import (
	"math"
	"time"
)

// FiatRow is one month of the fiat revenue forecast.
type FiatRow struct {
	Month       time.Time `json:"month"`
	BTCMined    float64   `json:"btc_mined"`
	BTCPriceUSD float64   `json:"btc_price_usd"`
	RevenueUSD  float64   `json:"revenue_usd"`
	RevenueGBP  float64   `json:"revenue_gbp"`
}

// BuildFiatMonthly prices a BTC production forecast along a compounding
// price path. annualPriceGrowthPct is an annual percentage (20 means
// +20%/year) converted to a monthly factor, so the path compounds smoothly
// month over month.
func BuildFiatMonthly(rows []MonthlyRow, startPriceUSD, annualPriceGrowthPct, usdToGBP float64) []FiatRow {
	if len(rows) == 0 {
		return nil
	}

	monthlyFactor := math.Pow(1+annualPriceGrowthPct/100.0, 1.0/12.0)

	out := make([]FiatRow, 0, len(rows))
	for idx, r := range rows {
		price := startPriceUSD * math.Pow(monthlyFactor, float64(idx))
		usd := r.BTCMined * price
		out = append(out, FiatRow{
			Month:       r.Month,
			BTCMined:    r.BTCMined,
			BTCPriceUSD: price,
			RevenueUSD:  usd,
			RevenueGBP:  usd * usdToGBP,
		})
	}
	return out
}
