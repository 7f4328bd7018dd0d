// Package forecast builds month-by-month BTC and fiat production forecasts
// on a Braiins-style profitability backbone: production scales with
// (subsidy + fees) per block and decays against compound annual difficulty
// growth, with halving-aware block subsidies.
package forecast

import (
	"math"
	"sort"
	"time"
)

// MonthlyRow is one month of the halving-aware production forecast.
type MonthlyRow struct {
	Month                  time.Time `json:"month"`
	SubsidyBTC             float64   `json:"subsidy_btc"`
	FeeBTCPerBlock         float64   `json:"fee_btc_per_block"`
	TotalRewardBTCPerBlock float64   `json:"total_reward_btc_per_block"`
	BTCMined               float64   `json:"btc_mined"`
}

// Params configures BuildMonthly. SiteBTCPerDay is the baseline production
// at Start under BaseSubsidyBTC and current difficulty. Growth rates are
// annual percentages (50 means +50%/year), compounded monthly and floored at
// zero.
type Params struct {
	SiteBTCPerDay        float64
	Start                time.Time
	ProjectYears         int
	BaseSubsidyBTC       float64
	NextHalving          time.Time
	HalvingIntervalYears int

	BaseFeeBTCPerBlock         float64
	FeeGrowthPctPerYear        float64
	DifficultyGrowthPctPerYear float64
}

// BuildMonthly builds the month-by-month BTC forecast. Each month's
// production is the baseline scaled by days in the month, by the reward
// factor (subsidy + fees relative to the starting subsidy) and down by the
// compound difficulty multiplier. Returns nil when there is no horizon or no
// baseline production.
func BuildMonthly(p Params) []MonthlyRow {
	if p.ProjectYears <= 0 || p.SiteBTCPerDay <= 0 {
		return nil
	}

	months := p.ProjectYears * 12
	feeGrowth := math.Max(p.FeeGrowthPctPerYear, 0) / 100.0
	diffGrowth := math.Max(p.DifficultyGrowthPctPerYear, 0) / 100.0

	rows := make([]MonthlyRow, 0, months)
	for idx := 0; idx < months; idx++ {
		month := addMonths(p.Start, idx)
		subsidy := SubsidyForMonth(p.BaseSubsidyBTC, p.NextHalving, p.HalvingIntervalYears, month)
		diffMult := difficultyMultiplier(idx, diffGrowth)

		fee := p.BaseFeeBTCPerBlock * math.Pow(1+feeGrowth, float64(idx)/12.0)
		rewardFactor := 1.0
		if p.BaseSubsidyBTC > 0 {
			rewardFactor = (subsidy + fee) / p.BaseSubsidyBTC
		}

		days := float64(daysBetween(month, addMonths(month, 1)))
		btcMined := p.SiteBTCPerDay * days * rewardFactor / diffMult

		rows = append(rows, MonthlyRow{
			Month:                  month,
			SubsidyBTC:             subsidy,
			FeeBTCPerBlock:         fee,
			TotalRewardBTCPerBlock: subsidy + fee,
			BTCMined:               btcMined,
		})
	}

	return rows
}

// AnnualTotal is BTC production grouped by calendar year.
type AnnualTotal struct {
	Year     int     `json:"year"`
	BTCMined float64 `json:"btc_mined"`
}

// AnnualTotals groups monthly production by calendar year, ascending.
func AnnualTotals(rows []MonthlyRow) []AnnualTotal {
	if len(rows) == 0 {
		return nil
	}

	byYear := make(map[int]float64)
	for _, r := range rows {
		byYear[r.Month.Year()] += r.BTCMined
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]AnnualTotal, 0, len(years))
	for _, y := range years {
		out = append(out, AnnualTotal{Year: y, BTCMined: byYear[y]})
	}
	return out
}

func difficultyMultiplier(monthIndex int, annualGrowthFraction float64) float64 {
	if annualGrowthFraction <= 0 {
		return 1.0
	}
	return math.Pow(1+annualGrowthFraction, float64(monthIndex)/12.0)
}

// addMonths steps whole calendar months, clamping the day to the target
// month's length (Jan 31 + 1 month = Feb 28/29).
func addMonths(start time.Time, months int) time.Time {
	total := int(start.Month()) - 1 + months
	year := start.Year() + total/12
	month := time.Month(total%12 + 1)

	day := start.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysIn relies on time.Date normalizing day 0 to the last day of the
// previous month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
