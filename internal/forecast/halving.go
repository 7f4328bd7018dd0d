package forecast

import "time"

// HalvingDates lists halving dates from the next known halving through
// lastMonth, stepping intervalYears each time. Empty when no next halving is
// configured (zero time) or the interval is non-positive.
func HalvingDates(next time.Time, intervalYears int, lastMonth time.Time) []time.Time {
	if next.IsZero() || intervalYears <= 0 {
		return nil
	}

	var dates []time.Time
	current := next
	for !current.After(lastMonth) {
		dates = append(dates, current)
		current = time.Date(current.Year()+intervalYears, current.Month(), current.Day(), 0, 0, 0, 0, time.UTC)
	}
	return dates
}

// SubsidyForMonth returns the per-block subsidy for a calendar month:
// startSubsidy cut in half at the next halving date and every intervalYears
// after it. A zero halving date models no further halvings.
func SubsidyForMonth(startSubsidy float64, nextHalving time.Time, intervalYears int, month time.Time) float64 {
	subsidy := startSubsidy
	if nextHalving.IsZero() || intervalYears <= 0 {
		return subsidy
	}

	next := nextHalving
	for !month.Before(next) {
		subsidy *= 0.5
		next = time.Date(next.Year()+intervalYears, next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
	}
	return subsidy
}
