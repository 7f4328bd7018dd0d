package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHalvingDates(t *testing.T) {
	dates := HalvingDates(utcDate(2028, time.April, 1), 4, utcDate(2036, time.December, 1))

	require.Len(t, dates, 3)
	assert.Equal(t, utcDate(2028, time.April, 1), dates[0])
	assert.Equal(t, utcDate(2032, time.April, 1), dates[1])
	assert.Equal(t, utcDate(2036, time.April, 1), dates[2])
}

func TestHalvingDatesUnconfigured(t *testing.T) {
	assert.Nil(t, HalvingDates(time.Time{}, 4, utcDate(2030, time.January, 1)))
	assert.Nil(t, HalvingDates(utcDate(2028, time.April, 1), 0, utcDate(2030, time.January, 1)))
}

func TestSubsidyForMonth(t *testing.T) {
	next := utcDate(2028, time.April, 1)
	subsidyAt := func(y int, m time.Month) float64 {
		return SubsidyForMonth(3.125, next, 4, utcDate(y, m, 1))
	}

	assert.InDelta(t, 3.125, subsidyAt(2026, time.January), 1e-12)
	assert.InDelta(t, 3.125, subsidyAt(2028, time.March), 1e-12)
	assert.InDelta(t, 1.5625, subsidyAt(2028, time.April), 1e-12)
	assert.InDelta(t, 1.5625, subsidyAt(2032, time.March), 1e-12)
	assert.InDelta(t, 0.78125, subsidyAt(2032, time.April), 1e-12)
}

func TestSubsidyForMonthNoHalvingConfigured(t *testing.T) {
	got := SubsidyForMonth(3.125, time.Time{}, 4, utcDate(2040, time.January, 1))
	assert.InDelta(t, 3.125, got, 1e-12)
}
