package calendar

import (
	"testing"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsBusinessDay_Weekends(t *testing.T) {
	cal := New(nil)

	assert.True(t, cal.IsBusinessDay(date("2025-01-06")), "Monday")
	assert.True(t, cal.IsBusinessDay(date("2025-01-10")), "Friday")
	assert.False(t, cal.IsBusinessDay(date("2025-01-11")), "Saturday")
	assert.False(t, cal.IsBusinessDay(date("2025-01-12")), "Sunday")
}

func TestIsBusinessDay_Holidays(t *testing.T) {
	cal := New([]time.Time{date("2025-01-01")})

	assert.False(t, cal.IsBusinessDay(date("2025-01-01")))
	assert.True(t, cal.IsBusinessDay(date("2025-01-02")))
}

func TestIsBusinessDay_NormalizesTimeOfDay(t *testing.T) {
	cal := New([]time.Time{date("2025-01-01").Add(15 * time.Hour)})

	// The holiday was given mid-day; any instant on that date matches.
	assert.False(t, cal.IsBusinessDay(date("2025-01-01").Add(9*time.Hour)))
}

func TestBusinessDaysIn_SkipsWeekendAndHoliday(t *testing.T) {
	cal := New([]time.Time{date("2025-01-08")}) // Wednesday off

	days := cal.BusinessDaysIn(domain.DateRange{
		Start: date("2025-01-06"), // Monday
		End:   date("2025-01-13"), // next Monday
	})

	require.Len(t, days, 5)
	assert.Equal(t, domain.Day(date("2025-01-06")), days[0])
	assert.Equal(t, domain.Day(date("2025-01-07")), days[1])
	assert.Equal(t, domain.Day(date("2025-01-09")), days[2])
	assert.Equal(t, domain.Day(date("2025-01-10")), days[3])
	assert.Equal(t, domain.Day(date("2025-01-13")), days[4])
}

func TestCountBusinessDays(t *testing.T) {
	cal := New(nil)

	n := cal.CountBusinessDays(domain.DateRange{
		Start: date("2025-01-06"),
		End:   date("2025-01-12"),
	})
	assert.Equal(t, 5, n)
}

func TestNextBusinessDay_SkipsWeekend(t *testing.T) {
	cal := New(nil)

	next := cal.NextBusinessDay(date("2025-01-10")) // Friday
	assert.Equal(t, domain.Day(date("2025-01-13")), next)
}

func TestNextBusinessDay_SkipsHolidayRun(t *testing.T) {
	cal := New([]time.Time{date("2025-01-13")}) // Monday off

	next := cal.NextBusinessDay(date("2025-01-10"))
	assert.Equal(t, domain.Day(date("2025-01-14")), next)
}
