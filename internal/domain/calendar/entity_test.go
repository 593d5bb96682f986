package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayEntry_AppliesTo(t *testing.T) {
	public := HolidayEntry{Type: HolidayTypePublic, ApplicableRegions: []string{"BALI"}}
	unrestricted := HolidayEntry{Type: HolidayTypeCompany}
	regional := HolidayEntry{Type: HolidayTypeCompany, ApplicableRegions: []string{"BALI"}}

	assert.True(t, public.AppliesTo("JKT"))
	assert.True(t, unrestricted.AppliesTo(""))
	assert.True(t, regional.AppliesTo("BALI"))
	assert.False(t, regional.AppliesTo("JKT"))
	assert.False(t, regional.AppliesTo(""))
}

func TestHolidayEntry_OccursOn(t *testing.T) {
	jkt, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	dated := HolidayEntry{Date: time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)}
	assert.True(t, dated.OccursOn(time.Date(2026, 8, 17, 0, 0, 0, 0, jkt)))
	assert.False(t, dated.OccursOn(time.Date(2027, 8, 17, 0, 0, 0, 0, jkt)))

	recurring := HolidayEntry{IsRecurring: true, RecurringMonth: 12, RecurringDay: 25}
	assert.True(t, recurring.OccursOn(time.Date(2031, 12, 25, 0, 0, 0, 0, jkt)))
	assert.False(t, recurring.OccursOn(time.Date(2031, 12, 26, 0, 0, 0, 0, jkt)))

	fromDate := HolidayEntry{IsRecurring: true, Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.True(t, fromDate.OccursOn(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSettings_Location(t *testing.T) {
	loc, err := Settings{TimeZone: "Asia/Jakarta"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())

	loc, err = Settings{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = Settings{TimeZone: "Mars/Olympus"}.Location()
	assert.ErrorIs(t, err, ErrInvalidTimeZone)
}

func TestStartOfDay_NormalizesIntoTenantZone(t *testing.T) {
	jkt, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 20:00 UTC on the 1st is already the 2nd in Jakarta (UTC+7).
	instant := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	day := StartOfDay(instant, jkt)
	assert.Equal(t, "2026-03-02", day.Format(DateLayout))
	assert.Equal(t, 0, day.Hour())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 28, d.Day())

	_, err = ParseDate("28/02/2026", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDaysBetween(t *testing.T) {
	jkt, _ := time.LoadLocation("Asia/Jakarta")
	a := time.Date(2026, 3, 28, 0, 0, 0, 0, jkt)
	b := time.Date(2026, 4, 2, 0, 0, 0, 0, jkt)
	assert.Equal(t, 5, DaysBetween(a, b))
	assert.Equal(t, -5, DaysBetween(b, a))
}

func TestUpdateSettingsRequest_Weekdays(t *testing.T) {
	req := UpdateSettingsRequest{TimeZone: "UTC", WeekendDays: []string{"friday", "saturday", "friday"}}
	require.NoError(t, req.Validate())
	assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, req.Weekdays())

	bad := UpdateSettingsRequest{TimeZone: "Nowhere/City"}
	assert.Error(t, bad.Validate())
}
