package attendance

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayShift() shift.ShiftDefinition {
	return shift.ShiftDefinition{
		Code:                           "DAY",
		StartTime:                      shift.NewClockTime(9, 0),
		EndTime:                        shift.NewClockTime(17, 0),
		GracePeriodMinutes:             15,
		EarlyDepartureAllowanceMinutes: 10,
		OvertimeThresholdHours:         8,
		MinHoursForFullDay:             8,
		HalfDayThresholdHours:          4,
		IsActive:                       true,
	}
}

func nightShift() shift.ShiftDefinition {
	return shift.ShiftDefinition{
		Code:                           "NIGHT",
		StartTime:                      shift.NewClockTime(22, 0),
		EndTime:                        shift.NewClockTime(6, 0),
		GracePeriodMinutes:             10,
		EarlyDepartureAllowanceMinutes: 15,
		OvertimeThresholdHours:         8,
		MinHoursForFullDay:             8,
		HalfDayThresholdHours:          4,
		IsNightShift:                   true,
		IsActive:                       true,
	}
}

func at(day, hm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+hm)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCompute_DayShift(t *testing.T) {
	day := at("2025-03-03", "00:00")

	tests := []struct {
		name     string
		in, out  string
		breakMin int
		want     attendance.Computation
	}{
		{
			name: "present with overtime", in: "09:10", out: "18:40", breakMin: 60,
			want: attendance.Computation{HoursWorked: 8.5, RegularHours: 8, OvertimeHours: 0.5, Status: attendance.StatusPresent},
		},
		{
			name: "late by one minute", in: "09:16", out: "17:30", breakMin: 30,
			want: attendance.Computation{HoursWorked: 7.73, RegularHours: 7.73, IsLate: true, LateMinutes: 1, Status: attendance.StatusLate},
		},
		{
			name: "early departure", in: "09:00", out: "16:00",
			want: attendance.Computation{HoursWorked: 7, RegularHours: 7, IsEarlyDeparture: true, EarlyDepartureMinutes: 50, Status: attendance.StatusEarlyDeparture},
		},
		{
			name: "exactly the half-day threshold", in: "09:00", out: "13:00",
			want: attendance.Computation{HoursWorked: 4, RegularHours: 4, IsEarlyDeparture: true, EarlyDepartureMinutes: 230, Status: attendance.StatusEarlyDeparture},
		},
		{
			name: "half day wins over late", in: "09:30", out: "12:00",
			want: attendance.Computation{HoursWorked: 2.5, RegularHours: 2.5, IsLate: true, LateMinutes: 15, IsEarlyDeparture: true, EarlyDepartureMinutes: 290, Status: attendance.StatusHalfDay},
		},
		{
			name: "breaks longer than the stay", in: "09:00", out: "09:20", breakMin: 45,
			want: attendance.Computation{IsEarlyDeparture: true, EarlyDepartureMinutes: 450, Status: attendance.StatusHalfDay},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(at("2025-03-03", tt.in), at("2025-03-03", tt.out), tt.breakMin, dayShift(), day, time.UTC)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_NightShiftAcrossMidnight(t *testing.T) {
	day := at("2025-03-03", "00:00")

	onTime := Compute(at("2025-03-03", "21:55"), at("2025-03-04", "06:10"), 0, nightShift(), day, time.UTC)
	assert.Equal(t, 8.25, onTime.HoursWorked)
	assert.Equal(t, 8.0, onTime.RegularHours)
	assert.Equal(t, 0.25, onTime.OvertimeHours)
	assert.False(t, onTime.IsLate)
	assert.False(t, onTime.IsEarlyDeparture)
	assert.Equal(t, attendance.StatusPresent, onTime.Status)

	early := Compute(at("2025-03-03", "21:55"), at("2025-03-04", "05:40"), 0, nightShift(), day, time.UTC)
	assert.True(t, early.IsEarlyDeparture)
	assert.Equal(t, 5, early.EarlyDepartureMinutes)
	assert.Equal(t, attendance.StatusEarlyDeparture, early.Status)

	late := Compute(at("2025-03-03", "22:30"), at("2025-03-04", "06:30"), 0, nightShift(), day, time.UTC)
	assert.Equal(t, 20, late.LateMinutes)
	assert.Equal(t, attendance.StatusLate, late.Status)
}

func TestCompute_UsesTenantClock(t *testing.T) {
	jkt, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, jkt)

	// 02:20 and 10:20 UTC are 09:20 and 17:20 in Jakarta.
	got := Compute(at("2025-03-03", "02:20"), at("2025-03-03", "10:20"), 0, dayShift(), day, jkt)
	assert.True(t, got.IsLate)
	assert.Equal(t, 5, got.LateMinutes)
	assert.False(t, got.IsEarlyDeparture)
	assert.Equal(t, 8.0, got.HoursWorked)
}

func TestCompute_DaylightSavingDays(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	springDay := time.Date(2026, 3, 8, 0, 0, 0, 0, ny)
	spring := Compute(time.Date(2026, 3, 8, 9, 20, 0, 0, ny), time.Date(2026, 3, 8, 17, 20, 0, 0, ny), 0, dayShift(), springDay, ny)
	assert.True(t, spring.IsLate)
	assert.Equal(t, 5, spring.LateMinutes)
	assert.False(t, spring.IsEarlyDeparture)
	assert.Equal(t, 8.0, spring.HoursWorked)

	fallDay := time.Date(2026, 11, 1, 0, 0, 0, 0, ny)
	fall := Compute(time.Date(2026, 11, 1, 9, 5, 0, 0, ny), time.Date(2026, 11, 1, 17, 0, 0, 0, ny), 0, dayShift(), fallDay, ny)
	assert.False(t, fall.IsLate)
	assert.Zero(t, fall.LateMinutes)
	assert.False(t, fall.IsEarlyDeparture)
	assert.Equal(t, attendance.StatusPresent, fall.Status)
}

func TestCompute_HalfDayUsesExactDuration(t *testing.T) {
	day := at("2025-03-03", "00:00")
	out := at("2025-03-03", "12:59").Add(50 * time.Second)

	got := Compute(at("2025-03-03", "09:00"), out, 0, dayShift(), day, time.UTC)
	assert.Equal(t, 4.0, got.HoursWorked)
	assert.Equal(t, attendance.StatusHalfDay, got.Status)
}

func TestCompute_FallbackShift(t *testing.T) {
	day := at("2025-03-03", "00:00")

	got := Compute(at("2025-03-03", "09:45"), at("2025-03-03", "18:00"), 0, shift.FallbackShift(), day, time.UTC)
	assert.True(t, got.IsLate)
	assert.Equal(t, 15, got.LateMinutes)
	assert.Equal(t, 8.25, got.HoursWorked)
	assert.Equal(t, 0.25, got.OvertimeHours)
	assert.Equal(t, attendance.StatusLate, got.Status)

	onTime := Compute(at("2025-03-03", "09:30"), at("2025-03-03", "18:00"), 30, shift.FallbackShift(), day, time.UTC)
	assert.False(t, onTime.IsLate)
	assert.Equal(t, attendance.StatusPresent, onTime.Status)
}
