package shift

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	clockLayout   = "15:04"
	minutesPerDay = 24 * 60
)

// ClockTime is a wall-clock time of day in minutes after midnight. Values of
// 1440 and above denote times on the following day.
type ClockTime int

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime reads "HH:MM" in 24-hour form.
func ParseClockTime(value string) (ClockTime, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, ErrInvalidClockTime.WithDetail("value", value)
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}

// ClockTimeSince is the wall-clock time of t in loc, offset by 24h for each
// calendar day t falls after day. A departure after midnight keeps its place
// after the shift end, and a 23h or 25h DST day does not move the reading.
func ClockTimeSince(day, t time.Time, loc *time.Location) ClockTime {
	d, lt := day.In(loc), t.In(loc)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
	days := int(to.Sub(from).Hours() / 24)
	return NewClockTime(lt.Hour(), lt.Minute()) + ClockTime(days*minutesPerDay)
}

func (c ClockTime) Minutes() int { return int(c) }

func (c ClockTime) String() string {
	m := int(c) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidClockTime
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
