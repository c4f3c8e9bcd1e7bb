package models

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a time of day picked in a form.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

var clockLayouts = []string{
	TimeLayout,
	"3:04 PM",
	"03:04PM",
	"3:04PM",
	"03:04 pm",
	"3:04 pm",
	"15:04",
	"15:04:05",
}

// ParseClock reads a stored appointment time in any of the formats the
// backend has been fed with: 12-hour with meridiem or 24-hour.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	// some locales render the meridiem as "p. m."
	s = strings.NewReplacer("a. m.", "AM", "p. m.", "PM", "a.m.", "AM", "p.m.", "PM").Replace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return Clock{}, fmt.Errorf("unrecognized time %q", s)
}

// Valid reports whether the clock is a real time of day.
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// Format renders the clock in the 12-hour submission format, e.g. "03:00 PM".
func (c Clock) Format() string {
	return time.Date(2000, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format(TimeLayout)
}

// On combines the clock with a calendar date.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// FormatDate projects a calendar date to its YYYY-MM-DD key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
