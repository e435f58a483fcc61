package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Timekeeping columns come from a spreadsheet-era ledger, so a "time" cell may
// be anything from a canonical "09:05:00" to a hand-typed "9:05" or "9:05 pm".
// Everything funnels through Parse so the validator and the history reader
// agree on what a row means.

const (
	// DateLayout is the canonical business-local calendar date form.
	DateLayout = "2006-01-02"
)

var clockRe = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(?i:(AM|PM))?\s*$`)

// Clock is a time of day at second resolution, timezone-free.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// Parse extracts a Clock from a raw ledger time cell. Accepted forms are
// "H:MM", "HH:MM", "HH:MM:SS", each with an optional AM/PM suffix.
func Parse(raw string) (Clock, error) {
	m := clockRe.FindStringSubmatch(raw)
	if m == nil {
		return Clock{}, fmt.Errorf("unable to parse clock time: %q", raw)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	switch strings.ToUpper(m[4]) {
	case "PM":
		if hour < 1 || hour > 12 {
			return Clock{}, fmt.Errorf("invalid 12-hour value in %q", raw)
		}
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return Clock{}, fmt.Errorf("invalid 12-hour value in %q", raw)
		}
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 || second > 59 {
		return Clock{}, fmt.Errorf("clock time out of range: %q", raw)
	}

	return Clock{Hour: hour, Minute: minute, Second: second}, nil
}

// FromTime projects a wall-clock instant onto a Clock.
func FromTime(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Canonical renders the zero-padded fixed-width "HH:MM:SS" form. The fixed
// width makes lexicographic order equal chronological order.
func (c Clock) Canonical() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// MinutesOfDay returns whole minutes since midnight, seconds truncated.
func (c Clock) MinutesOfDay() int {
	return c.Hour*60 + c.Minute
}

// Canonicalize parses a raw time cell and re-renders it canonically.
func Canonicalize(raw string) (string, error) {
	c, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return c.Canonical(), nil
}

// DateString renders the canonical calendar date of t.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a canonical calendar date cell.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(raw))
}

// Hour12 renders an hour-of-day boundary in human 12-hour form, e.g. 7 ->
// "7:00 AM", 19 -> "7:00 PM". Used for the work-hours rejection message.
func Hour12(hour int) string {
	suffix := "AM"
	h := hour % 24
	if h >= 12 {
		suffix = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}
