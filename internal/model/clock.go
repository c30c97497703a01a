package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock is returned for text that is not a valid HH:MM time of day.
var ErrInvalidClock = errors.New("invalid time of day")

const minutesPerDay = 24 * 60

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "HH:MM", "H:MM" and the same with a dot separator.
func ParseClock(raw string) (Clock, error) {
	raw = strings.TrimSpace(raw)
	sep := strings.IndexAny(raw, ":.")
	if sep <= 0 || sep > 2 || len(raw)-sep-1 != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	if !digitsOnly(raw[:sep]) || !digitsOnly(raw[sep+1:]) {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hour, err := strconv.Atoi(raw[:sep])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minute, err := strconv.Atoi(raw[sep+1:])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	c := Clock{Hour: hour, Minute: minute}
	if !c.Valid() {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return c, nil
}

// Valid reports whether the hour and minute are in range.
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// AddMinutes shifts the clock and reports how many days the result moved
// (negative when it crossed midnight backwards).
func (c Clock) AddMinutes(delta int) (Clock, int) {
	total := c.Minutes() + delta
	days := 0
	for total < 0 {
		total += minutesPerDay
		days--
	}
	for total >= minutesPerDay {
		total -= minutesPerDay
		days++
	}
	return Clock{Hour: total / 60, Minute: total % 60}, days
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// GormDataType stores the clock as "HH:MM" text.
func (Clock) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer.
func (c Clock) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d:%d", ErrInvalidClock, c.Hour, c.Minute)
	}
	return c.String(), nil
}

// Scan implements sql.Scanner.
func (c *Clock) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan clock: unsupported type %T", src)
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return fmt.Errorf("scan clock: %w", err)
	}
	*c = parsed
	return nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
