package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidWeekday is returned when a weekday is outside [0,6] or not a number.
var ErrInvalidWeekday = errors.New("invalid weekday")

// Monday is 0, Sunday is 6.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek is the size of the weekday ring.
const DaysInWeek = 7

// Weekdays is a set of weekday indexes kept sorted and free of duplicates.
// It is persisted as a comma-separated digit string, e.g. "0,2,6".
type Weekdays []int

// ParseWeekdays decodes the persisted form. Order and duplicates in raw do not matter.
func ParseWeekdays(raw string) (Weekdays, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Weekdays{}, nil
	}
	var days Weekdays
	for _, part := range strings.Split(raw, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, part)
		}
		if !ValidWeekday(day) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, day)
		}
		days = append(days, day)
	}
	return days.normalize(), nil
}

// ValidWeekday reports whether day is within [0,6].
func ValidWeekday(day int) bool {
	return day >= Monday && day <= Sunday
}

// WeekdayFromTime maps time.Weekday (Sunday=0) onto the Monday=0 scale.
func WeekdayFromTime(wd time.Weekday) int {
	return (int(wd) + 6) % DaysInWeek
}

func (w Weekdays) normalize() Weekdays {
	seen := make(map[int]struct{}, len(w))
	out := make(Weekdays, 0, len(w))
	for _, d := range w {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Contains reports whether day is in the set.
func (w Weekdays) Contains(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// Toggle returns a copy of the set with day added if absent or removed if present.
func (w Weekdays) Toggle(day int) Weekdays {
	out := make(Weekdays, 0, len(w)+1)
	found := false
	for _, d := range w {
		if d == day {
			found = true
			continue
		}
		out = append(out, d)
	}
	if !found {
		out = append(out, day)
	}
	return out.normalize()
}

// String encodes the set in its persisted form.
func (w Weekdays) String() string {
	parts := make([]string, 0, len(w))
	for _, d := range w.normalize() {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

// GormDataType stores the set as text.
func (Weekdays) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer.
func (w Weekdays) Value() (driver.Value, error) {
	return w.String(), nil
}

// Scan implements sql.Scanner.
func (w *Weekdays) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*w = Weekdays{}
		return nil
	default:
		return fmt.Errorf("scan weekdays: unsupported type %T", src)
	}
	days, err := ParseWeekdays(raw)
	if err != nil {
		return fmt.Errorf("scan weekdays: %w", err)
	}
	*w = days
	return nil
}
