package dates

import (
	"errors"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrInvalidTime = errors.New("invalid time format")
)

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func ParseClock(timeStr string) error {
	if _, err := time.Parse("15:04", timeStr); err != nil {
		return ErrInvalidTime
	}
	return nil
}

func IsDatePast(dateStr string, loc *time.Location, now time.Time) (bool, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	startToday := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	return date.Before(startToday), nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// FormatFriendly renders a stored date for display and email payloads:
// "Today" and "Tomorrow" for the obvious cases, otherwise a long weekday
// with short month and day, e.g. "Friday, Mar 15". Storage is never touched
// by this, it is cosmetic only.
func FormatFriendly(dateStr string, loc *time.Location, now time.Time) (string, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return "", err
	}

	today := now.In(loc)
	if sameDay(date, today) {
		return "Today", nil
	}
	if sameDay(date, today.AddDate(0, 0, 1)) {
		return "Tomorrow", nil
	}
	return date.Format("Monday, Jan 2"), nil
}
