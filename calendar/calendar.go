/*
Package calendar provides timezone-safe calendar date handling.

PURPOSE:
  Every schedule, attendance, and cash record in the system carries a
  calendar date: a date with no time-of-day and no timezone. Records arrive
  from several sources (ISO strings with a time component, bare YYYY-MM-DD
  strings, native time.Time values), and naive conversion between them is
  the single biggest source of bugs in this domain: constructing a time
  value from a date-only string and reading the day back through a local
  timezone can yield the previous day.

  This package defines Date, a value type that can only be built through
  the canonicalization functions in this file. Once a Date exists it is
  safe to compare, store, and render without any timezone math.

CANONICALIZATION RULES:
  - "2025-12-18"                      -> 2025-12-18 (the string IS the date)
  - "2025-12-18T23:59:59+07:00"       -> 2025-12-18 (date component as written)
  - time.Time                         -> the Y/M/D the value itself carries

KEY CONSTRUCTION:
  Schedule entries are keyed by (memberID, date). Key/SplitKey build and
  decompose that composite key. Member IDs may themselves contain hyphens,
  so SplitKey anchors on the fixed-width date suffix instead of splitting
  from the left.

SEE ALSO:
  - schedule: keys entries with Key/SplitKey
  - period: builds inclusive date windows from Dates
*/
package calendar

import (
	"strings"
	"time"
)

// =============================================================================
// DATE - Canonical calendar date (no time-of-day, no timezone)
// =============================================================================

// Date is a calendar date. The zero value is "no date" (IsZero reports true).
// Fields are unexported: a Date is only built via NewDate, Parse, or FromTime,
// which guarantees every Date in the system went through canonicalization.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a Date from components. Out-of-range components are
// normalized the way time.Date normalizes them (Jan 32 -> Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Parse canonicalizes a date string. Accepted forms:
//   - "YYYY-MM-DD"
//   - "YYYY-MM-DD" followed by 'T' or ' ' and any time/offset suffix
//
// The calendar date is always the leading 10 characters as written; the
// time component, if present, is deliberately ignored rather than converted.
// Anything else returns a MalformedDateError.
func Parse(s string) (Date, error) {
	raw := strings.TrimSpace(s)
	if len(raw) < 10 {
		return Date{}, &MalformedDateError{Input: s}
	}
	if len(raw) > 10 && raw[10] != 'T' && raw[10] != ' ' {
		return Date{}, &MalformedDateError{Input: s}
	}
	t, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return Date{}, &MalformedDateError{Input: s}
	}
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// MustParse is Parse that panics on error. Use in tests and seed data only.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime extracts the calendar date a time.Time carries in its own
// location. No conversion to UTC or local time is performed: the date the
// author of the value saw is the date we keep.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// =============================================================================
// PROPERTIES AND COMPARISON
// =============================================================================

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }
func (d Date) IsZero() bool      { return d.year == 0 && d.month == 0 && d.day == 0 }

// Weekday returns the day of week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

func (d Date) Equal(other Date) bool  { return d == other }
func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }
func (d Date) After(other Date) bool  { return d.time().After(other.time()) }

func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

func (d Date) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// ARITHMETIC
// =============================================================================

func (d Date) AddDays(n int) Date   { return FromTime(d.time().AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return FromTime(d.time().AddDate(0, n, 0)) }

// StartOfMonth returns the first day of the given month.
func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

// EndOfMonth returns the last day of the given month.
func EndOfMonth(year int, month time.Month) Date {
	return FromTime(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

// =============================================================================
// RENDERING
// =============================================================================

// String renders the canonical YYYY-MM-DD form.
func (d Date) String() string { return d.time().Format("2006-01-02") }

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts any form Parse accepts, so loose upstream payloads
// (full timestamps) canonicalize on the way in.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// COMPOSITE KEYS - (memberID, date) identity for schedule entries
// =============================================================================

// Key builds the composite key identifying one member's assignment on one
// calendar date.
func Key(memberID string, d Date) string {
	return memberID + "-" + d.String()
}

// SplitKey recovers the member ID and date from a composite key. The date
// suffix is fixed-format YYYY-MM-DD, so the split is anchored from the
// right; member IDs containing hyphens round-trip correctly.
func SplitKey(key string) (memberID string, d Date, err error) {
	// memberID + "-" + 10-char date: shortest valid key is 12 chars.
	if len(key) < 12 || key[len(key)-11] != '-' {
		return "", Date{}, &MalformedDateError{Input: key}
	}
	d, err = Parse(key[len(key)-10:])
	if err != nil {
		return "", Date{}, err
	}
	return key[:len(key)-11], d, nil
}
