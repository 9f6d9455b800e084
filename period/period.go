/*
Package period computes working-period date windows and scores schedule or
attendance completion against them.

PURPOSE:
  Progress views ("how much of this period is filled in?") need a date
  window for the cycle being displayed. Two cycle shapes exist:

    calendar  the displayed month, first through last day
    split16   a payroll-style cycle: the 16th of the month before the
              displayed month through the 15th of the displayed month

  The window is ALWAYS derived from the reference month the caller is
  displaying, never from the wall clock. A caller navigating to a past
  month gets that month's window; ambient time is sampled once by the
  caller (if at all) and passed in as the reference month.

COUNTING:
  CountWorkingEntries counts entries inside the window whose shift is not a
  day-off per the shift catalog. Unknown shift codes count as working: a
  missing catalog row must not zero out someone's attendance.

SEE ALSO:
  - calendar: Date and month boundary helpers
  - shift: the IsDayOff capability consulted per entry
*/
package period

import (
	"fmt"
	"time"

	"github.com/Alfians29/app-daman-sub000/calendar"
	"github.com/Alfians29/app-daman-sub000/shift"
)

// =============================================================================
// MODES AND REFERENCE MONTHS
// =============================================================================

// Mode selects the window shape.
type Mode string

const (
	ModeCalendar Mode = "calendar"
	ModeSplit16  Mode = "split16"
)

// ParseMode validates a mode string from an outer layer.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCalendar, ModeSplit16:
		return Mode(s), nil
	case "":
		return ModeCalendar, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Month is the reference month a window is computed for.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// =============================================================================
// WINDOWS
// =============================================================================

// Window is an inclusive date range, Start <= End always.
type Window struct {
	Start calendar.Date `json:"start"`
	End   calendar.Date `json:"end"`
}

// Contains reports whether d falls within [Start, End].
func (w Window) Contains(d calendar.Date) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

// Days returns the number of calendar days the window spans.
func (w Window) Days() int {
	n := 0
	for d := w.Start; d.BeforeOrEqual(w.End); d = d.AddDays(1) {
		n++
	}
	return n
}

func (w Window) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// ComputeWindow returns the inclusive window for the reference month.
//
//	calendar: first through last day of the reference month
//	split16:  16th of the preceding month through the 15th of the
//	          reference month
func ComputeWindow(ref Month, mode Mode) (Window, error) {
	switch mode {
	case ModeCalendar:
		return Window{
			Start: calendar.StartOfMonth(ref.Year, ref.Month),
			End:   calendar.EndOfMonth(ref.Year, ref.Month),
		}, nil

	case ModeSplit16:
		end := calendar.NewDate(ref.Year, ref.Month, 15)
		start := calendar.NewDate(ref.Year, ref.Month, 16).AddMonths(-1)
		return Window{Start: start, End: end}, nil

	default:
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// =============================================================================
// PROGRESS SCORING
// =============================================================================

// ShiftedEntry is any record carrying a calendar date and a shift code.
// Both schedule entries and attendance records satisfy it.
type ShiftedEntry interface {
	EntryDate() calendar.Date
	EntryShift() string
}

// CountWorkingEntries counts entries whose date falls inside the window and
// whose shift is not a day-off. Unknown shift codes count as working
// (catalog.IsDayOff fails open).
func CountWorkingEntries[E ShiftedEntry](entries []E, w Window, catalog *shift.Catalog) int {
	count := 0
	for _, e := range entries {
		if !w.Contains(e.EntryDate()) {
			continue
		}
		if catalog.IsDayOff(e.EntryShift()) {
			continue
		}
		count++
	}
	return count
}

// ProgressPercent scores a working-entry count against a target, clamped to
// [0, 100]. A non-positive target scores zero: there is nothing meaningful
// to measure against.
func ProgressPercent(workingCount, target int) float64 {
	if target <= 0 || workingCount <= 0 {
		return 0
	}
	if workingCount >= target {
		return 100
	}
	return 100 * float64(workingCount) / float64(target)
}
