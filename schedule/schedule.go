/*
Package schedule implements schedule entries and batch reconciliation.

PURPOSE:
  A schedule entry is one planned assignment: this member works this shift
  on this calendar date. The hard invariant is identity: at most one entry
  per (member, date), with the date always a canonical calendar date.

  Entries are edited one cell at a time or in bulk (a month grid edit or an
  import of hundreds of rows). Reconcile merges such a proposed batch
  against the persisted entries and emits a merge plan: which rows to
  create, which to update, and which input rows were rejected. The plan is
  guaranteed to never contain two operations for the same (member, date)
  key, even when the proposed batch itself contains duplicates. Applying
  the plan atomically is the storage layer's job (see store/sqlite).

PER-ROW ISOLATION:
  A single malformed date in a 500-row import must not discard the other
  499 rows. Bad rows are reported in Plan.Failed with their input position
  and cause; good rows are processed normally.

SEE ALSO:
  - calendar: date canonicalization and (member, date) keys
  - store/sqlite: ApplySchedulePlan, the atomic write side of the contract
*/
package schedule

import (
	"fmt"

	"github.com/Alfians29/app-daman-sub000/calendar"
)

// =============================================================================
// ENTRIES
// =============================================================================

// Entry is a persisted (or to-be-persisted) schedule assignment. The Date is
// a canonical calendar.Date, so an Entry can only exist with a valid date.
type Entry struct {
	MemberID  string        `json:"member_id"`
	Date      calendar.Date `json:"date"`
	ShiftCode string        `json:"shift_code"`
}

// Key returns the (member, date) identity key for the entry.
func (e Entry) Key() string { return calendar.Key(e.MemberID, e.Date) }

// EntryDate and EntryShift satisfy period counting (period.ShiftedEntry).
func (e Entry) EntryDate() calendar.Date { return e.Date }
func (e Entry) EntryShift() string       { return e.ShiftCode }

// ProposedEntry is one raw row of a bulk edit or import. The date is still
// a loose string at this point; Reconcile canonicalizes it and rejects the
// row (not the batch) when it is malformed.
type ProposedEntry struct {
	MemberID  string `json:"member_id"`
	Date      string `json:"date"`
	ShiftCode string `json:"shift_code"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// PunctualityStatus classifies an attendance check-in.
type PunctualityStatus string

const (
	PunctualityOnTime PunctualityStatus = "on_time"
	PunctualityLate   PunctualityStatus = "late"
)

// AttendanceRecord is an actual check-in, structurally parallel to Entry.
// It is an alternate data source for period-progress counting; no
// reconciliation applies to attendance.
type AttendanceRecord struct {
	MemberID    string            `json:"member_id"`
	Date        calendar.Date     `json:"date"`
	ShiftCode   string            `json:"shift_code"`
	Punctuality PunctualityStatus `json:"punctuality"`
}

func (a AttendanceRecord) EntryDate() calendar.Date { return a.Date }
func (a AttendanceRecord) EntryShift() string       { return a.ShiftCode }

// =============================================================================
// MERGE PLAN
// =============================================================================

// Plan is the output of Reconcile: the write set the storage layer must
// apply as a single atomic operation.
type Plan struct {
	ToCreate []Entry `json:"to_create"`
	ToUpdate []Entry `json:"to_update"`

	// Failed lists proposed rows that were rejected, by input position.
	// Failures never abort the rest of the batch.
	Failed []RowError `json:"failed,omitempty"`

	CreatedCount int `json:"created_count"`
	UpdatedCount int `json:"updated_count"`

	// UnchangedCount is only populated by a Reconciler with SkipUnchanged
	// set; it counts proposals whose value already matched and were skipped.
	UnchangedCount int `json:"unchanged_count"`
}

// IsEmpty reports whether the plan carries no write operations.
func (p Plan) IsEmpty() bool { return len(p.ToCreate) == 0 && len(p.ToUpdate) == 0 }

// RowError reports one rejected proposed row.
type RowError struct {
	Index    int    `json:"index"` // position in the proposed batch
	MemberID string `json:"member_id"`
	Date     string `json:"date"` // raw input, as submitted
	Err      error  `json:"-"`
	Reason   string `json:"reason"`
}

func (r RowError) Error() string {
	return fmt.Sprintf("row %d (%s, %q): %v", r.Index, r.MemberID, r.Date, r.Err)
}

func (r RowError) Unwrap() error { return r.Err }
