/*
dto.go - Request and response shapes for the HTTP API

PURPOSE:
  Decouples the wire contract from the domain types. Dates cross the wire
  as strings and are canonicalized at the boundary; amounts cross as
  decimal strings so no float precision is lost in transit.

NAMING CONVENTION:
  - *Request: request bodies from clients
  - *Response: response wrappers
  Domain types with stable JSON shapes (shift.Type, roster.Member,
  schedule.Plan cells) are returned directly.

SEE ALSO:
  - handlers.go: validation and error mapping
*/
package api

import (
	"time"

	"github.com/Alfians29/app-daman-sub000/period"
	"github.com/Alfians29/app-daman-sub000/schedule"
)

// =============================================================================
// SCHEDULE
// =============================================================================

// ReconcileRequest is a bulk schedule edit: the proposed batch plus knobs.
type ReconcileRequest struct {
	Entries []schedule.ProposedEntry `json:"entries"`

	// DryRun computes the merge plan without applying it.
	DryRun bool `json:"dry_run,omitempty"`

	// SkipUnchanged drops updates whose value already matches.
	SkipUnchanged bool `json:"skip_unchanged,omitempty"`
}

// ReconcileResponse reports what was (or would be) written, including
// per-row failures for import error reporting.
type ReconcileResponse struct {
	Applied        bool                `json:"applied"`
	CreatedCount   int                 `json:"created_count"`
	UpdatedCount   int                 `json:"updated_count"`
	UnchangedCount int                 `json:"unchanged_count"`
	Failed         []schedule.RowError `json:"failed,omitempty"`
}

// ScheduleCellResponse is one schedule entry joined with its catalog entry
// for display.
type ScheduleCellResponse struct {
	MemberID  string `json:"member_id"`
	Date      string `json:"date"`
	ShiftCode string `json:"shift_code"`
	ShiftName string `json:"shift_name"`
	Color     string `json:"color,omitempty"`
	IsDayOff  bool   `json:"is_day_off"`
}

// AttendanceRequest records one check-in.
type AttendanceRequest struct {
	MemberID    string `json:"member_id"`
	Date        string `json:"date"`
	ShiftCode   string `json:"shift_code"`
	Punctuality string `json:"punctuality,omitempty"`
}

// =============================================================================
// PERIODS AND PROGRESS
// =============================================================================

// WindowResponse is a computed period window.
type WindowResponse struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Mode  period.Mode `json:"mode"`
	Start string      `json:"start"`
	End   string      `json:"end"`
	Days  int         `json:"days"`
}

// ProgressResponse scores one member's period completion.
type ProgressResponse struct {
	MemberID     string         `json:"member_id"`
	Source       string         `json:"source"` // "schedule" or "attendance"
	Window       WindowResponse `json:"window"`
	WorkingCount int            `json:"working_count"`
	Target       int            `json:"target"`
	Percent      float64        `json:"percent"`
}

// =============================================================================
// CASH AND CONTRIBUTIONS
// =============================================================================

// CashEntryRequest is one ledger line. Amount is a decimal string.
type CashEntryRequest struct {
	Date        string `json:"date"`
	MemberID    string `json:"member_id,omitempty"`
	Amount      string `json:"amount"`
	Direction   string `json:"direction"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsResponse is the current runtime configuration.
type SettingsResponse struct {
	MonthlyFee      string   `json:"monthly_fee"`
	DuesCategory    string   `json:"dues_category"`
	MonthVocabulary []string `json:"month_vocabulary"`
}

// UpdateSettingsRequest updates any subset of the runtime configuration.
type UpdateSettingsRequest struct {
	MonthlyFee      *string  `json:"monthly_fee,omitempty"`
	DuesCategory    *string  `json:"dues_category,omitempty"`
	MonthVocabulary []string `json:"month_vocabulary,omitempty"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
