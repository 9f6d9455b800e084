/*
Package contribution derives the per-member monthly dues ledger from the
petty-cash book.

PURPOSE:
  Members pay a fixed monthly fee ("kas"), but payments arrive as lump
  cash entries whose coverage is written in free text: "Kas bulan Januari,
  Februari 2025" is one 30000 payment covering two months. The allocator
  infers which calendar months each dues entry covers, splits the amount
  across those months, and produces a paid/unpaid matrix per member per
  month for a year.

COVERAGE INFERENCE:
  The month scan is a substring match against a closed, language-specific
  vocabulary of twelve month names supplied as configuration - NOT a
  general date parser. A description naming no recognized month yields an
  empty covered set; by default such an entry attributes to no month at
  all, even though money was received (the behavior of the system this
  ledger mirrors). Options.AttributeUndated switches that entry to
  attribute to the month of its own date instead.

NUMERIC SEMANTICS:
  Amounts are decimal.Decimal throughout. The per-month share is
  amount / |coveredMonths| at full decimal precision; rounding happens at
  presentation boundaries only, never before comparison against the fee.

SEE ALSO:
  - calendar: entry dates
  - roster: the member list the matrix is built over
*/
package contribution

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Alfians29/app-daman-sub000/calendar"
)

// =============================================================================
// CASH ENTRIES
// =============================================================================

// Direction tells whether a cash entry is money in or money out. Sign is
// carried here, never by a negative amount.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// DefaultDuesCategory is the reserved transaction category identifying
// monthly dues payments.
const DefaultDuesCategory = "kas"

// CashEntry is one line of the petty-cash ledger.
type CashEntry struct {
	ID          string          `json:"id"`
	Date        calendar.Date   `json:"date"`
	MemberID    string          `json:"member_id,omitempty"` // empty for expenses
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// Validate rejects entries that must never reach the allocator: a zero or
// negative amount, or an unknown direction.
func (e CashEntry) Validate() error {
	if !e.Amount.IsPositive() {
		return &InvalidAmountError{ID: e.ID, Amount: e.Amount}
	}
	switch e.Direction {
	case DirectionIncome, DirectionExpense:
	default:
		return fmt.Errorf("cash entry %s: unknown direction %q", e.ID, e.Direction)
	}
	return nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrInvalidAmount is the sentinel for zero or negative cash amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// InvalidAmountError reports a cash entry whose amount is not positive.
// Amounts are validated at the write boundary; the allocator assumes its
// inputs already passed.
type InvalidAmountError struct {
	ID     string
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("cash entry %s: amount must be positive, got %s", e.ID, e.Amount)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }
