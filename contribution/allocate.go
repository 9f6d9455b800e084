package contribution

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alfians29/app-daman-sub000/roster"
)

// =============================================================================
// ALLOCATION RESULT
// =============================================================================

// Cell is one member's dues state for one calendar month. Cells are built
// fresh on every call; callers never mutate them in place.
type Cell struct {
	MemberID string          `json:"member_id"`
	Month    time.Month      `json:"month"`
	Paid     bool            `json:"paid"`
	Amount   decimal.Decimal `json:"attributed_amount"`
}

// MonthSummary aggregates one month across all members.
type MonthSummary struct {
	Month           time.Month      `json:"month"`
	PaidCount       int             `json:"paid_count"`
	TotalAttributed decimal.Decimal `json:"total_attributed"`
	Percent         int             `json:"percent"` // round(100 * paid / members)
}

// Report is the full member x month matrix for a year.
type Report struct {
	Year         int             `json:"year"`
	MonthlyFee   decimal.Decimal `json:"monthly_fee"`
	TotalMembers int             `json:"total_members"`
	Cells        []Cell          `json:"cells"`  // member-major, January first
	Months       []MonthSummary  `json:"months"` // always 12, January first
}

// Cell returns the cell for a member and month, if the member is in the
// report.
func (r *Report) Cell(memberID string, month time.Month) (Cell, bool) {
	for _, c := range r.Cells {
		if c.MemberID == memberID && c.Month == month {
			return c, true
		}
	}
	return Cell{}, false
}

// Options tune the allocator's documented edge behaviors.
type Options struct {
	// DuesCategory overrides the reserved category identifying dues
	// entries. Empty means DefaultDuesCategory.
	DuesCategory string

	// AttributeUndated controls what happens to a dues entry whose
	// description names no recognized month. Off (the default), such an
	// entry attributes to no month at all. On, it attributes to the month
	// of the entry's own date.
	AttributeUndated bool
}

func (o Options) duesCategory() string {
	if o.DuesCategory != "" {
		return o.DuesCategory
	}
	return DefaultDuesCategory
}

// =============================================================================
// ALLOCATOR
// =============================================================================

// Allocate builds the dues matrix for a year.
//
// Entries are narrowed to income entries in the dues category dated within
// the year. For each such entry the description is scanned for covered
// months; the entry's amount is split evenly across them and accumulated per
// (member, month). A month is paid for a member when some entry explicitly
// covers it, or when the accumulated attribution reaches the monthly fee -
// the disjunction lets several small explicit payments, or one large vague
// one, still mark a month paid.
//
// Inputs are never mutated; the report is freshly allocated per call.
func Allocate(
	year int,
	monthlyFee decimal.Decimal,
	members []roster.Member,
	entries []CashEntry,
	vocab Vocabulary,
	opts Options,
) *Report {
	type memberMonth struct {
		memberID string
		month    time.Month
	}
	attributed := make(map[memberMonth]decimal.Decimal)
	covered := make(map[memberMonth]bool)

	category := opts.duesCategory()
	for _, e := range entries {
		if e.Category != category || e.Direction != DirectionIncome {
			continue
		}
		if e.MemberID == "" || e.Date.Year() != year {
			continue
		}

		months := vocab.Scan(e.Description)
		if len(months) == 0 {
			if !opts.AttributeUndated {
				// Documented gap: money received, no month named, nothing
				// attributed.
				continue
			}
			months = []time.Month{e.Date.Month()}
		} else {
			for _, m := range months {
				covered[memberMonth{e.MemberID, m}] = true
			}
		}

		share := e.Amount.Div(decimal.NewFromInt(int64(len(months))))
		for _, m := range months {
			k := memberMonth{e.MemberID, m}
			attributed[k] = attributed[k].Add(share)
		}
	}

	report := &Report{
		Year:         year,
		MonthlyFee:   monthlyFee,
		TotalMembers: len(members),
		Cells:        make([]Cell, 0, len(members)*12),
		Months:       make([]MonthSummary, 12),
	}

	for i := range report.Months {
		report.Months[i] = MonthSummary{
			Month:           time.Month(i + 1),
			TotalAttributed: decimal.Zero,
		}
	}

	for _, member := range members {
		for m := time.January; m <= time.December; m++ {
			k := memberMonth{member.ID, m}
			amount := attributed[k]

			// Full-precision comparison; rounding is presentation-only.
			// A non-positive fee disables the accumulation branch rather
			// than marking every month paid.
			paid := covered[k] ||
				(monthlyFee.IsPositive() && amount.GreaterThanOrEqual(monthlyFee))

			report.Cells = append(report.Cells, Cell{
				MemberID: member.ID,
				Month:    m,
				Paid:     paid,
				Amount:   amount,
			})

			summary := &report.Months[m-1]
			summary.TotalAttributed = summary.TotalAttributed.Add(amount)
			if paid {
				summary.PaidCount++
			}
		}
	}

	for i := range report.Months {
		report.Months[i].Percent = percentOf(report.Months[i].PaidCount, len(members))
	}

	return report
}

func percentOf(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(100 * part)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(0).
		IntPart())
}
