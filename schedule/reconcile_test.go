package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfians29/app-daman-sub000/calendar"
	"github.com/Alfians29/app-daman-sub000/schedule"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func entry(memberID, date, shift string) schedule.Entry {
	return schedule.Entry{
		MemberID:  memberID,
		Date:      calendar.MustParse(date),
		ShiftCode: shift,
	}
}

func proposed(memberID, date, shift string) schedule.ProposedEntry {
	return schedule.ProposedEntry{MemberID: memberID, Date: date, ShiftCode: shift}
}

// planKeys collects every (member, date) key a plan writes to.
func planKeys(p schedule.Plan) []string {
	var keys []string
	for _, e := range p.ToCreate {
		keys = append(keys, e.Key())
	}
	for _, e := range p.ToUpdate {
		keys = append(keys, e.Key())
	}
	return keys
}

func assertNoDuplicateKeys(t *testing.T, p schedule.Plan) {
	t.Helper()
	seen := make(map[string]bool)
	for _, k := range planKeys(p) {
		assert.False(t, seen[k], "duplicate key %s in plan", k)
		seen[k] = true
	}
}

// =============================================================================
// BASIC MERGE BEHAVIOR
// =============================================================================

func TestReconcile_EmptyProposed(t *testing.T) {
	existing := []schedule.Entry{entry("m1", "2025-03-01", "PAGI")}

	plan := schedule.Reconcile(existing, nil)

	assert.True(t, plan.IsEmpty())
	assert.Zero(t, plan.CreatedCount)
	assert.Zero(t, plan.UpdatedCount)
	assert.Empty(t, plan.Failed)
}

func TestReconcile_AllCreates_NoOverlap(t *testing.T) {
	plan := schedule.Reconcile(nil, []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "PAGI"),
		proposed("m1", "2025-03-02", "SIANG"),
		proposed("m2", "2025-03-01", "MALAM"),
	})

	assert.Equal(t, 3, plan.CreatedCount)
	assert.Zero(t, plan.UpdatedCount)
	assert.Len(t, plan.ToCreate, 3)
	assertNoDuplicateKeys(t, plan)
}

func TestReconcile_CollisionBecomesUpdate(t *testing.T) {
	// GIVEN: m1 already has a PAGI shift on March 1
	// WHEN: the batch proposes MALAM for the same (member, date)
	// THEN: the plan updates the existing row instead of creating a second

	existing := []schedule.Entry{entry("m1", "2025-03-01", "PAGI")}

	plan := schedule.Reconcile(existing, []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "MALAM"),
	})

	assert.Zero(t, plan.CreatedCount)
	assert.Equal(t, 1, plan.UpdatedCount)
	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, "MALAM", plan.ToUpdate[0].ShiftCode)
	assert.Equal(t, entry("m1", "2025-03-01", "MALAM"), plan.ToUpdate[0])
}

func TestReconcile_TimezoneShiftedDatesCollapseToSameKey(t *testing.T) {
	// The same calendar date written with a time suffix must hit the same
	// (member, date) key as the stored date-only form.
	existing := []schedule.Entry{entry("m1", "2025-12-18", "PAGI")}

	plan := schedule.Reconcile(existing, []schedule.ProposedEntry{
		proposed("m1", "2025-12-18T23:59:59+07:00", "SIANG"),
	})

	assert.Zero(t, plan.CreatedCount, "timezone-suffixed date must not create a shifted row")
	assert.Equal(t, 1, plan.UpdatedCount)
}

// =============================================================================
// WITHIN-BATCH DUPLICATES
// =============================================================================

func TestReconcile_DuplicateInBatch_SingleCreateLastValueWins(t *testing.T) {
	plan := schedule.Reconcile(nil, []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "PAGI"),
		proposed("m1", "2025-03-01", "SIANG"),
		proposed("m1", "2025-03-01", "MALAM"),
	})

	assert.Equal(t, 1, plan.CreatedCount, "one create per key, however many duplicates")
	require.Len(t, plan.ToCreate, 1)
	assert.Equal(t, "MALAM", plan.ToCreate[0].ShiftCode, "later duplicate updates the pending create")
	assertNoDuplicateKeys(t, plan)
}

func TestReconcile_DuplicateInBatch_AgainstExisting_SingleUpdate(t *testing.T) {
	existing := []schedule.Entry{entry("m1", "2025-03-01", "PAGI")}

	plan := schedule.Reconcile(existing, []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "SIANG"),
		proposed("m1", "2025-03-01", "MALAM"),
	})

	assert.Equal(t, 1, plan.UpdatedCount)
	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, "MALAM", plan.ToUpdate[0].ShiftCode)
	assertNoDuplicateKeys(t, plan)
}

func TestReconcile_NoDuplicateKeys_MixedBatch(t *testing.T) {
	existing := []schedule.Entry{
		entry("m1", "2025-03-01", "PAGI"),
		entry("m2", "2025-03-01", "OFF"),
	}
	batch := []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "SIANG"),
		proposed("m1", "2025-03-02", "PAGI"),
		proposed("m1", "2025-03-02", "MALAM"),
		proposed("m2", "2025-03-01", "OFF"),
		proposed("m3", "2025-03-01", "PAGI"),
		proposed("m1", "2025-03-01", "PAGI"),
	}

	plan := schedule.Reconcile(existing, batch)

	assertNoDuplicateKeys(t, plan)
	assert.Equal(t, 2, plan.CreatedCount) // m1/03-02, m3/03-01
	assert.Equal(t, 2, plan.UpdatedCount) // m1/03-01, m2/03-01
}

// =============================================================================
// IDEMPOTENT KEYING
// =============================================================================

func TestReconcile_Resubmit_ZeroCreates(t *testing.T) {
	// GIVEN: a batch has been reconciled and its plan applied
	// WHEN: the identical batch is reconciled against the updated state
	// THEN: zero creates; only updates whose values are unchanged

	batch := []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "PAGI"),
		proposed("m1", "2025-03-02", "SIANG"),
		proposed("m2", "2025-03-01", "MALAM"),
	}

	first := schedule.Reconcile(nil, batch)
	state := schedule.Apply(nil, first)

	second := schedule.Reconcile(state, batch)

	assert.Zero(t, second.CreatedCount)
	assert.Equal(t, 3, second.UpdatedCount)
	for _, upd := range second.ToUpdate {
		found := false
		for _, existing := range state {
			if existing == upd {
				found = true
			}
		}
		assert.True(t, found, "resubmitted update %v should carry an unchanged value", upd)
	}
}

func TestReconciler_SkipUnchanged_ResubmitIsNoOp(t *testing.T) {
	batch := []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "PAGI"),
		proposed("m1", "2025-03-02", "SIANG"),
	}
	state := schedule.Apply(nil, schedule.Reconcile(nil, batch))

	r := schedule.Reconciler{SkipUnchanged: true}
	plan := r.Reconcile(state, batch)

	assert.True(t, plan.IsEmpty())
	assert.Equal(t, 2, plan.UnchangedCount)
}

func TestReconciler_SkipUnchanged_StillEmitsRealChanges(t *testing.T) {
	state := []schedule.Entry{
		entry("m1", "2025-03-01", "PAGI"),
		entry("m1", "2025-03-02", "SIANG"),
	}

	r := schedule.Reconciler{SkipUnchanged: true}
	plan := r.Reconcile(state, []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "PAGI"),  // unchanged
		proposed("m1", "2025-03-02", "MALAM"), // changed
		proposed("m1", "2025-03-03", "PAGI"),  // new
	})

	assert.Equal(t, 1, plan.UnchangedCount)
	assert.Equal(t, 1, plan.UpdatedCount)
	assert.Equal(t, 1, plan.CreatedCount)
}

// =============================================================================
// PER-ROW ISOLATION
// =============================================================================

func TestReconcile_MalformedRow_DoesNotAbortBatch(t *testing.T) {
	plan := schedule.Reconcile(nil, []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "PAGI"),
		proposed("m2", "not-a-date", "SIANG"),
		proposed("m3", "2025-03-01", "MALAM"),
	})

	assert.Equal(t, 2, plan.CreatedCount, "good rows survive a bad neighbor")
	require.Len(t, plan.Failed, 1)

	failure := plan.Failed[0]
	assert.Equal(t, 1, failure.Index)
	assert.Equal(t, "m2", failure.MemberID)
	assert.Equal(t, "not-a-date", failure.Date)
	assert.ErrorIs(t, failure.Err, calendar.ErrMalformedDate)
	assert.NotEmpty(t, failure.Reason)
}

func TestReconcile_AllRowsMalformed(t *testing.T) {
	plan := schedule.Reconcile(nil, []schedule.ProposedEntry{
		proposed("m1", "", "PAGI"),
		proposed("m2", "03/01/2025", "SIANG"),
	})

	assert.True(t, plan.IsEmpty())
	assert.Len(t, plan.Failed, 2)
}

// =============================================================================
// APPLY
// =============================================================================

func TestApply_MergesCreatesAndUpdates(t *testing.T) {
	state := []schedule.Entry{
		entry("m1", "2025-03-01", "PAGI"),
		entry("m2", "2025-03-01", "OFF"),
	}
	plan := schedule.Reconcile(state, []schedule.ProposedEntry{
		proposed("m1", "2025-03-01", "MALAM"),
		proposed("m1", "2025-03-02", "PAGI"),
	})

	merged := schedule.Apply(state, plan)

	require.Len(t, merged, 3)
	assert.Contains(t, merged, entry("m1", "2025-03-01", "MALAM"))
	assert.Contains(t, merged, entry("m2", "2025-03-01", "OFF"))
	assert.Contains(t, merged, entry("m1", "2025-03-02", "PAGI"))

	// Inputs are not mutated.
	assert.Equal(t, "PAGI", state[0].ShiftCode)
}

func TestEntry_KeySurvivesHyphenatedMemberIDs(t *testing.T) {
	e := schedule.Entry{
		MemberID:  "team-a-007",
		Date:      calendar.NewDate(2025, time.March, 10),
		ShiftCode: "PAGI",
	}

	member, date, err := calendar.SplitKey(e.Key())
	require.NoError(t, err)
	assert.Equal(t, "team-a-007", member)
	assert.Equal(t, e.Date, date)
}
