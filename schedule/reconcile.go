package schedule

import "github.com/Alfians29/app-daman-sub000/calendar"

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler merges proposed batches into existing schedule state.
// The zero value reproduces the classic behavior: re-submitting an
// already-applied batch emits updates with identical values. With
// SkipUnchanged set, such proposals are dropped from the plan and counted
// in Plan.UnchangedCount instead, making a re-submit a true no-op.
type Reconciler struct {
	SkipUnchanged bool
}

// Reconcile merges a proposed batch against existing entries using the
// default (non-skipping) reconciler.
func Reconcile(existing []Entry, proposed []ProposedEntry) Plan {
	return Reconciler{}.Reconcile(existing, proposed)
}

// Reconcile walks the proposed batch in order and emits a merge plan.
//
// For each proposed row:
//   - key already persisted        -> update of the existing entry's identity
//   - key unseen                   -> create, and the key is indexed
//     immediately so a later duplicate inside the same batch overwrites the
//     pending create instead of producing a second row
//   - key already updated in batch -> the pending update is overwritten
//   - malformed date               -> row recorded in Plan.Failed, batch
//     continues
//
// The returned plan never contains two operations for the same
// (member, date) key. Inputs are never mutated.
func (r Reconciler) Reconcile(existing []Entry, proposed []ProposedEntry) Plan {
	var plan Plan

	// Index existing entries and remember their shift so unchanged
	// proposals can be detected.
	existingByKey := make(map[string]Entry, len(existing))
	for _, e := range existing {
		existingByKey[e.Key()] = e
	}

	// Pending operations by key. The int is an index into plan.ToCreate or
	// plan.ToUpdate so within-batch duplicates collapse in place.
	pendingCreate := make(map[string]int)
	pendingUpdate := make(map[string]int)

	for i, p := range proposed {
		date, err := calendar.Parse(p.Date)
		if err != nil {
			plan.Failed = append(plan.Failed, RowError{
				Index:    i,
				MemberID: p.MemberID,
				Date:     p.Date,
				Err:      err,
				Reason:   err.Error(),
			})
			continue
		}

		entry := Entry{MemberID: p.MemberID, Date: date, ShiftCode: p.ShiftCode}
		key := entry.Key()

		if idx, ok := pendingCreate[key]; ok {
			// Duplicate inside the batch against a row this plan creates:
			// the later value wins, still a single create.
			plan.ToCreate[idx].ShiftCode = entry.ShiftCode
			continue
		}
		if idx, ok := pendingUpdate[key]; ok {
			plan.ToUpdate[idx].ShiftCode = entry.ShiftCode
			continue
		}

		if current, ok := existingByKey[key]; ok {
			if r.SkipUnchanged && current.ShiftCode == entry.ShiftCode {
				plan.UnchangedCount++
				continue
			}
			pendingUpdate[key] = len(plan.ToUpdate)
			plan.ToUpdate = append(plan.ToUpdate, entry)
			continue
		}

		pendingCreate[key] = len(plan.ToCreate)
		plan.ToCreate = append(plan.ToCreate, entry)
	}

	plan.CreatedCount = len(plan.ToCreate)
	plan.UpdatedCount = len(plan.ToUpdate)
	return plan
}

// Apply merges a plan into an entry list, returning the merged list. This is
// the in-memory equivalent of what the storage layer does transactionally;
// it exists so callers (and tests) can chain reconciliations.
func Apply(existing []Entry, plan Plan) []Entry {
	updated := make(map[string]string, len(plan.ToUpdate))
	for _, e := range plan.ToUpdate {
		updated[e.Key()] = e.ShiftCode
	}

	out := make([]Entry, 0, len(existing)+len(plan.ToCreate))
	for _, e := range existing {
		if code, ok := updated[e.Key()]; ok {
			e.ShiftCode = code
		}
		out = append(out, e)
	}
	return append(out, plan.ToCreate...)
}
