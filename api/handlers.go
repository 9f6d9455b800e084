/*
handlers.go - HTTP handlers wiring the store to the core computations

PURPOSE:
  Each handler follows the same shape: read collections from the store,
  run the pure core computation (reconcile, window, count, allocate),
  write the result. The core never sees HTTP or SQL.

ERROR HANDLING:
  Errors map to status codes by class:
    400  malformed dates, invalid amounts, unknown period modes, bad JSON
    404  missing records
    500  everything else
  Bulk schedule edits are the exception: per-row failures ride inside a
  200 response so a single bad row reports itself without discarding the
  rest of the import.

SEE ALSO:
  - dto.go: wire shapes
  - server.go: routing and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alfians29/app-daman-sub000/calendar"
	"github.com/Alfians29/app-daman-sub000/contribution"
	"github.com/Alfians29/app-daman-sub000/period"
	"github.com/Alfians29/app-daman-sub000/roster"
	"github.com/Alfians29/app-daman-sub000/schedule"
	"github.com/Alfians29/app-daman-sub000/shift"
	"github.com/Alfians29/app-daman-sub000/store/sqlite"
)

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	Store *sqlite.Store
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// MEMBERS
// =============================================================================

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members", err)
		return
	}
	if members == nil {
		members = []roster.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var m roster.Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid member payload", err)
		return
	}
	if m.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "display_name is required", nil)
		return
	}
	saved, err := h.Store.SaveMember(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save member", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// =============================================================================
// SHIFT CATALOG
// =============================================================================

func (h *Handler) ListShiftTypes(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Store.Catalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shift catalog", err)
		return
	}
	types := catalog.Types()
	if types == nil {
		types = []shift.Type{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *Handler) CreateShiftType(w http.ResponseWriter, r *http.Request) {
	var t shift.Type
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid shift type payload", err)
		return
	}
	if t.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required", nil)
		return
	}
	if err := h.Store.SaveShiftType(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save shift type", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// =============================================================================
// SCHEDULE
// =============================================================================

// GetSchedule returns the schedule grid for a calendar month, joined with
// catalog display data. Unknown shift codes resolve to a display fallback
// instead of failing the whole month.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ref, err := refMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year/month", err)
		return
	}

	window, err := period.ComputeWindow(ref, period.ModeCalendar)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err)
		return
	}

	entries, err := h.Store.ScheduleInRange(r.Context(), window.Start, window.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load schedule", err)
		return
	}
	catalog, err := h.Store.Catalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shift catalog", err)
		return
	}

	cells := make([]ScheduleCellResponse, 0, len(entries))
	for _, e := range entries {
		st := catalog.Resolve(e.ShiftCode)
		cells = append(cells, ScheduleCellResponse{
			MemberID:  e.MemberID,
			Date:      e.Date.String(),
			ShiftCode: e.ShiftCode,
			ShiftName: st.DisplayName,
			Color:     st.Color,
			IsDayOff:  st.IsDayOff,
		})
	}
	writeJSON(w, http.StatusOK, cells)
}

// ReconcileSchedule merges a bulk edit into the persisted schedule. The
// merge plan is computed by the pure reconciler and applied as one atomic
// write set; per-row failures are reported, not fatal.
func (h *Handler) ReconcileSchedule(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid reconcile payload", err)
		return
	}

	// Load only the date range the batch touches.
	var existing []schedule.Entry
	if from, to, ok := batchRange(req.Entries); ok {
		var err error
		existing, err = h.Store.ScheduleInRange(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load schedule", err)
			return
		}
	}

	reconciler := schedule.Reconciler{SkipUnchanged: req.SkipUnchanged}
	plan := reconciler.Reconcile(existing, req.Entries)

	applied := false
	if !req.DryRun && !plan.IsEmpty() {
		if err := h.Store.ApplySchedulePlan(r.Context(), plan); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to apply schedule plan", err)
			return
		}
		applied = true
	}

	writeJSON(w, http.StatusOK, ReconcileResponse{
		Applied:        applied,
		CreatedCount:   plan.CreatedCount,
		UpdatedCount:   plan.UpdatedCount,
		UnchangedCount: plan.UnchangedCount,
		Failed:         plan.Failed,
	})
}

// batchRange finds the date span of the parseable rows in a batch.
func batchRange(entries []schedule.ProposedEntry) (from, to calendar.Date, ok bool) {
	for _, p := range entries {
		d, err := calendar.Parse(p.Date)
		if err != nil {
			continue // the reconciler reports the row
		}
		if !ok {
			from, to, ok = d, d, true
			continue
		}
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}
	return from, to, ok
}

func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid attendance payload", err)
		return
	}
	date, err := calendar.Parse(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attendance date", err)
		return
	}
	punctuality := schedule.PunctualityStatus(req.Punctuality)
	if punctuality == "" {
		punctuality = schedule.PunctualityOnTime
	}

	id, err := h.Store.SaveAttendance(r.Context(), schedule.AttendanceRecord{
		MemberID:    req.MemberID,
		Date:        date,
		ShiftCode:   req.ShiftCode,
		Punctuality: punctuality,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save attendance", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// =============================================================================
// PERIODS AND PROGRESS
// =============================================================================

func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	ref, mode, err := refMonthAndMode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period query", err)
		return
	}
	window, err := period.ComputeWindow(ref, mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err)
		return
	}
	writeJSON(w, http.StatusOK, windowResponse(ref, mode, window))
}

// GetProgress scores one member's working entries in a period window
// against a target. Source "schedule" scores the plan; "attendance"
// scores actual check-ins.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required", nil)
		return
	}
	ref, mode, err := refMonthAndMode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period query", err)
		return
	}
	window, err := period.ComputeWindow(ref, mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err)
		return
	}
	if _, err := h.Store.GetMember(r.Context(), memberID); err != nil {
		writeStoreError(w, "member lookup failed", err)
		return
	}

	catalog, err := h.Store.Catalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shift catalog", err)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "schedule"
	}

	var count int
	switch source {
	case "schedule":
		entries, err := h.Store.ScheduleInRange(r.Context(), window.Start, window.End)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load schedule", err)
			return
		}
		var mine []schedule.Entry
		for _, e := range entries {
			if e.MemberID == memberID {
				mine = append(mine, e)
			}
		}
		count = period.CountWorkingEntries(mine, window, catalog)

	case "attendance":
		records, err := h.Store.AttendanceInRange(r.Context(), memberID, window.Start, window.End)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load attendance", err)
			return
		}
		count = period.CountWorkingEntries(records, window, catalog)

	default:
		writeError(w, http.StatusBadRequest, "source must be schedule or attendance", nil)
		return
	}

	target := window.Days()
	if raw := r.URL.Query().Get("target"); raw != "" {
		target, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid target", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, ProgressResponse{
		MemberID:     memberID,
		Source:       source,
		Window:       windowResponse(ref, mode, window),
		WorkingCount: count,
		Target:       target,
		Percent:      period.ProgressPercent(count, target),
	})
}

func windowResponse(ref period.Month, mode period.Mode, w period.Window) WindowResponse {
	return WindowResponse{
		Year:  ref.Year,
		Month: ref.Month,
		Mode:  mode,
		Start: w.Start.String(),
		End:   w.End.String(),
		Days:  w.Days(),
	}
}

// =============================================================================
// CASH LEDGER
// =============================================================================

func (h *Handler) CreateCashEntry(w http.ResponseWriter, r *http.Request) {
	var req CashEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid cash entry payload", err)
		return
	}
	date, err := calendar.Parse(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cash entry date", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err)
		return
	}

	saved, err := h.Store.SaveCashEntry(r.Context(), contribution.CashEntry{
		Date:        date,
		MemberID:    req.MemberID,
		Amount:      amount,
		Direction:   contribution.Direction(req.Direction),
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		writeStoreError(w, "failed to save cash entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) ListCashEntries(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	entries, err := h.Store.CashEntriesForYear(r.Context(), year, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cash entries", err)
		return
	}
	if entries == nil {
		entries = []contribution.CashEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

// GetContributions builds the per-member monthly dues matrix for a year.
// Fee, dues category, and month vocabulary come from settings; only active
// members appear in the matrix.
func (h *Handler) GetContributions(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}

	ctx := r.Context()
	fee, err := h.Store.MonthlyFee(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load monthly fee", err)
		return
	}
	category, err := h.Store.DuesCategory(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dues category", err)
		return
	}
	vocab, err := h.Store.MonthVocabulary(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load month vocabulary", err)
		return
	}
	members, err := h.Store.ListMembers(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members", err)
		return
	}
	entries, err := h.Store.CashEntriesForYear(ctx, year, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cash entries", err)
		return
	}

	report := contribution.Allocate(
		year, fee,
		roster.Active(members),
		entries,
		vocab,
		contribution.Options{
			DuesCategory:     category,
			AttributeUndated: r.URL.Query().Get("attribute_undated") == "true",
		},
	)
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// SETTINGS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fee, err := h.Store.MonthlyFee(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings", err)
		return
	}
	category, err := h.Store.DuesCategory(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings", err)
		return
	}
	vocab, err := h.Store.MonthVocabulary(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{
		MonthlyFee:      fee.String(),
		DuesCategory:    category,
		MonthVocabulary: vocab.Names(),
	})
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload", err)
		return
	}
	ctx := r.Context()

	if req.MonthlyFee != nil {
		fee, err := decimal.NewFromString(*req.MonthlyFee)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid monthly fee", err)
			return
		}
		if err := h.Store.SetMonthlyFee(ctx, fee); err != nil {
			writeError(w, http.StatusBadRequest, "invalid monthly fee", err)
			return
		}
	}
	if req.DuesCategory != nil {
		if err := h.Store.SetDuesCategory(ctx, *req.DuesCategory); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save dues category", err)
			return
		}
	}
	if len(req.MonthVocabulary) > 0 {
		vocab, err := contribution.NewVocabulary(req.MonthVocabulary)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month vocabulary", err)
			return
		}
		if err := h.Store.SetMonthVocabulary(ctx, vocab); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save month vocabulary", err)
			return
		}
	}

	h.GetSettings(w, r)
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func refMonth(r *http.Request) (period.Month, error) {
	year, err := yearParam(r)
	if err != nil {
		return period.Month{}, err
	}
	monthNum, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return period.Month{}, errors.New("month must be 1-12")
	}
	return period.Month{Year: year, Month: time.Month(monthNum)}, nil
}

func refMonthAndMode(r *http.Request) (period.Month, period.Mode, error) {
	ref, err := refMonth(r)
	if err != nil {
		return period.Month{}, "", err
	}
	mode, err := period.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		return period.Month{}, "", err
	}
	return ref, mode, nil
}

func yearParam(r *http.Request) (int, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		return 0, errors.New("year is required")
	}
	return year, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps domain error classes to status codes.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, calendar.ErrMalformedDate),
		errors.Is(err, contribution.ErrInvalidAmount),
		errors.Is(err, period.ErrUnknownMode):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
