/*
Package sqlite persists the dashboard's records in SQLite.

PURPOSE:
  Implements storage for members, the shift catalog, schedule entries,
  attendance, cash entries, and runtime settings. The core packages
  (schedule, period, contribution) are pure and never touch this layer;
  handlers read collections out of the store, run the pure computation,
  and hand write sets back.

SCHEDULE INVARIANT:
  schedule_entries is keyed by (member_id, date). The reconciler guarantees
  a merge plan never carries two operations for the same key; this store
  completes the contract by applying a whole plan inside one SQL
  transaction, so concurrent reconciliations over overlapping keys cannot
  race into duplicate rows. The primary key is the backstop.

CONCURRENCY:
  SQLite is opened in WAL mode; a sync.RWMutex serializes writers within
  the process.

MIGRATION:
  Schema is auto-migrated on New(). Good enough for a single-file embedded
  database; a versioned migration tool would take over if this ever moved
  to a server database.

SEE ALSO:
  - schedule: Plan, the write set ApplySchedulePlan consumes
  - api: the HTTP layer wiring store reads to core computations
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/Alfians29/app-daman-sub000/calendar"
	"github.com/Alfians29/app-daman-sub000/contribution"
	"github.com/Alfians29/app-daman-sub000/roster"
	"github.com/Alfians29/app-daman-sub000/schedule"
	"github.com/Alfians29/app-daman-sub000/shift"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Store provides SQLite-backed persistence for all record types.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path. Use ":memory:" for tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		nickname TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		department TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_members_department
		ON members(department);

	CREATE TABLE IF NOT EXISTS shift_types (
		code TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		is_day_off BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- One assignment per (member, date). The reconciler guarantees its
	-- plans respect this; the primary key enforces it at the last line.
	CREATE TABLE IF NOT EXISTS schedule_entries (
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		shift_code TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (member_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_entries_date
		ON schedule_entries(date);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		shift_code TEXT NOT NULL,
		punctuality TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_member_date
		ON attendance(member_id, date);

	CREATE TABLE IF NOT EXISTS cash_entries (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		member_id TEXT,
		amount TEXT NOT NULL,
		direction TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cash_entries_category_date
		ON cash_entries(category, date);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// =============================================================================
// MEMBERS
// =============================================================================

// SaveMember inserts or updates a member. An empty ID gets a generated one;
// the stored member is returned.
func (s *Store) SaveMember(ctx context.Context, m roster.Member) (roster.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, display_name, nickname, is_active, department, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			nickname = excluded.nickname,
			is_active = excluded.is_active,
			department = excluded.department`,
		m.ID, m.DisplayName, m.Nickname, m.IsActive, m.Department, now(),
	)
	return m, err
}

// ListMembers returns all members ordered by display name.
func (s *Store) ListMembers(ctx context.Context) ([]roster.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, nickname, is_active, department
		FROM members ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []roster.Member
	for rows.Next() {
		var m roster.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Nickname, &m.IsActive, &m.Department); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMember returns one member by ID.
func (s *Store) GetMember(ctx context.Context, id string) (roster.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var m roster.Member
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, nickname, is_active, department
		FROM members WHERE id = ?`, id,
	).Scan(&m.ID, &m.DisplayName, &m.Nickname, &m.IsActive, &m.Department)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Member{}, fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	return m, err
}

// =============================================================================
// SHIFT CATALOG
// =============================================================================

// SaveShiftType inserts or updates a catalog entry.
func (s *Store) SaveShiftType(ctx context.Context, t shift.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Code == "" {
		return fmt.Errorf("shift type requires a code")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shift_types (code, display_name, color, is_day_off, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			display_name = excluded.display_name,
			color = excluded.color,
			is_day_off = excluded.is_day_off`,
		t.Code, t.DisplayName, t.Color, t.IsDayOff, now(),
	)
	return err
}

// Catalog loads the full shift catalog.
func (s *Store) Catalog(ctx context.Context) (*shift.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT code, display_name, color, is_day_off
		FROM shift_types ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []shift.Type
	for rows.Next() {
		var t shift.Type
		if err := rows.Scan(&t.Code, &t.DisplayName, &t.Color, &t.IsDayOff); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shift.NewCatalog(types), nil
}

// =============================================================================
// SCHEDULE
// =============================================================================

// ScheduleInRange returns schedule entries with from <= date <= to.
// Dates are stored in canonical YYYY-MM-DD form, so string comparison in
// SQL matches date ordering.
func (s *Store) ScheduleInRange(ctx context.Context, from, to calendar.Date) ([]schedule.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, date, shift_code
		FROM schedule_entries
		WHERE date >= ? AND date <= ?
		ORDER BY date, member_id`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []schedule.Entry
	for rows.Next() {
		var memberID, rawDate, shiftCode string
		if err := rows.Scan(&memberID, &rawDate, &shiftCode); err != nil {
			return nil, err
		}
		date, err := calendar.Parse(rawDate)
		if err != nil {
			return nil, fmt.Errorf("schedule row for %s: %w", memberID, err)
		}
		entries = append(entries, schedule.Entry{MemberID: memberID, Date: date, ShiftCode: shiftCode})
	}
	return entries, rows.Err()
}

// ApplySchedulePlan applies a reconciliation plan as one atomic write set:
// either every create and update lands, or none do.
func (s *Store) ApplySchedulePlan(ctx context.Context, plan schedule.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := now()
	for _, e := range plan.ToCreate {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_entries (member_id, date, shift_code, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			e.MemberID, e.Date.String(), e.ShiftCode, ts, ts,
		); err != nil {
			return fmt.Errorf("create %s: %w", e.Key(), err)
		}
	}
	for _, e := range plan.ToUpdate {
		res, err := tx.ExecContext(ctx, `
			UPDATE schedule_entries SET shift_code = ?, updated_at = ?
			WHERE member_id = ? AND date = ?`,
			e.ShiftCode, ts, e.MemberID, e.Date.String(),
		)
		if err != nil {
			return fmt.Errorf("update %s: %w", e.Key(), err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update %s: %w", e.Key(), ErrNotFound)
		}
	}

	return tx.Commit()
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// SaveAttendance records a check-in.
func (s *Store) SaveAttendance(ctx context.Context, rec schedule.AttendanceRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance (id, member_id, date, shift_code, punctuality, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, rec.MemberID, rec.Date.String(), rec.ShiftCode, string(rec.Punctuality), now(),
	)
	return id, err
}

// AttendanceInRange returns attendance records with from <= date <= to,
// optionally narrowed to one member (empty memberID means all).
func (s *Store) AttendanceInRange(ctx context.Context, memberID string, from, to calendar.Date) ([]schedule.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT member_id, date, shift_code, punctuality
		FROM attendance
		WHERE date >= ? AND date <= ?`
	args := []any{from.String(), to.String()}
	if memberID != "" {
		query += ` AND member_id = ?`
		args = append(args, memberID)
	}
	query += ` ORDER BY date, member_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []schedule.AttendanceRecord
	for rows.Next() {
		var rec schedule.AttendanceRecord
		var rawDate, punctuality string
		if err := rows.Scan(&rec.MemberID, &rawDate, &rec.ShiftCode, &punctuality); err != nil {
			return nil, err
		}
		date, err := calendar.Parse(rawDate)
		if err != nil {
			return nil, fmt.Errorf("attendance row for %s: %w", rec.MemberID, err)
		}
		rec.Date = date
		rec.Punctuality = schedule.PunctualityStatus(punctuality)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// CASH ENTRIES
// =============================================================================

// SaveCashEntry validates and stores a ledger line. An empty ID gets a
// generated one; the stored entry is returned. Validation here is the
// boundary contract: an invalid amount never reaches the allocator.
func (s *Store) SaveCashEntry(ctx context.Context, e contribution.CashEntry) (contribution.CashEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := e.Validate(); err != nil {
		return contribution.CashEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var memberID any
	if e.MemberID != "" {
		memberID = e.MemberID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cash_entries (id, date, member_id, amount, direction, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), memberID, e.Amount.String(),
		string(e.Direction), e.Category, e.Description, now(),
	)
	return e, err
}

// CashEntriesForYear returns all cash entries dated within the year,
// optionally narrowed to one category (empty means all).
func (s *Store) CashEntriesForYear(ctx context.Context, year int, category string) ([]contribution.CashEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-12-31", year)

	query := `
		SELECT id, date, member_id, amount, direction, category, description
		FROM cash_entries
		WHERE date >= ? AND date <= ?`
	args := []any{from, to}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []contribution.CashEntry
	for rows.Next() {
		var e contribution.CashEntry
		var rawDate, rawAmount, direction string
		var memberID sql.NullString
		if err := rows.Scan(&e.ID, &rawDate, &memberID, &rawAmount, &direction, &e.Category, &e.Description); err != nil {
			return nil, err
		}
		date, err := calendar.Parse(rawDate)
		if err != nil {
			return nil, fmt.Errorf("cash entry %s: %w", e.ID, err)
		}
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("cash entry %s: bad amount %q: %w", e.ID, rawAmount, err)
		}
		e.Date = date
		e.Amount = amount
		e.Direction = contribution.Direction(direction)
		e.MemberID = memberID.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

const (
	settingMonthlyFee   = "monthly_fee"
	settingDuesCategory = "dues_category"
	settingVocabulary   = "month_vocabulary"
)

func (s *Store) setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) setSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// MonthlyFee returns the configured dues fee, or zero when unset.
func (s *Store) MonthlyFee(ctx context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok, err := s.setting(ctx, settingMonthlyFee)
	if err != nil || !ok {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

// SetMonthlyFee stores the dues fee. Must be positive.
func (s *Store) SetMonthlyFee(ctx context.Context, fee decimal.Decimal) error {
	if !fee.IsPositive() {
		return fmt.Errorf("monthly fee must be positive, got %s", fee)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSetting(ctx, settingMonthlyFee, fee.String())
}

// DuesCategory returns the reserved dues category, defaulting to the
// contribution package default when unset.
func (s *Store) DuesCategory(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok, err := s.setting(ctx, settingDuesCategory)
	if err != nil || !ok {
		return contribution.DefaultDuesCategory, err
	}
	return raw, nil
}

// SetDuesCategory stores the reserved dues category.
func (s *Store) SetDuesCategory(ctx context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSetting(ctx, settingDuesCategory, category)
}

// MonthVocabulary returns the configured month-name vocabulary, defaulting
// to the Indonesian names when unset.
func (s *Store) MonthVocabulary(ctx context.Context) (contribution.Vocabulary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok, err := s.setting(ctx, settingVocabulary)
	if err != nil || !ok {
		return contribution.Indonesian, err
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return contribution.Vocabulary{}, fmt.Errorf("month vocabulary setting: %w", err)
	}
	return contribution.NewVocabulary(names)
}

// SetMonthVocabulary stores the month-name vocabulary.
func (s *Store) SetMonthVocabulary(ctx context.Context, v contribution.Vocabulary) error {
	raw, err := json.Marshal(v.Names())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSetting(ctx, settingVocabulary, string(raw))
}
