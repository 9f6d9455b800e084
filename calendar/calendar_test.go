package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfians29/app-daman-sub000/calendar"
)

// =============================================================================
// CANONICALIZATION
// =============================================================================

func TestParse_TimezoneInvariance(t *testing.T) {
	// GIVEN: the same calendar date written three different ways
	// WHEN: each form is canonicalized
	// THEN: all yield the same YYYY-MM-DD date, no timezone shift

	inputs := []string{
		"2025-12-18",
		"2025-12-18T00:00:00.000Z",
		"2025-12-18T23:59:59+07:00",
		"2025-12-18 08:30:00",
	}

	for _, in := range inputs {
		d, err := calendar.Parse(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, "2025-12-18", d.String(), "input %q", in)
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"18-12-2025",
		"2025-13-01",
		"2025-02-30",
		"2025-12-18x12:00",
		"2025/12/18",
	}

	for _, in := range cases {
		_, err := calendar.Parse(in)
		assert.Error(t, err, "input %q should be rejected", in)
		assert.ErrorIs(t, err, calendar.ErrMalformedDate, "input %q", in)

		var malformed *calendar.MalformedDateError
		assert.ErrorAs(t, err, &malformed, "input %q", in)
	}
}

func TestFromTime_UsesDateAsCarried(t *testing.T) {
	// A value at 23:00 in UTC+7 is already the next day in that offset's
	// terms only if the value says so; we never re-derive through UTC.
	jakarta := time.FixedZone("WIB", 7*60*60)
	at := time.Date(2025, time.December, 18, 1, 30, 0, 0, jakarta)

	d := calendar.FromTime(at)
	assert.Equal(t, "2025-12-18", d.String())

	// Same instant rendered in UTC is still Dec 17; the caller chose the
	// representation, so the caller gets that representation's date.
	assert.Equal(t, "2025-12-17", calendar.FromTime(at.UTC()).String())
}

// =============================================================================
// COMPARISON AND ARITHMETIC
// =============================================================================

func TestDate_Ordering(t *testing.T) {
	a := calendar.NewDate(2025, time.January, 15)
	b := calendar.NewDate(2025, time.January, 16)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.AfterOrEqual(a))
	assert.True(t, a.Equal(calendar.MustParse("2025-01-15")))
}

func TestDate_MonthBoundaries(t *testing.T) {
	assert.Equal(t, "2025-02-01", calendar.StartOfMonth(2025, time.February).String())
	assert.Equal(t, "2025-02-28", calendar.EndOfMonth(2025, time.February).String())
	assert.Equal(t, "2024-02-29", calendar.EndOfMonth(2024, time.February).String())
	assert.Equal(t, "2025-12-31", calendar.EndOfMonth(2025, time.December).String())
}

func TestDate_AddDays_CrossesMonthAndYear(t *testing.T) {
	d := calendar.NewDate(2025, time.December, 31)
	assert.Equal(t, "2026-01-01", d.AddDays(1).String())
	assert.Equal(t, "2025-12-16", d.AddDays(-15).String())
}

// =============================================================================
// COMPOSITE KEYS
// =============================================================================

func TestKey_RoundTrip(t *testing.T) {
	d := calendar.MustParse("2025-03-10")

	cases := []string{
		"m1",
		"member-with-hyphens",
		"a-b-c-d",
		"550e8400-e29b-41d4-a716-446655440000", // uuid-shaped member IDs
	}

	for _, memberID := range cases {
		key := calendar.Key(memberID, d)

		gotMember, gotDate, err := calendar.SplitKey(key)
		require.NoError(t, err, "key %q", key)
		assert.Equal(t, memberID, gotMember)
		assert.Equal(t, d, gotDate)
	}
}

func TestSplitKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "m1", "m1-2025-13-40", "2025-03-10", "m1_2025-03-10"} {
		_, _, err := calendar.SplitKey(key)
		assert.Error(t, err, "key %q", key)
	}
}

// =============================================================================
// JSON
// =============================================================================

func TestDate_JSONRoundTrip(t *testing.T) {
	d := calendar.MustParse("2025-07-01")

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-07-01"`, string(raw))

	var back calendar.Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-07-01T10:00:00Z"`), &back))
	assert.Equal(t, d, back)

	assert.Error(t, json.Unmarshal([]byte(`"not a date"`), &back))
}
