package shift_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alfians29/app-daman-sub000/shift"
)

func testCatalog() *shift.Catalog {
	return shift.NewCatalog([]shift.Type{
		{Code: "PAGI", DisplayName: "Pagi", Color: "#fbbf24", IsDayOff: false},
		{Code: "SIANG", DisplayName: "Siang", Color: "#60a5fa", IsDayOff: false},
		{Code: "MALAM", DisplayName: "Malam", Color: "#6366f1", IsDayOff: false},
		{Code: "OFF", DisplayName: "Libur", Color: "#9ca3af", IsDayOff: true},
	})
}

func TestCatalog_Lookup(t *testing.T) {
	c := testCatalog()

	got, ok := c.Lookup("PAGI")
	assert.True(t, ok)
	assert.Equal(t, "Pagi", got.DisplayName)
	assert.False(t, got.IsDayOff)

	_, ok = c.Lookup("NONEXISTENT")
	assert.False(t, ok)
}

func TestCatalog_Resolve_UnknownFallsBackFailOpen(t *testing.T) {
	c := testCatalog()

	got := c.Resolve("LEMBUR")
	assert.Equal(t, "LEMBUR", got.Code)
	assert.Equal(t, "LEMBUR (unknown)", got.DisplayName)
	assert.False(t, got.IsDayOff, "unknown shifts must count as working")
}

func TestCatalog_IsDayOff(t *testing.T) {
	c := testCatalog()

	assert.True(t, c.IsDayOff("OFF"))
	assert.False(t, c.IsDayOff("MALAM"))
	assert.False(t, c.IsDayOff("NONEXISTENT"), "unknown codes fail open")
}

func TestCatalog_DuplicateCodesLastWins(t *testing.T) {
	c := shift.NewCatalog([]shift.Type{
		{Code: "PAGI", DisplayName: "Morning"},
		{Code: "PAGI", DisplayName: "Pagi"},
	})

	got, ok := c.Lookup("PAGI")
	assert.True(t, ok)
	assert.Equal(t, "Pagi", got.DisplayName)
	assert.Equal(t, 1, c.Len())
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *shift.Catalog

	_, ok := c.Lookup("PAGI")
	assert.False(t, ok)
	assert.False(t, c.IsDayOff("OFF"))
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Types())
}
