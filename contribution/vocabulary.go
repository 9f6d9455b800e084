package contribution

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// MONTH VOCABULARY - the closed set of recognized month names
// =============================================================================

// Vocabulary maps the twelve calendar months to the month names that may
// appear in payment descriptions. It is configuration, not code: the
// language of the names follows the language the team writes in.
type Vocabulary struct {
	names [12]string
}

// NewVocabulary builds a vocabulary from exactly twelve names, January
// first. Empty names are rejected.
func NewVocabulary(names []string) (Vocabulary, error) {
	var v Vocabulary
	if len(names) != 12 {
		return v, fmt.Errorf("vocabulary needs 12 month names, got %d", len(names))
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return v, fmt.Errorf("vocabulary month %d is empty", i+1)
		}
		v.names[i] = name
	}
	return v, nil
}

// MustVocabulary is NewVocabulary that panics. For package defaults and tests.
func MustVocabulary(names []string) Vocabulary {
	v, err := NewVocabulary(names)
	if err != nil {
		panic(err)
	}
	return v
}

// Indonesian is the default vocabulary; the source data is written in
// Indonesian ("Kas bulan Januari, Februari 2025").
var Indonesian = MustVocabulary([]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
})

// Names returns the twelve names, January first.
func (v Vocabulary) Names() []string {
	out := make([]string, 12)
	copy(out, v.names[:])
	return out
}

// Name returns the vocabulary name for a month.
func (v Vocabulary) Name(m time.Month) string { return v.names[m-1] }

// IsZero reports whether the vocabulary was never initialized.
func (v Vocabulary) IsZero() bool { return v.names[0] == "" }

// Scan returns the distinct months whose names occur in the description,
// ordered by first appearance. Matching is a case-insensitive substring
// scan against the closed vocabulary; a description naming no recognized
// month returns nil.
func (v Vocabulary) Scan(description string) []time.Month {
	lowered := strings.ToLower(description)

	type hit struct {
		at    int
		month time.Month
	}
	var hits []hit
	for i, name := range v.names {
		if at := strings.Index(lowered, strings.ToLower(name)); at >= 0 {
			hits = append(hits, hit{at: at, month: time.Month(i + 1)})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].at < hits[j].at })

	months := make([]time.Month, len(hits))
	for i, h := range hits {
		months[i] = h.month
	}
	return months
}
