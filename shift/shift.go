// Package shift provides read-only lookup over the user-configurable shift
// catalog. The catalog is a runtime lookup table, not an enum: teams add
// their own shift types, and the rest of the system depends only on the
// IsDayOff capability of a shift, never on the specific set of codes.
package shift

// Type is one entry in the shift catalog.
type Type struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
	IsDayOff    bool   `json:"is_day_off"`
}

// Catalog is a read-through lookup of shift code to catalog entry. Build one
// with NewCatalog from whatever collection the settings store hands back.
type Catalog struct {
	byCode map[string]Type
	order  []string
}

// NewCatalog builds a catalog from a list of shift types. Later entries with
// a duplicate code replace earlier ones.
func NewCatalog(types []Type) *Catalog {
	c := &Catalog{byCode: make(map[string]Type, len(types))}
	for _, t := range types {
		if _, seen := c.byCode[t.Code]; !seen {
			c.order = append(c.order, t.Code)
		}
		c.byCode[t.Code] = t
	}
	return c
}

// Lookup returns the catalog entry for a code. The second return is false
// when the code is unknown; a single stale reference must not abort a batch,
// so callers are expected to fall back to Resolve or treat unknown as a
// display-only problem.
func (c *Catalog) Lookup(code string) (Type, bool) {
	if c == nil {
		return Type{}, false
	}
	t, ok := c.byCode[code]
	return t, ok
}

// Resolve returns the catalog entry for a code, or a display fallback for
// unknown codes. The fallback keeps the raw code visible and reports
// IsDayOff=false: absent catalog data must never zero out someone's
// attendance, so unknown shifts count as working days.
func (c *Catalog) Resolve(code string) Type {
	if t, ok := c.Lookup(code); ok {
		return t
	}
	return Type{Code: code, DisplayName: code + " (unknown)", IsDayOff: false}
}

// IsDayOff reports whether a code names a day-off shift. Unknown codes
// report false (fail open, see Resolve).
func (c *Catalog) IsDayOff(code string) bool {
	t, ok := c.Lookup(code)
	return ok && t.IsDayOff
}

// Types returns catalog entries in first-seen order.
func (c *Catalog) Types() []Type {
	if c == nil {
		return nil
	}
	out := make([]Type, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.byCode[code])
	}
	return out
}

// Len returns the number of distinct codes in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byCode)
}
