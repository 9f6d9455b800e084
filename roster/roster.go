// Package roster holds member reference data. Members are created and
// maintained by the user-management side of the application; the ledger and
// schedule code treats them as immutable reference data for the duration of
// a computation.
package roster

// Member is one person on the team roster.
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Nickname    string `json:"nickname,omitempty"`
	IsActive    bool   `json:"is_active"`
	Department  string `json:"department,omitempty"`
}

// Name returns the nickname when set, otherwise the display name.
func (m Member) Name() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return m.DisplayName
}

// Active filters a member list down to active members, preserving order.
func Active(members []Member) []Member {
	var out []Member
	for _, m := range members {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out
}
