package access

// Subject is the authenticated staff member being evaluated. It arrives as
// part of the session payload and is replaced wholesale on login and logout.
// Zero values mean "absent".
type Subject struct {
	ID         string       `json:"id,omitempty"`
	Role       Role         `json:"role"`
	Position   Position     `json:"position,omitempty"`
	Department string       `json:"department,omitempty"`
	Overrides  []Permission `json:"overrides,omitempty"`
}

// IsAdmin reports whether s holds the administrative role.
func (s *Subject) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Target describes the ownership context of a record for modification and
// visibility checks.
type Target struct {
	OwnerID     string
	Department  string
	AssignedIDs []string
}

// Owned is implemented by records that can be filtered by FilterByAccess.
type Owned interface {
	AccessTarget() Target
}
