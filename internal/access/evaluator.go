// Package access decides what a staff member may do: which permissions they
// hold, which dashboard pages they may open and which records of a data type
// they may see or change. Every function is a pure lookup over compiled-in
// tables, so an Evaluator is safe for concurrent use.
package access

import (
	"slices"
)

// Reasons returned by CheckPermissionWithReason. They are for display only.
const (
	ReasonLoginRequired    = "login required"
	ReasonNoRole           = "no role assigned"
	ReasonGrantedByRole    = "granted by role"
	ReasonGrantedOverride  = "granted by override"
	ReasonInsufficientRole = "insufficient role"
)

// Policy holds the switches that change how missing context is treated.
type Policy struct {
	// AllowMissingDepartment makes a department-scoped check pass when the
	// caller supplies no department for the record. Off by default.
	AllowMissingDepartment bool
}

// Decision is a permission outcome with a human readable explanation.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Evaluator answers access questions against the static tables.
type Evaluator struct {
	policy Policy
}

// New returns an Evaluator over the compiled-in tables.
func New(policy Policy) *Evaluator {
	return &Evaluator{policy: policy}
}

// Default is the process-wide evaluator with the default policy.
var Default = New(Policy{})

// Policy returns the policy the evaluator was built with.
func (e *Evaluator) Policy() Policy {
	return e.policy
}

func (e *Evaluator) grantedByRole(s *Subject, p Permission) bool {
	return slices.Contains(RolePermissions[s.Role], p)
}

// HasPermission reports whether s holds p through its role or its overrides.
func (e *Evaluator) HasPermission(s *Subject, p Permission) bool {
	if s == nil || s.Role == "" {
		return false
	}
	return e.grantedByRole(s, p) || slices.Contains(s.Overrides, p)
}

// HasAnyPermission reports whether s holds at least one of ps.
// It is false for an empty list.
func (e *Evaluator) HasAnyPermission(s *Subject, ps ...Permission) bool {
	for _, p := range ps {
		if e.HasPermission(s, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether s holds every one of ps.
// It is true for an empty list.
func (e *Evaluator) HasAllPermissions(s *Subject, ps ...Permission) bool {
	for _, p := range ps {
		if !e.HasPermission(s, p) {
			return false
		}
	}
	return true
}

// HasPageAccess reports whether s may open path. Paths without required
// permissions are open, even to a nil subject.
func (e *Evaluator) HasPageAccess(s *Subject, path string) bool {
	required := PageAccess[path]
	if len(required) == 0 {
		return true
	}
	return e.HasAnyPermission(s, required...)
}

// DataAccessLevel returns the access level of s over dataType, LevelNone when
// the table has no entry.
func (e *Evaluator) DataAccessLevel(s *Subject, dataType string) Level {
	if s == nil {
		return LevelNone
	}
	if l, ok := DataAccessLevels[s.Role][dataType]; ok {
		return l
	}
	return LevelNone
}

// CanModifyData reports whether s may change a record of dataType described
// by t. The same test decides record visibility.
func (e *Evaluator) CanModifyData(s *Subject, dataType string, t Target) bool {
	if s == nil {
		return false
	}
	if s.IsAdmin() {
		return true
	}

	switch e.DataAccessLevel(s, dataType) {
	case LevelAll:
		return true
	case LevelDepartment:
		if t.Department == "" {
			return e.policy.AllowMissingDepartment
		}
		return s.Department != "" && s.Department == t.Department
	case LevelAssigned:
		return s.ID != "" && slices.Contains(t.AssignedIDs, s.ID)
	case LevelOwn:
		return s.ID != "" && s.ID == t.OwnerID
	}
	return false
}

// FilterByAccess returns the records of dataType that s may see, keeping
// their order. Admins get the input slice back unchanged.
func FilterByAccess[T Owned](e *Evaluator, records []T, s *Subject, dataType string) []T {
	if s.IsAdmin() {
		return records
	}
	visible := make([]T, 0, len(records))
	if e.DataAccessLevel(s, dataType) == LevelNone {
		return visible
	}
	for _, r := range records {
		if e.CanModifyData(s, dataType, r.AccessTarget()) {
			visible = append(visible, r)
		}
	}
	return visible
}

// HasElevatedAccess reports whether the position of s is at least as senior
// as required. Unknown positions on either side deny.
func (e *Evaluator) HasElevatedAccess(s *Subject, required Position) bool {
	if s == nil || s.Position == "" {
		return false
	}
	have, ok := s.Position.Level()
	if !ok {
		return false
	}
	want, ok := required.Level()
	if !ok {
		return false
	}
	return have >= want
}

// CheckPermissionWithReason makes the HasPermission decision and explains it.
func (e *Evaluator) CheckPermissionWithReason(s *Subject, p Permission) Decision {
	switch {
	case s == nil:
		return Decision{Allowed: false, Reason: ReasonLoginRequired}
	case s.Role == "":
		return Decision{Allowed: false, Reason: ReasonNoRole}
	case e.grantedByRole(s, p):
		return Decision{Allowed: true, Reason: ReasonGrantedByRole}
	case slices.Contains(s.Overrides, p):
		return Decision{Allowed: true, Reason: ReasonGrantedOverride}
	}
	return Decision{Allowed: false, Reason: ReasonInsufficientRole}
}

// EffectivePermissions returns the sorted union of the role set and the
// overrides of s.
func (e *Evaluator) EffectivePermissions(s *Subject) []Permission {
	if s == nil || s.Role == "" {
		return nil
	}
	out := make([]Permission, 0, len(RolePermissions[s.Role])+len(s.Overrides))
	out = append(out, RolePermissions[s.Role]...)
	out = append(out, s.Overrides...)
	slices.Sort(out)
	return slices.Compact(out)
}

// AccessiblePages returns the sorted table paths s may open.
func (e *Evaluator) AccessiblePages(s *Subject) []string {
	pages := make([]string, 0, len(PageAccess))
	for path := range PageAccess {
		if e.HasPageAccess(s, path) {
			pages = append(pages, path)
		}
	}
	slices.Sort(pages)
	return pages
}

// LevelsFor returns the level of s for every known data type.
func (e *Evaluator) LevelsFor(s *Subject) map[string]Level {
	levels := make(map[string]Level, len(DataTypes))
	for _, dt := range DataTypes {
		levels[dt] = e.DataAccessLevel(s, dt)
	}
	return levels
}
