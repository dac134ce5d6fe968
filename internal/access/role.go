package access

import "strings"

// Role determines the base permission set of a staff member.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleReception Role = "reception"
	RoleFitness   Role = "fitness"
	RolePilates   Role = "pilates"
	RoleGolf      Role = "golf"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleReception, RoleFitness, RolePilates, RoleGolf}

// Position is a rank label inside a role. It grants nothing by itself.
type Position string

const (
	PositionIntern        Position = "인턴"
	PositionStaff         Position = "사원"
	PositionTrainer       Position = "트레이너"
	PositionSeniorTrainer Position = "선임트레이너"
	PositionManager       Position = "매니저"
	PositionTeamLead      Position = "팀장"
	PositionCenterHead    Position = "센터장"
	PositionCEO           Position = "대표"
)

// PositionLevels orders positions by seniority. Higher is more senior.
var PositionLevels = map[Position]int{
	PositionIntern:        0,
	PositionStaff:         1,
	PositionTrainer:       2,
	PositionSeniorTrainer: 3,
	PositionManager:       4,
	PositionTeamLead:      5,
	PositionCenterHead:    6,
	PositionCEO:           7,
}

// Level returns the seniority level of p and whether p is a known position.
func (p Position) Level() (int, bool) {
	l, ok := PositionLevels[p]
	return l, ok
}

// IsValid reports whether r is one of the compiled-in roles.
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Label returns the Korean display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "관리자"
	case RoleReception:
		return "리셉션"
	case RoleFitness:
		return "피트니스"
	case RolePilates:
		return "필라테스"
	case RoleGolf:
		return "골프"
	}
	return string(r)
}

// roleAliases maps display labels and names used by older session payloads
// onto the current roles.
var roleAliases = map[string]Role{
	"관리자":         RoleAdmin,
	"super_admin": RoleAdmin,
	"superadmin":  RoleAdmin,
	"manager":     RoleAdmin,
	"리셉션":         RoleReception,
	"front":       RoleReception,
	"desk":        RoleReception,
	"피트니스":        RoleFitness,
	"trainer":     RoleFitness,
	"pt":          RoleFitness,
	"필라테스":        RolePilates,
	"골프":          RoleGolf,
}

// ParseRole resolves a role name, Korean label or legacy alias.
// The empty Role and false are returned for anything else.
func ParseRole(s string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if r := Role(key); r.IsValid() {
		return r, true
	}
	if r, ok := roleAliases[key]; ok {
		return r, true
	}
	return "", false
}

// ParsePosition resolves a position label. English aliases are accepted for
// clients that have no Korean input.
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.TrimSpace(s))
	if _, ok := PositionLevels[p]; ok {
		return p, true
	}
	switch strings.ToLower(string(p)) {
	case "intern":
		return PositionIntern, true
	case "staff":
		return PositionStaff, true
	case "trainer":
		return PositionTrainer, true
	case "senior-trainer", "senior_trainer":
		return PositionSeniorTrainer, true
	case "manager":
		return PositionManager, true
	case "team-lead", "team_lead", "teamlead":
		return PositionTeamLead, true
	case "center-head", "center_head":
		return PositionCenterHead, true
	case "ceo":
		return PositionCEO, true
	}
	return "", false
}

// DepartmentOf returns the department a role belongs to by default.
// Admin has no department.
func DepartmentOf(r Role) string {
	switch r {
	case RoleReception, RoleFitness, RolePilates, RoleGolf:
		return string(r)
	}
	return ""
}
