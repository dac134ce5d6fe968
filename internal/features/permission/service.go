package permission

import (
	"errors"
	"slices"
	"strings"

	"go-fitstaff/internal/access"
)

var (
	ErrNoPermissions = errors.New("at least one permission is required")
	ErrUnknownMode   = errors.New("mode must be any or all")
	ErrNotManager    = errors.New("checking another subject requires permissions.manage")
	ErrBadSubject    = errors.New("subject has an unknown role or position")
)

const (
	ModeAny = "any"
	ModeAll = "all"
)

type PermissionService interface {
	Summary(subject *access.Subject) Summary
	Check(caller *access.Subject, req CheckRequest) (*CheckResponse, error)
	CheckModify(subject *access.Subject, req ModifyRequest) ModifyResponse
	CheckPage(subject *access.Subject, path string) PageResponse
	Matrix() Matrix
}

type PermissionServiceImpl struct {
	Evaluator *access.Evaluator
	Landing   string
}

func NewPermissionService(evaluator *access.Evaluator) PermissionService {
	return &PermissionServiceImpl{
		Evaluator: evaluator,
		Landing:   "/dashboard",
	}
}

func (s *PermissionServiceImpl) Summary(subject *access.Subject) Summary {
	sum := Summary{
		Subject:     subject,
		Permissions: s.Evaluator.EffectivePermissions(subject),
		Pages:       s.Evaluator.AccessiblePages(subject),
		DataAccess:  s.Evaluator.LevelsFor(subject),
	}
	if sum.Permissions == nil {
		sum.Permissions = []access.Permission{}
	}
	if subject != nil {
		sum.RoleLabel = subject.Role.Label()
		if l, ok := subject.Position.Level(); ok {
			sum.Level = &l
		}
	}
	return sum
}

func (s *PermissionServiceImpl) Check(caller *access.Subject, req CheckRequest) (*CheckResponse, error) {
	if len(req.Permissions) == 0 {
		return nil, ErrNoPermissions
	}
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = ModeAny
	}
	if mode != ModeAny && mode != ModeAll {
		return nil, ErrUnknownMode
	}

	subject := caller
	if req.Subject != nil {
		if !s.Evaluator.HasPermission(caller, access.PermPermissionsManage) {
			return nil, ErrNotManager
		}
		normalized, err := normalizeSubject(req.Subject)
		if err != nil {
			return nil, err
		}
		subject = normalized
	}

	perms := make([]access.Permission, 0, len(req.Permissions))
	results := make([]PermissionResult, 0, len(req.Permissions))
	for _, raw := range req.Permissions {
		p := access.Permission(strings.TrimSpace(raw))
		perms = append(perms, p)
		results = append(results, PermissionResult{
			Permission: p,
			Valid:      access.IsValidPermission(p),
			Decision:   s.Evaluator.CheckPermissionWithReason(subject, p),
		})
	}

	resp := &CheckResponse{Mode: mode, Results: results}
	if mode == ModeAll {
		resp.Allowed = s.Evaluator.HasAllPermissions(subject, perms...)
	} else {
		resp.Allowed = s.Evaluator.HasAnyPermission(subject, perms...)
	}
	return resp, nil
}

// normalizeSubject accepts role and position labels and aliases the way a login token does
func normalizeSubject(in *access.Subject) (*access.Subject, error) {
	role, ok := access.ParseRole(string(in.Role))
	if !ok {
		return nil, ErrBadSubject
	}
	out := &access.Subject{
		ID:         in.ID,
		Role:       role,
		Department: strings.TrimSpace(in.Department),
	}
	if in.Position != "" {
		position, ok := access.ParsePosition(string(in.Position))
		if !ok {
			return nil, ErrBadSubject
		}
		out.Position = position
	}
	for _, o := range in.Overrides {
		out.Overrides = append(out.Overrides, access.Permission(strings.TrimSpace(string(o))))
	}
	return out, nil
}

func (s *PermissionServiceImpl) CheckModify(subject *access.Subject, req ModifyRequest) ModifyResponse {
	return ModifyResponse{
		DataType: req.DataType,
		Level:    s.Evaluator.DataAccessLevel(subject, req.DataType),
		Allowed: s.Evaluator.CanModifyData(subject, req.DataType, access.Target{
			OwnerID:     req.OwnerID,
			Department:  req.Department,
			AssignedIDs: req.AssignedIDs,
		}),
	}
}

func (s *PermissionServiceImpl) CheckPage(subject *access.Subject, path string) PageResponse {
	resp := PageResponse{Path: path, Allowed: s.Evaluator.HasPageAccess(subject, path)}
	if !resp.Allowed {
		resp.Redirect = s.Landing
	}
	return resp
}

// Matrix describes the static tables: what each role gets and how positions rank
func (s *PermissionServiceImpl) Matrix() Matrix {
	m := Matrix{
		Roles:     make([]RoleEntry, 0, len(access.Roles)),
		Positions: make([]PositionEntry, 0, len(access.PositionLevels)),
		Pages:     make(map[string][]string, len(access.PageAccess)),
	}

	for _, role := range access.Roles {
		probe := &access.Subject{Role: role}
		m.Roles = append(m.Roles, RoleEntry{
			Role:        role,
			Label:       role.Label(),
			Department:  access.DepartmentOf(role),
			Permissions: s.Evaluator.EffectivePermissions(probe),
			Pages:       s.Evaluator.AccessiblePages(probe),
			DataAccess:  s.Evaluator.LevelsFor(probe),
		})
	}

	for p, l := range access.PositionLevels {
		m.Positions = append(m.Positions, PositionEntry{Position: p, Level: l})
	}
	slices.SortFunc(m.Positions, func(a, b PositionEntry) int { return a.Level - b.Level })

	for path, perms := range access.PageAccess {
		list := make([]string, 0, len(perms))
		for _, p := range perms {
			list = append(list, string(p))
		}
		m.Pages[path] = list
	}
	return m
}
