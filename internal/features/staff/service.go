package staff

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-fitstaff/internal/access"
	common_models "go-fitstaff/internal/common/models"
	"go-fitstaff/internal/features/audit"
	"go-fitstaff/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("staff not found")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidPermission = errors.New("invalid permission")
	ErrRoleImmutable     = errors.New("role cannot be changed after creation")
	ErrForbidden         = errors.New("not allowed to modify this staff member")
	ErrMissingFields     = errors.New("username, password and role are required")
)

type StaffService interface {
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*Staff, error)
	GetStaff(ctx context.Context, subject *access.Subject, id string) (*Staff, error)
	ListStaff(ctx context.Context, subject *access.Subject, filter map[string]interface{}) ([]Staff, error)
	UpdateStaff(ctx context.Context, subject *access.Subject, id string, req UpdateStaffRequest) (*Staff, error)
	SetOverrides(ctx context.Context, id string, overrides []string) (*Staff, error)
	DeleteStaff(ctx context.Context, subject *access.Subject, id string) error
}

type StaffServiceImpl struct {
	Repo         StaffRepository
	Evaluator    *access.Evaluator
	AuditService audit.AuditService
}

func NewStaffService(repo StaffRepository, evaluator *access.Evaluator, auditService audit.AuditService) StaffService {
	return &StaffServiceImpl{
		Repo:         repo,
		Evaluator:    evaluator,
		AuditService: auditService,
	}
}

func (s *StaffServiceImpl) CreateStaff(ctx context.Context, req CreateStaffRequest) (*Staff, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" || req.Role == "" {
		return nil, ErrMissingFields
	}

	role, ok := access.ParseRole(req.Role)
	if !ok {
		return nil, ErrInvalidRole
	}

	var position access.Position
	if req.Position != "" {
		if position, ok = access.ParsePosition(req.Position); !ok {
			return nil, ErrInvalidPosition
		}
	}

	overrides, err := parseOverrides(req.Overrides)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	department := req.Department
	if department == "" {
		department = access.DepartmentOf(role)
	}

	now := time.Now()
	staff := &Staff{
		ID:         primitive.NewObjectID(),
		Username:   username,
		Password:   hash,
		Name:       req.Name,
		Role:       role,
		Position:   position,
		Department: department,
		Overrides:  overrides,
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Repo.Create(ctx, staff); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	changes := map[string]common_models.Change{
		"username": {New: staff.Username},
		"role":     {New: staff.Role},
		"created":  {New: true},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "staff", staff.ID.Hex(), changes)

	return staff, nil
}

func (s *StaffServiceImpl) GetStaff(ctx context.Context, subject *access.Subject, id string) (*Staff, error) {
	staff, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	// Invisible records look missing
	if !s.Evaluator.CanModifyData(subject, access.DataStaff, staff.AccessTarget()) {
		return nil, ErrNotFound
	}
	return staff, nil
}

func (s *StaffServiceImpl) ListStaff(ctx context.Context, subject *access.Subject, filter map[string]interface{}) ([]Staff, error) {
	all, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return access.FilterByAccess(s.Evaluator, all, subject, access.DataStaff), nil
}

func (s *StaffServiceImpl) UpdateStaff(ctx context.Context, subject *access.Subject, id string, req UpdateStaffRequest) (*Staff, error) {
	staff, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Evaluator.CanModifyData(subject, access.DataStaff, staff.AccessTarget()) {
		return nil, ErrForbidden
	}

	if req.Role != nil {
		role, ok := access.ParseRole(*req.Role)
		if !ok || role != staff.Role {
			return nil, ErrRoleImmutable
		}
	}

	changes := make(map[string]common_models.Change)

	if req.Name != nil && *req.Name != staff.Name {
		changes["name"] = common_models.Change{Old: staff.Name, New: *req.Name}
		staff.Name = *req.Name
	}
	if req.Position != nil {
		position, ok := access.ParsePosition(*req.Position)
		if !ok {
			return nil, ErrInvalidPosition
		}
		if position != staff.Position {
			changes["position"] = common_models.Change{Old: staff.Position, New: position}
			staff.Position = position
		}
	}
	if req.Department != nil && *req.Department != staff.Department {
		changes["department"] = common_models.Change{Old: staff.Department, New: *req.Department}
		staff.Department = *req.Department
	}
	if req.Status != nil && *req.Status != staff.Status {
		if *req.Status != StatusActive && *req.Status != StatusInactive {
			return nil, errors.New("status must be active or inactive")
		}
		changes["status"] = common_models.Change{Old: staff.Status, New: *req.Status}
		staff.Status = *req.Status
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		staff.Password = hash
		changes["password"] = common_models.Change{New: "changed"}
	}

	if len(changes) == 0 {
		return staff, nil
	}

	if err := s.Repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "staff", id, changes)

	return staff, nil
}

// SetOverrides replaces the individually granted permissions of a staff member.
// The new set applies from their next login.
func (s *StaffServiceImpl) SetOverrides(ctx context.Context, id string, overrides []string) (*Staff, error) {
	perms, err := parseOverrides(overrides)
	if err != nil {
		return nil, err
	}

	staff, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"overrides": {Old: staff.Overrides, New: perms},
	}
	staff.Overrides = perms

	if err := s.Repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionPermissions, "staff", id, changes)

	return staff, nil
}

func (s *StaffServiceImpl) DeleteStaff(ctx context.Context, subject *access.Subject, id string) error {
	staff, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !s.Evaluator.CanModifyData(subject, access.DataStaff, staff.AccessTarget()) {
		return ErrForbidden
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	changes := map[string]common_models.Change{
		"username": {Old: staff.Username},
		"deleted":  {New: true},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "staff", id, changes)
	return nil
}

func (s *StaffServiceImpl) find(ctx context.Context, id string) (*Staff, error) {
	staff, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return staff, nil
}

func parseOverrides(in []string) ([]access.Permission, error) {
	perms := make([]access.Permission, 0, len(in))
	seen := make(map[access.Permission]bool, len(in))
	for _, raw := range in {
		p := access.Permission(strings.TrimSpace(raw))
		if !access.IsValidPermission(p) {
			return nil, ErrInvalidPermission
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		perms = append(perms, p)
	}
	return perms, nil
}
