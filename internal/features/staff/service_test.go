package staff

import (
	"context"
	"errors"
	"testing"

	"go-fitstaff/internal/access"
	common_models "go-fitstaff/internal/common/models"
	"go-fitstaff/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockRepo struct {
	byID map[string]*Staff
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[string]*Staff{}}
}

func (m *mockRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockRepo) Create(ctx context.Context, s *Staff) error {
	for _, existing := range m.byID {
		if existing.Username == s.Username {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}
	m.byID[s.ID.Hex()] = s
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*Staff, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) FindByUsername(ctx context.Context, username string) (*Staff, error) {
	for _, s := range m.byID {
		if s.Username == username {
			return s, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockRepo) List(ctx context.Context, filter map[string]interface{}) ([]Staff, error) {
	out := []Staff{}
	for _, s := range m.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockRepo) Update(ctx context.Context, s *Staff) error {
	m.byID[s.ID.Hex()] = s
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.byID, id)
	return nil
}

func (m *mockRepo) FindNames(ctx context.Context, ids []string) (map[string]string, error) {
	return map[string]string{}, nil
}

type mockAudit struct {
	actions []common_models.AuditAction
}

func (m *mockAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.actions = append(m.actions, action)
	return nil
}

func (m *mockAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func newTestService() (*StaffServiceImpl, *mockRepo, *mockAudit) {
	repo := newMockRepo()
	aud := &mockAudit{}
	svc := NewStaffService(repo, access.New(access.Policy{}), aud).(*StaffServiceImpl)
	return svc, repo, aud
}

func TestCreateStaff(t *testing.T) {
	svc, _, aud := newTestService()
	ctx := context.Background()

	s, err := svc.CreateStaff(ctx, CreateStaffRequest{
		Username: "kim", Password: "pw1234", Name: "김코치", Role: "피트니스", Position: "트레이너",
	})
	if err != nil {
		t.Fatalf("CreateStaff() error = %v", err)
	}
	if s.Role != access.RoleFitness || s.Position != access.PositionTrainer {
		t.Errorf("role/position = %s/%s", s.Role, s.Position)
	}
	if s.Department != "fitness" {
		t.Errorf("Department = %q, want default fitness", s.Department)
	}
	if s.Password == "pw1234" || !utils.CheckPassword(s.Password, "pw1234") {
		t.Errorf("password must be stored as a bcrypt hash")
	}
	if len(aud.actions) != 1 || aud.actions[0] != common_models.AuditActionCreate {
		t.Errorf("audit actions = %v", aud.actions)
	}

	_, err = svc.CreateStaff(ctx, CreateStaffRequest{Username: "kim", Password: "x", Role: "golf"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username error = %v, want ErrUsernameTaken", err)
	}
}

func TestCreateStaffValidation(t *testing.T) {
	svc, _, _ := newTestService()
	tests := []struct {
		name string
		req  CreateStaffRequest
		want error
	}{
		{"missing password", CreateStaffRequest{Username: "a", Role: "golf"}, ErrMissingFields},
		{"unknown role", CreateStaffRequest{Username: "a", Password: "p", Role: "janitor"}, ErrInvalidRole},
		{"unknown position", CreateStaffRequest{Username: "a", Password: "p", Role: "golf", Position: "코치"}, ErrInvalidPosition},
		{"unknown override", CreateStaffRequest{Username: "a", Password: "p", Role: "golf", Overrides: []string{"lockers.reset"}}, ErrInvalidPermission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateStaff(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateStaffRoleImmutable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	s, _ := svc.CreateStaff(ctx, CreateStaffRequest{Username: "lee", Password: "p", Role: "pilates"})
	admin := &access.Subject{ID: "admin", Role: access.RoleAdmin}

	role := "golf"
	if _, err := svc.UpdateStaff(ctx, admin, s.ID.Hex(), UpdateStaffRequest{Role: &role}); !errors.Is(err, ErrRoleImmutable) {
		t.Errorf("role change error = %v, want ErrRoleImmutable", err)
	}

	same := "pilates"
	name := "이선생"
	updated, err := svc.UpdateStaff(ctx, admin, s.ID.Hex(), UpdateStaffRequest{Role: &same, Name: &name})
	if err != nil {
		t.Fatalf("UpdateStaff() error = %v", err)
	}
	if updated.Name != name || updated.Role != access.RolePilates {
		t.Errorf("unexpected update result %+v", updated)
	}
}

func TestListStaffFiltersByDepartment(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, _ = svc.CreateStaff(ctx, CreateStaffRequest{Username: "f1", Password: "p", Role: "fitness"})
	_, _ = svc.CreateStaff(ctx, CreateStaffRequest{Username: "f2", Password: "p", Role: "fitness"})
	_, _ = svc.CreateStaff(ctx, CreateStaffRequest{Username: "g1", Password: "p", Role: "golf"})

	viewer := &access.Subject{ID: "v", Role: access.RoleFitness, Department: "fitness"}
	visible, err := svc.ListStaff(ctx, viewer, nil)
	if err != nil {
		t.Fatalf("ListStaff() error = %v", err)
	}
	if len(visible) != 2 {
		t.Errorf("fitness viewer sees %d staff, want 2", len(visible))
	}

	admin := &access.Subject{ID: "a", Role: access.RoleAdmin}
	all, _ := svc.ListStaff(ctx, admin, nil)
	if len(all) != 3 {
		t.Errorf("admin sees %d staff, want 3", len(all))
	}
}

func TestGetStaffHidesOtherDepartments(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	g, _ := svc.CreateStaff(ctx, CreateStaffRequest{Username: "g1", Password: "p", Role: "golf"})

	viewer := &access.Subject{ID: "v", Role: access.RoleFitness, Department: "fitness"}
	if _, err := svc.GetStaff(ctx, viewer, g.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetStaff() error = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteStaff(ctx, viewer, g.ID.Hex()); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteStaff() error = %v, want ErrForbidden", err)
	}
}

func TestSetOverrides(t *testing.T) {
	svc, repo, aud := newTestService()
	ctx := context.Background()
	s, _ := svc.CreateStaff(ctx, CreateStaffRequest{Username: "p1", Password: "p", Role: "pilates"})

	updated, err := svc.SetOverrides(ctx, s.ID.Hex(), []string{"sales.create", "sales.create", " tasks.assign "})
	if err != nil {
		t.Fatalf("SetOverrides() error = %v", err)
	}
	want := []access.Permission{access.PermSalesCreate, access.PermTasksAssign}
	if len(updated.Overrides) != len(want) {
		t.Fatalf("Overrides = %v, want %v", updated.Overrides, want)
	}
	for i := range want {
		if updated.Overrides[i] != want[i] {
			t.Errorf("Overrides[%d] = %s, want %s", i, updated.Overrides[i], want[i])
		}
	}
	if got := repo.byID[s.ID.Hex()].Subject(); !access.Default.HasPermission(got, access.PermSalesCreate) {
		t.Errorf("stored override not effective in subject")
	}
	if aud.actions[len(aud.actions)-1] != common_models.AuditActionPermissions {
		t.Errorf("last audit action = %s", aud.actions[len(aud.actions)-1])
	}

	if _, err := svc.SetOverrides(ctx, s.ID.Hex(), []string{"nope"}); !errors.Is(err, ErrInvalidPermission) {
		t.Errorf("invalid override error = %v", err)
	}
}
