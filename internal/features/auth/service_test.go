package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-fitstaff/internal/access"
	common_models "go-fitstaff/internal/common/models"
	"go-fitstaff/internal/features/staff"
	"go-fitstaff/internal/session"
	"go-fitstaff/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockStaffRepo struct {
	staff.StaffRepository
	members map[string]*staff.Staff
}

func (m *mockStaffRepo) FindByUsername(ctx context.Context, username string) (*staff.Staff, error) {
	if s, ok := m.members[username]; ok {
		return s, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id string) (*staff.Staff, error) {
	for _, s := range m.members {
		if s.ID.Hex() == id {
			return s, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type mockAudit struct {
	audit []common_models.AuditAction
}

func (m *mockAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.audit = append(m.audit, action)
	return nil
}

func (m *mockAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func newTestAuth(t *testing.T) (*AuthServiceImpl, session.Store, *mockAudit) {
	t.Helper()
	hash, err := utils.HashPassword("secret-pw")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	repo := &mockStaffRepo{members: map[string]*staff.Staff{
		"park": {
			ID: primitive.NewObjectID(), Username: "park", Password: hash,
			Role: access.RoleGolf, Position: access.PositionManager, Department: "golf",
			Overrides: []access.Permission{access.PermSalesView}, Status: staff.StatusActive,
		},
		"gone": {
			ID: primitive.NewObjectID(), Username: "gone", Password: hash,
			Role: access.RoleFitness, Status: staff.StatusInactive,
		},
	}}
	store := session.NewMemoryStore()
	aud := &mockAudit{}
	svc := &AuthServiceImpl{StaffRepo: repo, Sessions: store, AuditService: aud, TTL: time.Hour}
	return svc, store, aud
}

func TestLoginIssuesSubjectSnapshot(t *testing.T) {
	svc, _, aud := newTestAuth(t)

	result, err := svc.Login(context.Background(), "park", "secret-pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	claims, err := utils.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	s := claims.Subject()
	if s.Role != access.RoleGolf || s.Position != access.PositionManager || s.Department != "golf" {
		t.Errorf("unexpected subject %+v", s)
	}
	if !access.Default.HasPermission(s, access.PermSalesView) {
		t.Errorf("override missing from session subject")
	}
	if len(aud.audit) != 1 || aud.audit[0] != common_models.AuditActionLogin {
		t.Errorf("audit = %v", aud.audit)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"unknown user", "nobody", "secret-pw", ErrInvalidCredentials},
		{"wrong password", "park", "nope", ErrInvalidCredentials},
		{"inactive", "gone", "secret-pw", ErrInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.username, tt.password); !errors.Is(err, tt.want) {
				t.Errorf("Login() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "park", "secret-pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, _ := utils.ValidateToken(result.Token)

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	revoked, _ := store.IsRevoked(ctx, claims.ID)
	if !revoked {
		t.Errorf("token should be revoked after logout")
	}

	if err := svc.Logout(ctx, nil); err != nil {
		t.Errorf("Logout(nil) error = %v", err)
	}
}
