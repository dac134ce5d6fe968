package utils

import (
	"slices"
	"testing"
	"time"

	"go-fitstaff/internal/access"
)

func TestTokenRoundTripKeepsSubject(t *testing.T) {
	SetSecret("test-secret")
	in := &access.Subject{
		ID:         "staff-1",
		Role:       access.RoleFitness,
		Position:   access.PositionTeamLead,
		Department: "fitness",
		Overrides:  []access.Permission{access.PermReportsExport},
	}

	token, claims, err := GenerateToken(in, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if claims.ID == "" {
		t.Errorf("token id should be set")
	}

	parsed, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	out := parsed.Subject()
	if out.ID != in.ID || out.Role != in.Role || out.Position != in.Position || out.Department != in.Department {
		t.Errorf("subject changed: got %+v, want %+v", out, in)
	}
	if !slices.Equal(out.Overrides, in.Overrides) {
		t.Errorf("overrides = %v, want %v", out.Overrides, in.Overrides)
	}
	if parsed.RemainingTTL() <= 0 {
		t.Errorf("token should not be expired")
	}
}

func TestValidateTokenRejects(t *testing.T) {
	SetSecret("one")
	token, _, err := GenerateToken(&access.Subject{ID: "x", Role: access.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	SetSecret("two")
	if _, err := ValidateToken(token); err == nil {
		t.Errorf("token signed with another secret should be rejected")
	}

	SetSecret("one")
	expired, _, _ := GenerateToken(&access.Subject{ID: "x", Role: access.RoleAdmin}, -time.Minute)
	if _, err := ValidateToken(expired); err == nil {
		t.Errorf("expired token should be rejected")
	}
}

func TestGenerateTokenRequiresID(t *testing.T) {
	if _, _, err := GenerateToken(&access.Subject{Role: access.RoleAdmin}, time.Hour); err == nil {
		t.Errorf("subject without id should be rejected")
	}
}

func TestSubjectUnknownRole(t *testing.T) {
	c := &SessionClaims{StaffID: "x", Role: "janitor"}
	if c.Subject().Role != "" {
		t.Errorf("unknown role should map to empty role")
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("Weekly Reports 2026-10-14"); got != "weekly-reports-2026-10-14" {
		t.Errorf("Slugify() = %q", got)
	}
}
