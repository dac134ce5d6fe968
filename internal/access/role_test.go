package access

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"admin", RoleAdmin, true},
		{" Reception ", RoleReception, true},
		{"관리자", RoleAdmin, true},
		{"피트니스", RoleFitness, true},
		{"super_admin", RoleAdmin, true},
		{"desk", RoleReception, true},
		{"pt", RoleFitness, true},
		{"", "", false},
		{"janitor", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in     string
		want   Position
		wantOK bool
	}{
		{"팀장", PositionTeamLead, true},
		{"team-lead", PositionTeamLead, true},
		{"Intern", PositionIntern, true},
		{"코치", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePosition(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePosition(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPositionLevels(t *testing.T) {
	if l, _ := PositionIntern.Level(); l != 0 {
		t.Errorf("intern level = %d, want 0", l)
	}
	if l, _ := PositionTeamLead.Level(); l != 5 {
		t.Errorf("team lead level = %d, want 5", l)
	}
	if _, ok := Position("").Level(); ok {
		t.Errorf("empty position should be unknown")
	}
}

func TestDepartmentOf(t *testing.T) {
	if DepartmentOf(RoleAdmin) != "" {
		t.Errorf("admin should have no department")
	}
	if DepartmentOf(RoleGolf) != "golf" {
		t.Errorf("golf department = %q", DepartmentOf(RoleGolf))
	}
}

func TestPermissionParts(t *testing.T) {
	if PermReportsViewAll.Domain() != "reports" || PermReportsViewAll.Action() != "view_all" {
		t.Errorf("unexpected split of %s", PermReportsViewAll)
	}
	if !IsValidPermission(PermOTAssign) {
		t.Errorf("%s should be valid", PermOTAssign)
	}
	if IsValidPermission("lockers.reset") {
		t.Errorf("unknown permission reported valid")
	}
}
