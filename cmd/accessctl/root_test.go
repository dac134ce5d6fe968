package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagID, flagRole, flagPosition, flagDepartment, flagOverrides = "", "", "", "", nil
	flagJSON, flagAll = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLevelCommand(t *testing.T) {
	out, err := run(t, "level", "--role", "pilates", "sales", "pass")
	if err != nil {
		t.Fatalf("level failed: %v", err)
	}
	if !strings.Contains(out, "sales") || !strings.Contains(out, "department") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "none") {
		t.Errorf("pass should be none for pilates:\n%s", out)
	}
}

func TestCheckCommandGranted(t *testing.T) {
	out, err := run(t, "check", "--role", "fitness", "--override", "tasks.delete", "tasks.view", "tasks.delete", "--all")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "granted by override") {
		t.Errorf("missing override reason:\n%s", out)
	}
}

func TestUnknownRole(t *testing.T) {
	if _, err := run(t, "level", "--role", "janitor"); err == nil {
		t.Errorf("expected error for unknown role")
	}
}

func TestModifyCommand(t *testing.T) {
	out, err := run(t, "modify", "reports", "--role", "golf", "--id", "g1", "--owner", "g1")
	if err != nil {
		t.Fatalf("modify failed: %v", err)
	}
	if strings.TrimSpace(out) != "yes" {
		t.Errorf("own report should be modifiable, got %q", out)
	}
}

func TestMatrixCommand(t *testing.T) {
	out, err := run(t, "matrix")
	if err != nil {
		t.Fatalf("matrix failed: %v", err)
	}
	if lines := strings.Count(out, "\n"); lines != 6 {
		t.Errorf("expected header plus 5 roles, got %d lines:\n%s", lines, out)
	}
}

func TestCheckCommandDenied(t *testing.T) {
	for _, mode := range [][]string{nil, {"--json"}} {
		args := append([]string{"check", "--role", "golf", "staff.delete"}, mode...)
		out, err := run(t, args...)
		if !errors.Is(err, errDenied) {
			t.Errorf("check %v error = %v, want errDenied", mode, err)
		}
		if out == "" {
			t.Errorf("check %v printed nothing", mode)
		}
	}
}
