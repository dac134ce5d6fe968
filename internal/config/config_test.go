package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SKIP_AUTH", "TRUE")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	t.Setenv("ACCESS_ALLOW_MISSING_DEPARTMENT", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if !cfg.SkipAuth {
		t.Errorf("SkipAuth should accept TRUE")
	}
	if cfg.JWTTTLHours != 12 {
		t.Errorf("JWTTTLHours = %d, want fallback 12", cfg.JWTTTLHours)
	}
	if cfg.AllowMissingDepartment {
		t.Errorf("AllowMissingDepartment should be false")
	}
	if cfg.DigestSchedule == "" {
		t.Errorf("DigestSchedule should have a default")
	}
}

func TestIsProduction(t *testing.T) {
	if (&Config{Environment: "development"}).IsProduction() {
		t.Errorf("development reported as production")
	}
	if !(&Config{Environment: "production"}).IsProduction() {
		t.Errorf("production not detected")
	}
}
