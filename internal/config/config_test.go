package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: mechshop
  environment: development
database:
  path: "test.db"
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
rate_limit:
  rps: 5
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	t.Setenv("TEST_JWT_SECRET", "expanded-secret")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Auth.JWTSecret != "expanded-secret" {
		t.Errorf("expected env-expanded jwt secret, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.RateLimit.RPS != 5 {
		t.Errorf("expected rps 5, got %v", cfg.RateLimit.RPS)
	}

	// Defaults fill everything the file omits.
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTLHours != 24 {
		t.Errorf("expected default token ttl 24, got %d", cfg.Auth.TokenTTLHours)
	}
	if cfg.Cache.TTLSeconds != 300 {
		t.Errorf("expected default cache ttl 300, got %d", cfg.Cache.TTLSeconds)
	}
	if !cfg.RequireCustomerAuthEnabled() {
		t.Error("expected customer auth to default to required")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				App:      AppConfig{Environment: EnvDevelopment},
				Database: DatabaseConfig{Path: "shop.db"},
				Auth:     AuthConfig{JWTSecret: "secret"},
			},
			wantErr: false,
		},
		{
			name: "missing jwt secret",
			cfg: Config{
				App:      AppConfig{Environment: EnvProduction},
				Database: DatabaseConfig{Path: "shop.db"},
			},
			wantErr: true,
		},
		{
			name: "testing env allows empty secret",
			cfg: Config{
				App:      AppConfig{Environment: EnvTesting},
				Database: DatabaseConfig{Path: ":memory:"},
			},
			wantErr: false,
		},
		{
			name: "missing database path",
			cfg: Config{
				App:  AppConfig{Environment: EnvDevelopment},
				Auth: AuthConfig{JWTSecret: "secret"},
			},
			wantErr: true,
		},
		{
			name: "unknown environment",
			cfg: Config{
				App:      AppConfig{Environment: "staging"},
				Database: DatabaseConfig{Path: "shop.db"},
				Auth:     AuthConfig{JWTSecret: "secret"},
			},
			wantErr: true,
		},
		{
			name: "negative rps",
			cfg: Config{
				App:       AppConfig{Environment: EnvDevelopment},
				Database:  DatabaseConfig{Path: "shop.db"},
				Auth:      AuthConfig{JWTSecret: "secret"},
				RateLimit: RateLimitConfig{RPS: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireCustomerAuthOverride(t *testing.T) {
	off := false
	cfg := Config{Auth: AuthConfig{RequireCustomerAuth: &off}}
	if cfg.RequireCustomerAuthEnabled() {
		t.Error("expected customer auth to be disabled")
	}
}
