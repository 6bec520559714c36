package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"HOST", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT", "ENVIRONMENT", "STATIC_DIR",
	"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
	"CACHE_ENABLED", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
	"REDIS_MIN_IDLE_CONNS", "REDIS_DIAL_TIMEOUT", "REDIS_READ_TIMEOUT", "REDIS_WRITE_TIMEOUT",
	"CACHE_LIST_TTL", "CACHE_ENTRY_TTL",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "RATE_LIMIT_CLEANUP",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		os.Unsetenv(k)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with default config, got: %v", err)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Expected default port '8080', got %s", config.Server.Port)
	}
	if config.Server.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %s", config.Server.Environment)
	}
	if config.Database.SSLMode != "disable" {
		t.Errorf("Expected default ssl mode 'disable', got %s", config.Database.SSLMode)
	}
	if config.Database.MaxOpenConns != 25 {
		t.Errorf("Expected default max open conns 25, got %d", config.Database.MaxOpenConns)
	}
	if config.Cache.Enabled {
		t.Error("Expected cache to be disabled by default")
	}
	if !config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be enabled by default")
	}
	if config.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown timeout 10s, got %v", config.Server.ShutdownTimeout)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("PORT", "9090")
	os.Setenv("DB_SSL_MODE", "require")
	os.Setenv("CACHE_ENABLED", "true")
	os.Setenv("READ_TIMEOUT", "15s")
	defer clearConfigEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.Server.Port != "9090" {
		t.Errorf("Expected port '9090', got %s", config.Server.Port)
	}
	if config.Database.SSLMode != "require" {
		t.Errorf("Expected ssl mode 'require', got %s", config.Database.SSLMode)
	}
	if !config.Cache.Enabled {
		t.Error("Expected cache to be enabled")
	}
	if config.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Expected read timeout 15s, got %v", config.Server.ReadTimeout)
	}
}

func TestLoadConfig_InvalidSSLMode(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("DB_SSL_MODE", "yolo")
	defer clearConfigEnv(t)

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for unknown ssl mode")
	}
}

func TestLoadConfig_ProductionRequiresCredentials(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("ENVIRONMENT", "production")
	defer clearConfigEnv(t)

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error in production without database credentials")
	}

	os.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/todoify")
	if _, err := LoadConfig(); err != nil {
		t.Errorf("Expected DATABASE_URL to satisfy the production guard, got: %v", err)
	}
}

func TestGetDatabaseDSN_Composed(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("DB_USER", "app")
	os.Setenv("DB_PASSWORD", "secret")
	os.Setenv("DB_NAME", "todos")
	os.Setenv("DB_SSL_MODE", "verify-full")
	defer clearConfigEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := "host=db.internal port=5433 user=app password=secret dbname=todos sslmode=verify-full"
	if got := config.GetDatabaseDSN(); got != want {
		t.Errorf("Expected DSN %q, got %q", want, got)
	}
}

func TestGetDatabaseDSN_URLOverride(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/todoify?sslmode=require")
	defer clearConfigEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := config.GetDatabaseDSN(); got != "postgres://app:secret@db:5432/todoify?sslmode=require" {
		t.Errorf("Expected DATABASE_URL to win, got %q", got)
	}
}

func TestGetServerAddr(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("HOST", "0.0.0.0")
	os.Setenv("PORT", "3000")
	defer clearConfigEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := config.GetServerAddr(); got != "0.0.0.0:3000" {
		t.Errorf("Expected '0.0.0.0:3000', got %q", got)
	}
}

func TestIsProduction(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("ENVIRONMENT", "production")
	os.Setenv("DB_PASSWORD", "secret")
	defer clearConfigEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !config.IsProduction() {
		t.Error("Expected IsProduction to be true")
	}
}
