package config_test

import (
	"os"
	"testing"

	"github.com/km-arc/go-container/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	t.Setenv(key, val) // automatically restored after test
}

// clearEnv blanks every variable Load reads; env() treats "" as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT", "DEBUG_ROUTES",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		setEnv(t, key, "")
	}
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "GoContainer"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	if !cfg.App.Debug {
		t.Error("expected App.Debug to default to true")
	}
	if !cfg.App.DebugRoutes {
		t.Error("expected App.DebugRoutes to default to true")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	setEnv(t, "APP_NAME", "MyApp")
	setEnv(t, "APP_ENV", "production")
	setEnv(t, "APP_PORT", "9000")
	setEnv(t, "LOG_LEVEL", "DEBUG")

	cfg := config.Load("testdata/empty.env")

	if cfg.App.Name != "MyApp" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "MyApp")
	}
	if cfg.App.Env != "production" {
		t.Errorf("App.Env: got %q want %q", cfg.App.Env, "production")
	}
	if cfg.App.Port != "9000" {
		t.Errorf("App.Port: got %q want %q", cfg.App.Port, "9000")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q want %q", cfg.Log.Level, "debug")
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	// godotenv only fills variables that are absent, so unset rather than blank
	for _, key := range []string{"APP_NAME", "LOG_FORMAT", "DEBUG_ROUTES"} {
		prev, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, prev)
			} else {
				os.Unsetenv(key)
			}
		})
	}

	cfg := config.Load("testdata/app.env")

	if cfg.App.Name != "FromFile" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "FromFile")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format: got %q want %q", cfg.Log.Format, "json")
	}
	if cfg.App.DebugRoutes {
		t.Error("expected App.DebugRoutes to be false")
	}
}

func TestLoad_AppDebugFalse(t *testing.T) {
	setEnv(t, "APP_DEBUG", "false")
	cfg := config.Load("testdata/empty.env")
	if cfg.App.Debug {
		t.Error("expected App.Debug to be false")
	}
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet_ReturnsValue(t *testing.T) {
	setEnv(t, "CUSTOM_KEY", "hello")
	if got := config.Get("CUSTOM_KEY", "default"); got != "hello" {
		t.Errorf("got %q want %q", got, "hello")
	}
}

func TestGet_ReturnsFallback(t *testing.T) {
	setEnv(t, "MISSING_KEY", "")
	if got := config.Get("MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q want %q", got, "fallback")
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		val  string
		want int
	}{
		{"42", 42},
		{"notanint", 99},
		{"", 99},
	}
	for _, tt := range tests {
		setEnv(t, "SOME_INT", tt.val)
		if got := config.GetInt("SOME_INT", 99); got != tt.want {
			t.Errorf("GetInt(%q): got %d want %d", tt.val, got, tt.want)
		}
	}
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		setEnv(t, "BOOL_KEY", val)
		if !config.GetBool("BOOL_KEY", false) {
			t.Errorf("expected true for %q", val)
		}
	}

	setEnv(t, "BOOL_KEY", "notabool")
	if !config.GetBool("BOOL_KEY", true) {
		t.Error("expected fallback true")
	}
}
