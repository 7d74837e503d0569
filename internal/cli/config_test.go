package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bloomlab/bloom/pkg/analytics"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Point XDG at an empty dir so a developer's real config can't leak in.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Analysis.Damping != analytics.DefaultDamping {
		t.Errorf("damping = %v, want %v", cfg.Analysis.Damping, analytics.DefaultDamping)
	}
	if cfg.Analysis.Iterations != analytics.DefaultIterations {
		t.Errorf("iterations = %d, want %d", cfg.Analysis.Iterations, analytics.DefaultIterations)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bloom.toml")
	content := `
[analysis]
damping = 0.9
iterations = 50

[cache]
backend = "redis"
addr = "localhost:6379"

[server]
addr = ":9999"
watch = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Analysis.Damping != 0.9 {
		t.Errorf("damping = %v, want 0.9", cfg.Analysis.Damping)
	}
	if cfg.Analysis.Iterations != 50 {
		t.Errorf("iterations = %d, want 50", cfg.Analysis.Iterations)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Addr != "localhost:6379" {
		t.Errorf("cache = %+v, want redis backend", cfg.Cache)
	}
	if cfg.Server.Addr != ":9999" || !cfg.Server.Watch {
		t.Errorf("server = %+v, want :9999 with watch", cfg.Server)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bloom.toml")
	if err := os.WriteFile(path, []byte("[analysis]\niterations = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Analysis.Iterations != 5 {
		t.Errorf("iterations = %d, want 5", cfg.Analysis.Iterations)
	}
	if cfg.Analysis.Damping != analytics.DefaultDamping {
		t.Errorf("damping = %v, want default", cfg.Analysis.Damping)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestCacheDir_Default(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDir_XDGOverride(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/bloom-xdg")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if want := filepath.Join("/tmp/bloom-xdg", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bloom.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}
