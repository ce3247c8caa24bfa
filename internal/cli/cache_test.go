package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg := config.Default()
	cfg.Cache.Dir = ""
	dir, err := fileCacheDir(cfg)
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("fileCacheDir() = %q, should end with %q", dir, appName)
	}

	cfg.Cache.Dir = "/tmp/custom"
	if dir, _ := fileCacheDir(cfg); dir != "/tmp/custom" {
		t.Errorf("fileCacheDir() = %q, want /tmp/custom", dir)
	}
}

func TestFileCacheDirRemoteBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = cache.BackendRedis
	if _, err := fileCacheDir(cfg); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("fileCacheDir(redis) error = %v, want UNSUPPORTED", err)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	cfg.Cache.Dir = dir
	if err := config.Save(cfg, cfgPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ab", "entry.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--config", cfgPath, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ab", "entry.json")); !os.IsNotExist(err) {
		t.Error("cache entry still exists after clear")
	}

	out, err := execute(t, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}
}
