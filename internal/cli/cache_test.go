package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kklayout/pkg/graph"
	"github.com/matzehuels/kklayout/pkg/ugraph"
)

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	_ = filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestCachePathCommand(t *testing.T) {
	cacheHome := isolate(t)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if want := filepath.Join(cacheHome, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	out, err = execute(t, "--cache", "redis://localhost:6379/0", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != "redis://localhost:6379/0" {
		t.Errorf("cache path = %q, want the --cache URL", out)
	}
}

func TestCacheClearCommand(t *testing.T) {
	cacheHome := isolate(t)
	in := writeGraph(t, graph.FromUGraph(ugraph.Ring(5), nil, nil))
	out := filepath.Join(t.TempDir(), "out.json")

	if _, err := execute(t, "layout", in, "-o", out); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	dir := filepath.Join(cacheHome, appName)
	if countFiles(t, dir) == 0 {
		t.Fatal("layout should have written a cache entry")
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("%d cache files left after clear, want 0", n)
	}
}

func TestCacheClearRejectsUnknownScheme(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "--cache", "ftp://example.com", "cache", "clear"); err == nil {
		t.Error("cache clear with ftp:// should fail")
	}
}
