package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePaths_DefaultLayout(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project/>\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(root, "src", "test", "java")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Scan: Scan{Paths: []string{"src/test/java"}}}
	applyDefaults(cfg)

	got, err := ResolvePaths(cfg, root)
	if err != nil {
		t.Fatal(err)
	}
	if got.ProjectRoot != filepath.Clean(root) {
		t.Fatalf("expected project root %q, got %q", root, got.ProjectRoot)
	}
	if got.StatePath != filepath.Join(root, ".junitmig", "state.db") {
		t.Fatalf("unexpected state path: %q", got.StatePath)
	}
	if len(got.ScanPaths) != 1 || got.ScanPaths[0] != src {
		t.Fatalf("unexpected scan paths: %v", got.ScanPaths)
	}
	if got.SARIFPath != "" {
		t.Fatalf("expected no SARIF path, got %q", got.SARIFPath)
	}
}

func TestResolvePaths_AbsoluteOverrides(t *testing.T) {
	root := t.TempDir()
	statePath := filepath.Join(root, "custom", "state.db")
	cfg := &Config{
		State:  State{Path: statePath},
		Output: Output{SARIF: "out/report.sarif"},
	}
	applyDefaults(cfg)

	got, err := ResolvePaths(cfg, root)
	if err != nil {
		t.Fatal(err)
	}
	if got.StatePath != statePath {
		t.Fatalf("unexpected state path: %q", got.StatePath)
	}
	if got.SARIFPath != filepath.Join(root, "out", "report.sarif") {
		t.Fatalf("unexpected SARIF path: %q", got.SARIFPath)
	}
}

func TestResolvePaths_EmptyCwd(t *testing.T) {
	if _, err := ResolvePaths(DefaultConfig(), " "); err == nil {
		t.Fatal("expected error for empty cwd")
	}
}

func TestDetectProjectRoot_WalksUp(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "build.gradle"), []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := DetectProjectRoot([]string{sub})
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Clean(root) {
		t.Fatalf("expected %q, got %q", root, got)
	}
}
