package host

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "release.tar.gz")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)

	for name, content := range entries {
		if err := tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(content)),
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := file.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTarGzExtract(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"prometheus-2.53.1.linux-amd64/prometheus": "binary",
		"prometheus-2.53.1.linux-amd64/promtool":   "tool",
	})

	dest := t.TempDir()
	if err := NewTarGzExtractor().Extract(context.Background(), archive, dest); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "prometheus-2.53.1.linux-amd64", "prometheus"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "binary" {
		t.Errorf("unexpected content: %q", data)
	}

	info, err := os.Stat(filepath.Join(dest, "prometheus-2.53.1.linux-amd64", "promtool"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("expected extracted mode 0755, got %v", info.Mode().Perm())
	}
}

func TestTarGzExtractRejectsTraversal(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"../escape": "bad",
	})

	err := NewTarGzExtractor().Extract(context.Background(), archive, t.TempDir())
	if err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
}

func TestTarGzExtractMissingArchive(t *testing.T) {
	err := NewTarGzExtractor().Extract(context.Background(),
		filepath.Join(t.TempDir(), "nope.tar.gz"), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestTarGzExtractNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.tar.gz")
	if err := os.WriteFile(path, []byte("not a gzip"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewTarGzExtractor().Extract(context.Background(), path, t.TempDir())
	if err == nil {
		t.Fatal("expected error for non-gzip input")
	}
}
