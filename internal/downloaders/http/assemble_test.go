package splithttp

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeParts(t *testing.T, dir string, parts [][]byte) []string {
	t.Helper()
	paths := make([]string, len(parts))
	for i, part := range parts {
		paths[i] = filepath.Join(dir, fmt.Sprintf("out.bin.part%d", i+1))
		if err := os.WriteFile(paths[i], part, 0644); err != nil {
			t.Fatalf("writing part: %v", err)
		}
	}
	return paths
}

func TestAssembleParts(t *testing.T) {
	dir := t.TempDir()
	parts := [][]byte{[]byte("hello "), []byte("segmented "), []byte("world")}
	paths := writeParts(t, dir, parts)
	outputPath := filepath.Join(dir, "out.bin")

	want := bytes.Join(parts, nil)
	if err := AssembleParts(outputPath, paths, int64(len(want))); err != nil {
		t.Fatalf("AssembleParts: %v", err)
	}
	got, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("output %q, want %q", got, want)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("part %s should be removed after assembly", path)
		}
	}
}

func TestAssemblePartsMissingPart(t *testing.T) {
	dir := t.TempDir()
	paths := writeParts(t, dir, [][]byte{[]byte("abc")})
	paths = append(paths, filepath.Join(dir, "out.bin.part9"))
	outputPath := filepath.Join(dir, "out.bin")

	if err := AssembleParts(outputPath, paths, 6); err == nil {
		t.Fatal("expected error for unreadable part")
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("failed assembly must not leave a truncated output file")
	}
}

func TestAssemblePartsSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	paths := writeParts(t, dir, [][]byte{[]byte("abc"), []byte("def")})
	outputPath := filepath.Join(dir, "out.bin")

	if err := AssembleParts(outputPath, paths, 100); err == nil {
		t.Fatal("expected size mismatch error")
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("failed assembly must not leave a truncated output file")
	}
}
