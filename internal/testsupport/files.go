package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ManifestHeader is the default CSV header with the group key first.
const ManifestHeader = "Arquivo,COMEÇO DO CORTE,FINAL DO CORTE"

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteManifest writes ManifestHeader followed by rows to path.
func WriteManifest(t testing.TB, path string, rows ...string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	content := ManifestHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest %s: %v", path, err)
	}
}

// TouchSources creates small placeholder media files in dir.
func TouchSources(t testing.TB, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		WriteFile(t, filepath.Join(dir, name), 16)
	}
}
