package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

// AppendString appends content to path, creating the file and its parent
// directories when needed.
func AppendString(t testing.TB, path, content string) {
	t.Helper()
	AppendBytes(t, path, []byte(content))
}

// AppendBytes appends raw bytes to path, creating it when needed.
func AppendBytes(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		t.Fatalf("append %s: %v", path, err)
	}
}

// EncodeUTF16 encodes s as UTF-16 without a byte-order mark.
func EncodeUTF16(t testing.TB, s string, order unicode.Endianness) []byte {
	t.Helper()
	out, err := unicode.UTF16(order, unicode.IgnoreBOM).NewEncoder().String(s)
	if err != nil {
		t.Fatalf("encode utf-16: %v", err)
	}
	return []byte(out)
}
