package watcher_test

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"

	"logwatch/internal/testsupport"
	"logwatch/internal/watcher"
)

func writeNumbered(t *testing.T, path string, count int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		testsupport.AppendString(t, path, fmt.Sprintf("line %d\n", i))
	}
}

func numbered(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("line %d", i))
	}
	return out
}

func TestLastLinesReturnsMostRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writeNumbered(t, path, 15)
	w := watcher.New(path, watcher.Options{})

	if got := w.LastLines(10); !reflect.DeepEqual(got, numbered(6, 15)) {
		t.Fatalf("LastLines(10) = %#v", got)
	}
	if got := w.LastLines(20); !reflect.DeepEqual(got, numbered(1, 15)) {
		t.Fatalf("LastLines(20) = %#v", got)
	}
	if got := w.LastLines(1); !reflect.DeepEqual(got, []string{"line 15"}) {
		t.Fatalf("LastLines(1) = %#v", got)
	}
}

func TestLastLinesNonPositiveIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writeNumbered(t, path, 3)
	w := watcher.New(path, watcher.Options{})

	for _, n := range []int{0, -1} {
		got := w.LastLines(n)
		if got == nil || len(got) != 0 {
			t.Fatalf("LastLines(%d) = %#v, want empty slice", n, got)
		}
	}
}

func TestLastLinesMissingFile(t *testing.T) {
	w := watcher.New(filepath.Join(t.TempDir(), "absent.log"), watcher.Options{})
	got := w.LastLines(5)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestLastLinesSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	testsupport.AppendString(t, path, "first\n\n  \nsecond\r\n\nthird")

	got, err := watcher.ReadLastLines(path, 2)
	if err != nil {
		t.Fatalf("ReadLastLines: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"second", "third"}) {
		t.Fatalf("unexpected lines: %#v", got)
	}
}

func TestLastLinesDecodesUTF16(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	testsupport.AppendBytes(t, path, []byte{0xFE, 0xFF})
	testsupport.AppendBytes(t, path, testsupport.EncodeUTF16(t, "alpha\nbeta\ngamma\n", unicode.BigEndian))

	got, err := watcher.ReadLastLines(path, 2)
	if err != nil {
		t.Fatalf("ReadLastLines: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"beta", "gamma"}) {
		t.Fatalf("unexpected lines: %#v", got)
	}
}

func TestLastLinesDoesNotDisturbFollower(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writeNumbered(t, path, 3)
	w := startWatcher(t, path)
	offset := w.Offset()

	if got := w.LastLines(2); !reflect.DeepEqual(got, numbered(2, 3)) {
		t.Fatalf("unexpected replay: %#v", got)
	}
	if w.Offset() != offset {
		t.Fatalf("replay moved follower offset: %d -> %d", offset, w.Offset())
	}
}

func TestLastLinesHandlesVeryLongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	long := strings.Repeat("x", 2<<20)
	testsupport.AppendString(t, path, long+"\na\nb\nc\n")
	w := watcher.New(path, watcher.Options{})

	if got := w.LastLines(3); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("LastLines(3) = %#v", got)
	}
	got := w.LastLines(4)
	if len(got) != 4 || got[0] != long {
		t.Fatalf("expected the long line first, got %d lines", len(got))
	}
}

func TestLastLinesKeepsUnterminatedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	testsupport.AppendString(t, path, "first\nsecond")

	got, err := watcher.ReadLastLines(path, 5)
	if err != nil {
		t.Fatalf("ReadLastLines: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Fatalf("unexpected lines: %#v", got)
	}
}

func TestLastLinesReadFailureIsEmpty(t *testing.T) {
	dir := t.TempDir()

	if _, err := watcher.ReadLastLines(dir, 3); err == nil {
		t.Fatal("expected an error reading a directory")
	}
	got := watcher.New(dir, watcher.Options{}).LastLines(3)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice on read failure, got %#v", got)
	}
}
