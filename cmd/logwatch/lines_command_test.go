package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"logwatch/internal/testsupport"
)

func TestLinesCommandPrintsRecentLines(t *testing.T) {
	env := setupCLITestEnv(t)
	for i := 1; i <= 12; i++ {
		testsupport.AppendString(t, env.cfg.Paths.WatchFile, fmt.Sprintf("line %d\n\n", i))
	}

	out, _, err := runCLI(t, []string{"lines"}, env.configPath)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	got := strings.Split(strings.TrimSpace(out), "\n")
	if len(got) != 10 || got[0] != "line 3" || got[9] != "line 12" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, _, err = runCLI(t, []string{"lines", "-n", "2", "--table"}, env.configPath)
	if err != nil {
		t.Fatalf("lines --table: %v", err)
	}
	requireContains(t, out, "line 11")
	requireContains(t, out, "line 12")
	requireContains(t, out, "╭")
	if strings.Contains(out, "line 10") {
		t.Fatalf("unexpected extra line: %q", out)
	}
}

func TestLinesCommandFileOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	other := filepath.Join(t.TempDir(), "other.log")
	testsupport.AppendString(t, other, "elsewhere\n")

	out, _, err := runCLI(t, []string{"lines", "--file", other}, env.configPath)
	if err != nil {
		t.Fatalf("lines --file: %v", err)
	}
	if strings.TrimSpace(out) != "elsewhere" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, _, err = runCLI(t, []string{"lines", "--file", filepath.Join(t.TempDir(), "missing.log"), "--table"}, env.configPath)
	if err != nil {
		t.Fatalf("lines on missing file: %v", err)
	}
	requireContains(t, out, "No lines")
}
