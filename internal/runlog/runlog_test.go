package runlog

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

var stampedLine = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] `)

func TestOpenCreatesTimestampedLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local)

	sink, err := Open(dir, start)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sink.Close()

	want := filepath.Join(dir, "alert_processing_20240102_150405.log")
	if sink.RunPath() != want {
		t.Errorf("RunPath = %s, want %s", sink.RunPath(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("per-run log not created: %v", err)
	}
}

func TestBannerFormat(t *testing.T) {
	dir := t.TempDir()
	sink, err := Open(dir, time.Now())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := sink.Banner("/opt/alerts"); err != nil {
		t.Fatalf("Banner failed: %v", err)
	}
	sink.Close()

	lines := readLines(t, sink.RunPath())
	if len(lines) != 4 {
		t.Fatalf("banner has %d lines, want 4: %q", len(lines), lines)
	}

	// Delimiter lines are exactly 42 '=' characters.
	for _, i := range []int{0, 3} {
		if lines[i] != strings.Repeat("=", 42) {
			t.Errorf("line %d = %q, want 42 '=' characters", i, lines[i])
		}
	}
	for _, i := range []int{1, 2} {
		if !stampedLine.MatchString(lines[i]) {
			t.Errorf("line %d = %q, want bracketed timestamp prefix", i, lines[i])
		}
	}
	if !strings.Contains(lines[2], "Working directory: /opt/alerts") {
		t.Errorf("line 2 = %q, want working directory", lines[2])
	}
}

func TestSuccessIsFinalLine(t *testing.T) {
	dir := t.TempDir()
	sink, err := Open(dir, time.Now())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	sink.Banner("/opt/alerts")
	sink.Line("processed %d alerts", 3)
	if err := sink.Success(); err != nil {
		t.Fatalf("Success failed: %v", err)
	}
	sink.Close()

	lines := readLines(t, sink.RunPath())
	last := lines[len(lines)-1]
	if !strings.Contains(last, "Alert processing completed successfully") {
		t.Errorf("final line = %q, want completion message", last)
	}
	if !stampedLine.MatchString(last) {
		t.Errorf("final line = %q, want bracketed timestamp prefix", last)
	}
}

func TestErrorDuplicatesToErrorLog(t *testing.T) {
	dir := t.TempDir()
	sink, err := Open(dir, time.Now())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := sink.Error("%s not found in PATH", "python3"); err != nil {
		t.Fatalf("Error failed: %v", err)
	}
	sink.Close()

	runLines := readLines(t, sink.RunPath())
	if len(runLines) != 1 || !strings.Contains(runLines[0], "python3 not found") {
		t.Errorf("run log = %q, want python3 not found line", runLines)
	}

	errLines := readLines(t, filepath.Join(dir, ErrorFileName))
	if len(errLines) != 1 {
		t.Fatalf("error log has %d lines, want 1", len(errLines))
	}
	if !strings.Contains(errLines[0], "python3 not found") {
		t.Errorf("error log line = %q, want python3 not found", errLines[0])
	}
	if !stampedLine.MatchString(errLines[0]) {
		t.Errorf("error log line = %q, want bracketed timestamp prefix", errLines[0])
	}
}

func TestListRuns(t *testing.T) {
	dir := t.TempDir()

	names := []string{
		"alert_processing_20240101_000000.log",
		"alert_processing_20240102_000000.log",
	}
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mtime := time.Now().Add(time.Duration(i-10) * time.Hour)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
	// Neither the error log nor unrelated files are run logs.
	os.WriteFile(filepath.Join(dir, ErrorFileName), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	runs, err := ListRuns(dir)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns returned %d entries, want 2", len(runs))
	}
	if runs[0].Name != names[1] {
		t.Errorf("newest run = %s, want %s", runs[0].Name, names[1])
	}
}

func TestListRunsMissingDir(t *testing.T) {
	runs, err := ListRuns(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("ListRuns on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("ListRuns on missing dir returned %d entries, want 0", len(runs))
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
