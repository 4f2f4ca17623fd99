package retention

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/psantana5/alertrun/internal/runlog"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPruneRemovesOldRunLogs(t *testing.T) {
	dir := t.TempDir()
	old := writeAged(t, dir, "alert_processing_20240101_000000.log", 40*24*time.Hour)
	fresh := writeAged(t, dir, "alert_processing_20240601_000000.log", 24*time.Hour)

	stats, err := Prune(dir, 30, time.Now())
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if stats.Removed != 1 || stats.Kept != 1 {
		t.Errorf("stats = %+v, want 1 removed / 1 kept", stats)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old run log should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh run log should be kept")
	}
}

func TestPruneNeverTouchesErrorLog(t *testing.T) {
	dir := t.TempDir()
	errLog := writeAged(t, dir, runlog.ErrorFileName, 400*24*time.Hour)
	other := writeAged(t, dir, "notes.txt", 400*24*time.Hour)

	if _, err := Prune(dir, 30, time.Now()); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if _, err := os.Stat(errLog); err != nil {
		t.Error("error log must survive pruning regardless of age")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("unrelated files must survive pruning")
	}
}

func TestPruneDisabled(t *testing.T) {
	dir := t.TempDir()
	old := writeAged(t, dir, "alert_processing_20240101_000000.log", 400*24*time.Hour)

	stats, err := Prune(dir, 0, time.Now())
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if stats.Removed != 0 {
		t.Errorf("disabled pruning removed %d files", stats.Removed)
	}
	if _, err := os.Stat(old); err != nil {
		t.Error("disabled pruning must keep everything")
	}
}
