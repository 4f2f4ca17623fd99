package launcher

// The launcher is a fail-fast guard: every precondition failure is
// terminal, nothing is retried, and the entry point's own failures are
// relayed opaquely. It never interprets WHY the entry point failed.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/psantana5/alertrun/internal/metrics"
	"github.com/psantana5/alertrun/internal/retention"
	"github.com/psantana5/alertrun/internal/runlog"
	"github.com/psantana5/alertrun/internal/sysinfo"
	"github.com/psantana5/alertrun/internal/venv"
)

// runLockName is the advisory lock taken in exclusive mode.
const runLockName = ".alertrun.lock"

// Run executes one launch sequence: fix the environment, open the
// per-run log, check preconditions, run the entry point synchronously,
// and relay its exit code. A non-nil error means a precondition failed
// and the entry point was never consulted; the caller exits 1.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	start := time.Now()

	if err := os.Chdir(cfg.ScriptDir); err != nil {
		return nil, fmt.Errorf("cannot enter script directory %s: %w", cfg.ScriptDir, err)
	}
	if err := os.Setenv("PATH", cfg.SearchPath); err != nil {
		return nil, fmt.Errorf("cannot set search path: %w", err)
	}

	logsDir := filepath.Join(cfg.ScriptDir, cfg.LogsDir)
	sink, err := runlog.Open(logsDir, start)
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	if err := sink.Banner(cfg.ScriptDir); err != nil {
		return nil, err
	}

	if cfg.Exclusive {
		lock := flock.New(filepath.Join(logsDir, runLockName))
		held, err := lock.TryLock()
		if err != nil {
			sink.Error("Failed to acquire run lock: %v", err)
			return nil, fmt.Errorf("run lock: %w", err)
		}
		if !held {
			sink.Error("Another alert processing run is in progress")
			return nil, errors.New("another alert processing run is in progress")
		}
		defer lock.Unlock()
	}

	if cfg.SysInfo {
		for _, line := range sysinfo.Collect().Lines() {
			sink.Line("%s", line)
		}
	}

	venvDir := filepath.Join(cfg.ScriptDir, cfg.VenvDir)
	if venv.Detect(venvDir) {
		env, err := venv.Activate(venvDir, cfg.SearchPath)
		if err != nil {
			sink.Error("Failed to activate virtual environment %s: %v", venvDir, err)
			return nil, fmt.Errorf("virtual environment activation: %w", err)
		}
		if err := env.Apply(); err != nil {
			sink.Error("Failed to activate virtual environment %s: %v", venvDir, err)
			return nil, fmt.Errorf("virtual environment activation: %w", err)
		}
		sink.Line("Virtual environment activated: %s", venvDir)
	}

	interpreter, err := exec.LookPath(cfg.Interpreter)
	if err != nil {
		sink.Error("%s not found in PATH", cfg.Interpreter)
		return nil, fmt.Errorf("%s not found in PATH (%s)", cfg.Interpreter, cfg.SearchPath)
	}

	entryPath := filepath.Join(cfg.ScriptDir, cfg.EntryPoint)
	if _, err := os.Stat(entryPath); err != nil {
		sink.Error("%s not found in %s", cfg.EntryPoint, cfg.ScriptDir)
		return nil, fmt.Errorf("entry point %s: %w", entryPath, err)
	}

	result, err := runEntryPoint(ctx, cfg, interpreter, sink)
	if err != nil {
		return nil, err
	}

	// Post-run housekeeping is best effort and runs before the outcome
	// footer, so the completion message stays the log's final line.
	if cfg.MetricsEnabled {
		metricsPath := filepath.Join(logsDir, cfg.MetricsFile)
		if err := metrics.WriteTextfile(metricsPath, result.ExitCode, result.StartTime, result.Duration); err != nil {
			sink.Line("WARNING: failed to write metrics file: %v", err)
		}
	}
	if cfg.RetentionDays > 0 {
		if _, err := retention.Prune(logsDir, cfg.RetentionDays, result.EndTime); err != nil {
			sink.Line("WARNING: log retention pruning failed: %v", err)
		}
	}

	if result.ExitCode != 0 {
		sink.Error("Alert processing exited with code %d", result.ExitCode)
	} else {
		sink.Success()
	}

	return result, nil
}

// runEntryPoint spawns the entry point in its own process group, waits
// for completion, and captures the exit code.
func runEntryPoint(ctx context.Context, cfg Config, interpreter string, sink *runlog.Sink) (*Result, error) {
	cmd := exec.CommandContext(ctx, interpreter, cfg.EntryPoint)
	cmd.Dir = cfg.ScriptDir

	// Own process group so a signal aimed at the launcher does not
	// reach the workload twice.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}

	cmd.Stdout = sink.Writer()
	cmd.Stderr = sink.Writer()

	start := time.Now()
	if err := cmd.Start(); err != nil {
		sink.Error("Failed to start %s: %v", cfg.EntryPoint, err)
		return nil, fmt.Errorf("failed to start entry point: %w", err)
	}
	pid := cmd.Process.Pid

	waitErr := cmd.Wait()
	end := time.Now()

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			sink.Error("Entry point wait failed: %v", waitErr)
			return nil, fmt.Errorf("entry point wait: %w", waitErr)
		}
		exitCode = exitErr.ExitCode()
	}

	return &Result{
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		PID:       pid,
		ExitCode:  exitCode,
		LogPath:   sink.RunPath(),
	}, nil
}

// ResolveScriptDir returns the canonical directory holding the running
// binary, with symlinks resolved, so installs behind a symlink still
// find their sibling artifacts.
func ResolveScriptDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cannot resolve own executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("cannot resolve executable symlinks: %w", err)
	}
	return filepath.Dir(resolved), nil
}
