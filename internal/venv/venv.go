package venv

import (
	"fmt"
	"os"
	"path/filepath"
)

// Env is an activated virtual environment. Activation mirrors what
// sourcing bin/activate does for a POSIX virtualenv: VIRTUAL_ENV points
// at the environment, its bin directory is prepended to PATH, and any
// inherited PYTHONHOME is dropped.
type Env struct {
	Dir  string
	Path string
}

// Detect reports whether dir exists and is a directory. An absent
// virtual environment is not an error.
func Detect(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// Activate validates the virtual environment at dir and returns the
// environment to run under. searchPath is the PATH the launcher fixed
// for cron execution; the venv bin directory is prepended to it.
func Activate(dir, searchPath string) (*Env, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	binDir := filepath.Join(abs, "bin")
	activate := filepath.Join(binDir, "activate")
	f, err := os.Open(activate)
	if err != nil {
		return nil, fmt.Errorf("activation script unusable: %w", err)
	}
	f.Close()

	if !hasInterpreter(binDir) {
		return nil, fmt.Errorf("no python interpreter under %s", binDir)
	}

	return &Env{
		Dir:  abs,
		Path: binDir + string(os.PathListSeparator) + searchPath,
	}, nil
}

// Apply mutates the launcher's own environment, exactly as sourcing the
// activation script would. Interpreter lookups after Apply resolve the
// venv interpreter first, and the child inherits the activated state.
func (e *Env) Apply() error {
	if err := os.Setenv("VIRTUAL_ENV", e.Dir); err != nil {
		return err
	}
	if err := os.Setenv("PATH", e.Path); err != nil {
		return err
	}
	return os.Unsetenv("PYTHONHOME")
}

func hasInterpreter(binDir string) bool {
	for _, name := range []string{"python3", "python"} {
		info, err := os.Stat(filepath.Join(binDir, name))
		if err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return true
		}
	}
	return false
}
