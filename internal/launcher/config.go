package launcher

// Config is the explicit launch configuration. Every field has a
// default, so a bare invocation under cron needs no config file at all.
type Config struct {
	// ScriptDir is the launcher's resolved install directory. All
	// filesystem artifacts (entry point, venv, logs) live beside it.
	ScriptDir string

	// EntryPoint is the program file executed via the interpreter.
	EntryPoint string

	// Interpreter is the command resolved on the fixed search path.
	Interpreter string

	// VenvDir is the optional virtual environment directory name.
	VenvDir string

	// LogsDir is the log directory name under ScriptDir.
	LogsDir string

	// SearchPath replaces PATH for the whole run. Cron hands out a
	// minimal environment, so the launcher fixes its own.
	SearchPath string

	// Exclusive refuses to start while another run holds the run lock.
	Exclusive bool

	// RetentionDays prunes per-run logs older than this after a run.
	// Zero disables pruning. The error log is never pruned.
	RetentionDays int

	// SysInfo records a host snapshot in the per-run log.
	SysInfo bool

	// MetricsEnabled writes textfile-collector metrics after each run.
	MetricsEnabled bool

	// MetricsFile is the metrics filename under LogsDir.
	MetricsFile string
}

// DefaultConfig returns the stock cron-wrapper configuration.
func DefaultConfig() Config {
	return Config{
		EntryPoint:     "main.py",
		Interpreter:    "python3",
		VenvDir:        "venv",
		LogsDir:        "logs",
		SearchPath:     "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin",
		Exclusive:      false,
		RetentionDays:  30,
		SysInfo:        true,
		MetricsEnabled: true,
		MetricsFile:    "alertrun.prom",
	}
}
