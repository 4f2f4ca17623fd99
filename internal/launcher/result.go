package launcher

import "time"

// Result is the immutable outcome of one launcher run. Set once when
// the entry point finishes, never updated afterwards.
type Result struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_seconds"`
	PID       int           `json:"pid"`
	ExitCode  int           `json:"exit_code"`
	LogPath   string        `json:"log_path"`
}

// Succeeded reports whether the entry point exited cleanly.
func (r *Result) Succeeded() bool {
	return r.ExitCode == 0
}
