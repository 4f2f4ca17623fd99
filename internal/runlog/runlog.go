package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	// RunPrefix is the filename prefix shared by all per-run logs.
	RunPrefix = "alert_processing_"

	// ErrorFileName is the cumulative error log, shared across invocations.
	ErrorFileName = "alert_processing_errors.log"

	timeLayout = "2006-01-02 15:04:05"
	nameLayout = "20060102_150405"

	delimiter = "=========================================="
)

// Sink owns the per-run log file and knows how to duplicate failure
// lines into the shared error log. One Sink is created per invocation;
// the per-run file is append-only and never reopened.
type Sink struct {
	runFile *os.File
	runPath string
	errPath string
}

// Open creates the logs directory if needed and opens a fresh per-run
// log named after the invocation start time (second granularity).
func Open(logsDir string, start time.Time) (*Sink, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logsDir, err)
	}

	runPath := filepath.Join(logsDir, RunPrefix+start.Format(nameLayout)+".log")
	runFile, err := os.OpenFile(runPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", runPath, err)
	}

	return &Sink{
		runFile: runFile,
		runPath: runPath,
		errPath: filepath.Join(logsDir, ErrorFileName),
	}, nil
}

// RunPath returns the path of the per-run log file.
func (s *Sink) RunPath() string {
	return s.runPath
}

// Writer returns the raw per-run log writer. The child process's stdout
// and stderr are pointed here so its output lands after the banner.
func (s *Sink) Writer() io.Writer {
	return s.runFile
}

// Line appends one bracketed-timestamp status line to the per-run log.
func (s *Sink) Line(format string, args ...interface{}) error {
	return s.write(stamp(fmt.Sprintf(format, args...)))
}

// Banner writes the start-of-run header: a delimiter line, the start
// message, the working directory, and a closing delimiter. It uses
// direct appends only, so the header survives any later setup failure.
func (s *Sink) Banner(workDir string) error {
	lines := delimiter + "\n" +
		stamp("Starting alert processing") +
		stamp("Working directory: "+workDir) +
		delimiter + "\n"
	return s.write(lines)
}

// Success writes the end-of-run footer. The completion message is the
// last line appended to the per-run log.
func (s *Sink) Success() error {
	return s.write(delimiter + "\n" + stamp("Alert processing completed successfully"))
}

// Error records a failure in the per-run log and appends the same
// bracketed-timestamp line to the shared error log. Error-log appends
// are serialized with an advisory lock so overlapping invocations
// cannot interleave partial lines.
func (s *Sink) Error(format string, args ...interface{}) error {
	line := stamp("ERROR: " + fmt.Sprintf(format, args...))
	if err := s.write(line); err != nil {
		return err
	}
	return s.appendError(line)
}

// Close releases the per-run log file.
func (s *Sink) Close() error {
	return s.runFile.Close()
}

func (s *Sink) write(text string) error {
	_, err := s.runFile.WriteString(text)
	return err
}

func (s *Sink) appendError(line string) error {
	lock := flock.New(s.errPath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock error log: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(s.errPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open error log %s: %w", s.errPath, err)
	}
	_, werr := f.WriteString(line)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func stamp(message string) string {
	return fmt.Sprintf("[%s] %s\n", time.Now().Format(timeLayout), message)
}

// RunInfo describes one per-run log file on disk.
type RunInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size_bytes"`
	ModTime time.Time `json:"modified"`
}

// ListRuns returns the per-run logs under logsDir, newest first. The
// cumulative error log is not included.
func ListRuns(logsDir string) ([]RunInfo, error) {
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log directory %s: %w", logsDir, err)
	}

	var runs []RunInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == ErrorFileName {
			continue
		}
		if !strings.HasPrefix(name, RunPrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, RunInfo{
			Name:    name,
			Path:    filepath.Join(logsDir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	return runs, nil
}
