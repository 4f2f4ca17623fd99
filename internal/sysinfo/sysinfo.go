package sysinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot captures the host state at launch time. It is recorded in
// the per-run log so a failed cron run can be correlated with the
// machine's condition at that moment.
type Snapshot struct {
	Hostname     string
	CPUModel     string
	CPUThreads   int
	MemTotal     uint64
	MemAvailable uint64
	Load1        float64
}

// Collect gathers the snapshot. Individual probes are best effort; a
// probe failure leaves its field zero rather than failing the launch.
func Collect() *Snapshot {
	s := &Snapshot{}

	if info, err := host.Info(); err == nil {
		s.Hostname = info.Hostname
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		s.CPUModel = infos[0].ModelName
	}
	if threads, err := cpu.Counts(true); err == nil {
		s.CPUThreads = threads
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemTotal = vm.Total
		s.MemAvailable = vm.Available
	}
	if avg, err := load.Avg(); err == nil {
		s.Load1 = avg.Load1
	}
	return s
}

// Lines renders the snapshot as human-readable log lines.
func (s *Snapshot) Lines() []string {
	return []string{
		fmt.Sprintf("Host: %s", s.Hostname),
		fmt.Sprintf("CPU: %s (%d threads)", s.CPUModel, s.CPUThreads),
		fmt.Sprintf("Memory: %s available of %s", FormatBytes(s.MemAvailable), FormatBytes(s.MemTotal)),
		fmt.Sprintf("Load average (1m): %.2f", s.Load1),
	}
}

// FormatBytes renders a byte count as a human-readable size.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
