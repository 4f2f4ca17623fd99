package metrics

import (
	"bytes"
	"fmt"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteTextfile publishes the outcome of a run in the node_exporter
// textfile-collector format. The file is replaced atomically so a
// scraping collector never sees a half-written exposition.
func WriteTextfile(path string, exitCode int, start time.Time, duration time.Duration) error {
	registry := promclient.NewRegistry()

	lastRun := promclient.NewGauge(promclient.GaugeOpts{
		Name: "alertrun_last_run_timestamp_seconds",
		Help: "Unix time the most recent alert processing run started",
	})
	lastDuration := promclient.NewGauge(promclient.GaugeOpts{
		Name: "alertrun_last_run_duration_seconds",
		Help: "Wall-clock duration of the most recent alert processing run",
	})
	lastExit := promclient.NewGauge(promclient.GaugeOpts{
		Name: "alertrun_last_run_exit_code",
		Help: "Exit code of the most recent alert processing run",
	})

	registry.MustRegister(lastRun, lastDuration, lastExit)

	lastRun.Set(float64(start.Unix()))
	lastDuration.Set(duration.Seconds())
	lastExit.Set(float64(exitCode))

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return os.Rename(tmp, path)
}
