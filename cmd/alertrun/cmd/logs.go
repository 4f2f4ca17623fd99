package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/alertrun/internal/runlog"
	"github.com/psantana5/alertrun/internal/sysinfo"
)

var logsLimit int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List recent run logs",
	Long:  `Lists the per-run logs in the logs directory, newest first.`,
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVar(&logsLimit, "limit", 20, "maximum number of logs to list (0 for all)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	logsDir := filepath.Join(scriptDir, viper.GetString("logs_dir"))

	runs, err := runlog.ListRuns(logsDir)
	if err != nil {
		return err
	}
	if logsLimit > 0 && len(runs) > logsLimit {
		runs = runs[:logsLimit]
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(runs) == 0 {
		fmt.Println("No run logs found")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Log", "Size", "Modified")

	for _, run := range runs {
		table.Append(
			run.Name,
			sysinfo.FormatBytes(uint64(run.Size)),
			run.ModTime.Format(time.RFC3339),
		)
	}

	table.Render()
	return nil
}
