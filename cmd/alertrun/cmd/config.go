package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configShowOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Commands for inspecting the effective launcher configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Resolves defaults, the optional config file, and environment
overrides into the configuration the launcher would actually run with.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().StringVarP(&configShowOutput, "output", "o", "yaml",
		"Output format: yaml or json")
}

type effectiveConfig struct {
	ScriptDir     string `json:"script_dir" yaml:"script_dir"`
	EntryPoint    string `json:"entrypoint" yaml:"entrypoint"`
	Interpreter   string `json:"interpreter" yaml:"interpreter"`
	VenvDir       string `json:"venv_dir" yaml:"venv_dir"`
	LogsDir       string `json:"logs_dir" yaml:"logs_dir"`
	SearchPath    string `json:"search_path" yaml:"search_path"`
	Exclusive     bool   `json:"exclusive" yaml:"exclusive"`
	RetentionDays int    `json:"retention_days" yaml:"retention_days"`
	SysInfo       bool   `json:"sysinfo" yaml:"sysinfo"`
	Metrics       struct {
		Enabled  bool   `json:"enabled" yaml:"enabled"`
		Textfile string `json:"textfile" yaml:"textfile"`
	} `json:"metrics" yaml:"metrics"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	var out effectiveConfig
	out.ScriptDir = cfg.ScriptDir
	out.EntryPoint = cfg.EntryPoint
	out.Interpreter = cfg.Interpreter
	out.VenvDir = cfg.VenvDir
	out.LogsDir = cfg.LogsDir
	out.SearchPath = cfg.SearchPath
	out.Exclusive = cfg.Exclusive
	out.RetentionDays = cfg.RetentionDays
	out.SysInfo = cfg.SysInfo
	out.Metrics.Enabled = cfg.MetricsEnabled
	out.Metrics.Textfile = cfg.MetricsFile

	switch configShowOutput {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(out)
	default:
		return fmt.Errorf("unknown output format %q", configShowOutput)
	}
}
