package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/alertrun/internal/launcher"
)

var (
	cfgFile      string
	scriptDir    string
	outputFormat string
)

// rootCmd represents the base command. A bare invocation (as from
// cron) runs the launch sequence itself.
var rootCmd = &cobra.Command{
	Use:   "alertrun",
	Short: "Cron-safe launcher for the alert processing entry point",
	Long: `alertrun wraps the alert processing entry point for cron execution:
it fixes the search path, opens a timestamped run log, activates an
optional virtual environment, verifies the interpreter and entry point,
and relays the entry point's exit code.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLaunch,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is alertrun.yaml beside the binary)")
	rootCmd.PersistentFlags().StringVar(&scriptDir, "script-dir", "", "script directory (default is the resolved binary directory)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if scriptDir == "" {
		dir, err := launcher.ResolveScriptDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "alertrun: %v\n", err)
			os.Exit(1)
		}
		scriptDir = dir
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(scriptDir)
		viper.SetConfigName("alertrun")
		viper.SetConfigType("yaml")
	}

	defaults := launcher.DefaultConfig()
	viper.SetDefault("entrypoint", defaults.EntryPoint)
	viper.SetDefault("interpreter", defaults.Interpreter)
	viper.SetDefault("venv_dir", defaults.VenvDir)
	viper.SetDefault("logs_dir", defaults.LogsDir)
	viper.SetDefault("search_path", defaults.SearchPath)
	viper.SetDefault("exclusive", defaults.Exclusive)
	viper.SetDefault("retention_days", defaults.RetentionDays)
	viper.SetDefault("sysinfo", defaults.SysInfo)
	viper.SetDefault("metrics.enabled", defaults.MetricsEnabled)
	viper.SetDefault("metrics.textfile", defaults.MetricsFile)

	viper.SetEnvPrefix("ALERTRUN")
	viper.AutomaticEnv()

	// A missing config file is fine; every key has a default. Anything
	// else (unreadable file, bad YAML, explicit --config gone) is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "alertrun: cannot read config: %v\n", err)
			os.Exit(1)
		}
	}
}

// buildConfig assembles the explicit launch configuration from viper.
func buildConfig() launcher.Config {
	return launcher.Config{
		ScriptDir:      scriptDir,
		EntryPoint:     viper.GetString("entrypoint"),
		Interpreter:    viper.GetString("interpreter"),
		VenvDir:        viper.GetString("venv_dir"),
		LogsDir:        viper.GetString("logs_dir"),
		SearchPath:     viper.GetString("search_path"),
		Exclusive:      viper.GetBool("exclusive"),
		RetentionDays:  viper.GetInt("retention_days"),
		SysInfo:        viper.GetBool("sysinfo"),
		MetricsEnabled: viper.GetBool("metrics.enabled"),
		MetricsFile:    viper.GetString("metrics.textfile"),
	}
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
