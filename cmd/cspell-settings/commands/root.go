// Package commands provides the CLI commands for cspell-settings.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Environment variables read when the matching flag is not set.
const (
	EnvLogLevel     = "CSPELL_LOG_LEVEL"
	EnvFolders      = "CSPELL_FOLDERS"
	EnvUserSettings = "CSPELL_USER_SETTINGS"
)

// Global flags
var (
	printLogs    bool
	logLevel     string
	folders      []string
	imports      []string
	userSettings string
)

var rootCmd = &cobra.Command{
	Use:   "cspell-settings",
	Short: "Resolve spell checker settings for documents",
	Long: `cspell-settings resolves the effective spell checker settings of a document
by merging built-in defaults, imported settings files, workspace folder
settings files and editor settings, and decides whether a document is
excluded from checking.

Run 'cspell-settings resolve <file>' for a one-off answer, or
'cspell-settings serve' to start an HTTP server with a live cache.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringSliceVar(&folders, "folder", nil, "Workspace folder root (repeatable, defaults to the working directory)")
	rootCmd.PersistentFlags().StringSliceVar(&imports, "import", nil, "Settings file to import (repeatable)")
	rootCmd.PersistentFlags().StringVar(&userSettings, "user-settings", "", "Editor user settings.json")

	rootCmd.SetVersionTemplate(fmt.Sprintf("cspell-settings %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(excludedCmd)
	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(debugCmd)
}

// Execute runs the root command.
func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

// setup loads .env, applies environment defaults and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	flags := cmd.Flags()
	if v := os.Getenv(EnvLogLevel); v != "" && !flags.Changed("log-level") {
		logLevel = v
	}
	if v := os.Getenv(EnvFolders); v != "" && !flags.Changed("folder") {
		folders = filepath.SplitList(v)
	}
	if !flags.Changed("user-settings") {
		if v := os.Getenv(EnvUserSettings); v != "" {
			userSettings = v
		} else {
			userSettings = config.GetPaths().UserSettings
		}
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(logLevel)
	if printLogs {
		logCfg.Pretty = true
	} else {
		paths := config.GetPaths()
		if err := paths.EnsurePaths(); err != nil {
			return err
		}
		logCfg.Output = io.Discard
		logCfg.LogToFile = true
		logCfg.LogDir = paths.LogDir()
	}
	logging.Init(logCfg)
	return nil
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
