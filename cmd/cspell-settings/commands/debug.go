package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/logging"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debug utilities",
	Long:  `Debug utilities for troubleshooting settings discovery.`,
}

var debugPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show system paths and settings file candidates",
	RunE:  runDebugPaths,
}

var debugGlobsCmd = &cobra.Command{
	Use:   "globs",
	Short: "Show the exclusion globs of every workspace folder",
	RunE:  runDebugGlobs,
}

func init() {
	debugCmd.AddCommand(debugPathsCmd)
	debugCmd.AddCommand(debugGlobsCmd)
}

func runDebugPaths(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	paths := config.GetPaths()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "System Paths:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Config:         %s\n", paths.Config)
	fmt.Fprintf(out, "  State:          %s\n", paths.State)
	fmt.Fprintf(out, "  Logs:           %s\n", paths.LogDir())
	fmt.Fprintf(out, "  Log file:       %s\n", logging.GetLogFilePath())
	fmt.Fprintf(out, "  User settings:  %s\n", rt.workspace.UserSettingsPath())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Settings Files:")
	for _, root := range rt.roots {
		fmt.Fprintf(out, "  %s\n", root)
		for _, candidate := range config.Locate(root) {
			fmt.Fprintf(out, "    [%s] %s\n", mark(candidate), candidate)
		}
		editor := config.EditorSettingsPath(root)
		fmt.Fprintf(out, "    [%s] %s\n", mark(editor), editor)
	}
	for _, imp := range rt.imports {
		fmt.Fprintf(out, "  import [%s] %s\n", mark(imp), imp)
	}
	return nil
}

func mark(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "x"
	}
	return " "
}

func runDebugGlobs(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	aggregates, err := rt.docs.FolderSettings(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, agg := range aggregates {
		schemes := agg.Settings.AllowedSchemas
		fmt.Fprintf(out, "%s (schemes: %s)\n", agg.URI, strings.Join(schemes, ", "))
		for _, g := range agg.Globs {
			fmt.Fprintf(out, "  %s\n", g)
		}
	}
	return nil
}
