package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file|uri]",
	Short: "Print the effective settings of a document",
	Long: `Print the effective settings of a document as JSON.

Without an argument, prints the defaults merged with the imported settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	uri := ""
	if len(args) == 1 {
		if uri, err = toURI(args[0]); err != nil {
			return err
		}
	}

	resolved, err := rt.docs.URISettings(cmd.Context(), uri)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
