package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var excludedCmd = &cobra.Command{
	Use:   "excluded <file|uri>...",
	Short: "Report whether documents are excluded from checking",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExcluded,
}

func runExcluded(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	for _, arg := range args {
		uri, err := toURI(arg)
		if err != nil {
			return err
		}
		excluded, err := rt.docs.IsExcluded(cmd.Context(), uri)
		if err != nil {
			return err
		}

		status := "checked"
		if excluded {
			status = "excluded"
		}
		fmt.Fprintf(out, "%-8s  %s\n", status, uri)
	}
	return nil
}
