package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List workspace folders",
	RunE:  runFolders,
}

func runFolders(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	list, err := rt.docs.Folders(cmd.Context())
	if err != nil {
		return err
	}
	for _, f := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Name, f.URI)
	}
	return nil
}
