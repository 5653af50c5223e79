package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/werunom/vscode-spell-checker/internal/config"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage project words",
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <file> <word>...",
	Short: "Add words to the settings file of the folder containing file",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runWordsAdd,
}

func init() {
	wordsCmd.AddCommand(wordsAddCmd)
}

func runWordsAdd(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	uri, err := toURI(args[0])
	if err != nil {
		return err
	}
	root, err := rt.workspace.FolderFor(uri)
	if err != nil {
		return err
	}

	path, added, err := config.AddWords(rt.fs, root, args[1:])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(added) == 0 {
		fmt.Fprintf(out, "No new words for %s\n", path)
		return nil
	}
	fmt.Fprintf(out, "Added %d word(s) to %s\n", len(added), path)
	for _, w := range added {
		fmt.Fprintf(out, "  %s\n", w)
	}
	return nil
}
