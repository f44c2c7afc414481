package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLsCommand creates the ls command.
func NewLsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls <project> [path]",
		Short: "List the contents of a project folder",
		Long: `List the entries directly under a folder, one per line. Folder
names carry a trailing slash. Omit the path to list the project root.

Example:
  overleaf ls cv-xelatex
  overleaf ls cv-xelatex sections`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			return runLs(rootOpts, cmd, args[0], path)
		},
	}

	return cmd
}

func runLs(opts *RootOptions, cmd *cobra.Command, project, path string) error {
	store, err := openProject(cmd.Context(), opts, project)
	if err != nil {
		return err
	}
	entries, err := store.Listdir(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("list %q: %w", path, err)
	}
	for _, e := range entries {
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
