package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMkdirCommand creates the mkdir command.
func NewMkdirCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdir <project> <path>",
		Short: "Create a folder in a project",
		Long: `Create a folder, including missing parents. Existing folders are
not an error.

Example:
  overleaf mkdir cv-xelatex sections/archive`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMkdir(rootOpts, cmd, args[0], args[1])
		},
	}

	return cmd
}

func runMkdir(opts *RootOptions, cmd *cobra.Command, project, path string) error {
	store, err := openProject(cmd.Context(), opts, project)
	if err != nil {
		return err
	}
	if err := store.Mkdir(cmd.Context(), path); err != nil {
		return fmt.Errorf("mkdir %q: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created directory %s\n", path)
	return nil
}
