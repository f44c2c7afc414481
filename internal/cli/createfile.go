package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CreateFileOptions holds flags for the create-file command.
type CreateFileOptions struct {
	*RootOptions
	Content string
}

// NewCreateFileCommand creates the create-file command.
func NewCreateFileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateFileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create-file <project> <file>",
		Short: "Create a file in a project",
		Long: `Create a new file in the project, overwriting any existing file at
that path. Content defaults to empty.

Example:
  overleaf create-file cv-xelatex notes.txt --content "draft"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateFile(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Content, "content", "", "content for the new file (defaults to empty)")

	return cmd
}

func runCreateFile(opts *CreateFileOptions, cmd *cobra.Command, project, file string) error {
	store, err := openProject(cmd.Context(), opts.RootOptions, project)
	if err != nil {
		return err
	}
	if err := store.Write(cmd.Context(), file, []byte(opts.Content)); err != nil {
		return fmt.Errorf("create %q: %w", file, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s in project %s\n", file, project)
	return nil
}
