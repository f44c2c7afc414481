package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selensince1817/resume-mcp/internal/overleaf"
)

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <project> <file>",
		Short: "Print a project file to stdout",
		Long: `Read a file from the project and print its raw content to stdout.

Example:
  overleaf read cv-xelatex main.tex
  overleaf read cv-xelatex sections/skills.tex > skills.tex`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(rootOpts, cmd, args[0], args[1])
		},
	}

	return cmd
}

func runRead(opts *RootOptions, cmd *cobra.Command, project, file string) error {
	store, err := openProject(cmd.Context(), opts, project)
	if err != nil {
		return err
	}
	data, err := store.Read(cmd.Context(), file)
	if errors.Is(err, overleaf.ErrNotFound) {
		return fmt.Errorf("file %q not found", file)
	}
	if err != nil {
		return fmt.Errorf("read %q: %w", file, err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
