package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewWriteCommand creates the write command.
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <project> <file>",
		Short: "Write stdin to a project file",
		Long: `Replace a project file with whatever arrives on stdin, creating it
if absent. Empty stdin writes nothing.

Example:
  cat skills.tex | overleaf write cv-xelatex sections/skills.tex`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(rootOpts, cmd, args[0], args[1])
		},
	}

	return cmd
}

func runWrite(opts *RootOptions, cmd *cobra.Command, project, file string) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no input on stdin, nothing written")
		return nil
	}

	store, err := openProject(cmd.Context(), opts, project)
	if err != nil {
		return err
	}
	if err := store.Write(cmd.Context(), file, data); err != nil {
		return fmt.Errorf("write %q: %w", file, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), file)
	return nil
}
