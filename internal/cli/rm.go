package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selensince1817/resume-mcp/internal/overleaf"
)

// RmOptions holds flags for the rm command.
type RmOptions struct {
	*RootOptions
	Force bool
}

// NewRmCommand creates the rm command.
func NewRmCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RmOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rm <project> <path>",
		Short: "Remove a file or empty folder from a project",
		Long: `Delete a file or an empty folder. Prompts for confirmation unless
--force is given.

Example:
  overleaf rm cv-xelatex sections/old.tex
  overleaf rm -f cv-xelatex scratch`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "do not prompt before removal")

	return cmd
}

func runRm(opts *RmOptions, cmd *cobra.Command, project, path string) error {
	if !opts.Force {
		fmt.Fprintf(cmd.OutOrStdout(), "delete %q from %s? [y/N]: ", path, project)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
		default:
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}

	store, err := openProject(cmd.Context(), opts.RootOptions, project)
	if err != nil {
		return err
	}
	if err := store.Remove(cmd.Context(), path); err != nil {
		if errors.Is(err, overleaf.ErrNotFound) {
			return fmt.Errorf("file %q not found", path)
		}
		return fmt.Errorf("remove %q: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
	return nil
}
