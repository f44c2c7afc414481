package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewProjectsCommand creates the projects command.
func NewProjectsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List all accessible projects",
		Long: `List every project the session can reach, one per line as
"name (id=...)".

Example:
  overleaf projects`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(rootOpts, cmd)
		},
	}

	return cmd
}

func runProjects(opts *RootOptions, cmd *cobra.Command) error {
	client, err := newClient(opts)
	if err != nil {
		return err
	}
	projects, err := client.Projects(cmd.Context())
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	for _, p := range projects {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (id=%s)\n", p.Name, p.ID)
	}
	return nil
}
