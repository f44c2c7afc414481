// Package cli implements the dev command line around the remote
// project file API: listing projects, reading and writing files, and
// managing the bearer tokens the MCP server accepts.
package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selensince1817/resume-mcp/internal/overleaf"
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	BaseURL string
	Cookie  string
}

// NewRootCommand creates the root command for the overleaf CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "overleaf",
		Short: "Quick dev CLI around the remote project file API",
		Long: `Inspect and edit the files of a remote document project from the
terminal: list projects, read and write files, create folders, and
mint the bearer tokens the MCP server accepts.

Credentials come from flags or the environment (OVERLEAF_BASE_URL,
OVERLEAF_SESSION_COOKIE).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.BaseURL == "" {
				opts.BaseURL = strings.TrimSpace(os.Getenv("OVERLEAF_BASE_URL"))
			}
			if opts.Cookie == "" {
				opts.Cookie = strings.TrimSpace(os.Getenv("OVERLEAF_SESSION_COOKIE"))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "platform base URL (defaults to $OVERLEAF_BASE_URL, then the hosted service)")
	cmd.PersistentFlags().StringVar(&opts.Cookie, "session-cookie", "", "session cookie value (defaults to $OVERLEAF_SESSION_COOKIE)")

	// Add subcommands
	cmd.AddCommand(NewProjectsCommand(opts))
	cmd.AddCommand(NewLsCommand(opts))
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewWriteCommand(opts))
	cmd.AddCommand(NewCreateFileCommand(opts))
	cmd.AddCommand(NewRmCommand(opts))
	cmd.AddCommand(NewMkdirCommand(opts))
	cmd.AddCommand(NewTokenCommand())

	return cmd
}

// newClient builds the API client from the resolved global flags.
func newClient(opts *RootOptions) (*overleaf.Client, error) {
	return overleaf.NewClient(opts.BaseURL, opts.Cookie)
}

// openProject resolves a project by its exact name and returns its
// file store.
func openProject(ctx context.Context, opts *RootOptions, name string) (*overleaf.RemoteProject, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	return client.OpenProject(ctx, name)
}
