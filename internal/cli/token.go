package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/selensince1817/resume-mcp/internal/token"
)

// NewTokenCommand creates the token command group. Token operations
// are offline and need no project credentials.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage bearer tokens for the MCP server",
	}

	cmd.AddCommand(NewTokenInitCommand())
	cmd.AddCommand(NewTokenMintCommand())

	return cmd
}

// TokenInitOptions holds flags for the token init command.
type TokenInitOptions struct {
	PublicPath  string
	PrivatePath string
	Force       bool
}

// NewTokenInitCommand creates the token init command.
func NewTokenInitCommand() *cobra.Command {
	opts := &TokenInitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a signing key pair",
		Long: `Generate an Ed25519 key pair and write it as PEM files. The server
verifies bearer tokens with the public key; mint signs them with the
private key.

Example:
  overleaf token init
  overleaf token init --public /etc/mcp/public_key.pem --private /etc/mcp/private_key.pem`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenInit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PublicPath, "public", token.DefaultPublicKeyPath, "path for the public key PEM")
	cmd.Flags().StringVar(&opts.PrivatePath, "private", token.DefaultPrivateKeyPath, "path for the private key PEM")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite existing key files")

	return cmd
}

func runTokenInit(opts *TokenInitOptions, cmd *cobra.Command) error {
	if !opts.Force {
		for _, path := range []string{opts.PublicPath, opts.PrivatePath} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("refusing to overwrite %s (use --force)", path)
			}
		}
	}

	pub, priv, err := token.GenerateKeys()
	if err != nil {
		return fmt.Errorf("generate keys: %w", err)
	}
	if err := token.WriteKeyPair(pub, priv, opts.PublicPath, opts.PrivatePath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", opts.PublicPath, opts.PrivatePath)
	return nil
}

// TokenMintOptions holds flags for the token mint command.
type TokenMintOptions struct {
	PrivatePath string
	Subject     string
	Audience    string
	TTL         time.Duration
}

// NewTokenMintCommand creates the token mint command.
func NewTokenMintCommand() *cobra.Command {
	opts := &TokenMintOptions{}

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a bearer token",
		Long: `Sign a new bearer token with the private key and print it to
stdout. Pass the token to MCP clients as "Authorization: Bearer ...".

Example:
  overleaf token mint --subject laptop
  overleaf token mint --subject ci --ttl 24h`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenMint(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PrivatePath, "private", token.DefaultPrivateKeyPath, "path of the private key PEM")
	cmd.Flags().StringVar(&opts.Subject, "subject", "dev", "subject to embed in the token")
	cmd.Flags().StringVar(&opts.Audience, "audience", token.DefaultAudience, "audience the server checks")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", token.DefaultTTL, "token lifetime")

	return cmd
}

func runTokenMint(opts *TokenMintOptions, cmd *cobra.Command) error {
	priv, err := token.LoadPrivateKey(opts.PrivatePath)
	if err != nil {
		return err
	}
	claims, err := token.NewClaims(opts.Subject, opts.Audience, opts.TTL, time.Now())
	if err != nil {
		return err
	}
	signed, err := token.MintString(priv, claims)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
