package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/server"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/spf13/cobra"
)

func main() {
	// the config file is read before cobra parses flags so flags win
	cfg, err := config.Load(flagx.ConfigPath(os.Args[1:]))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := executeContext(context.Background(), newRootCmd(cfg), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "gophnotes-server",
		Short:        "Document store for gophnotes clients",
		SilenceUsage: true,
	}
	// consumed by flagx.ConfigPath above
	root.PersistentFlags().StringP("config", "c", "", "path to JSON or YAML config file")

	root.AddCommand(newServeCmd(cfg), newTokenCmd(cfg))
	return root
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC document store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			app, err := server.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}
	cfg.BindServeFlags(cmd.Flags())
	return cmd
}

func newTokenCmd(cfg *config.Config) *cobra.Command {
	var sub auth.Subject

	cmd := &cobra.Command{
		Use:   "token <userId>",
		Short: "Mint a sign-in and access token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			sub.ID = args[0]
			tok, err := auth.GenerateToken(sub, []byte(cfg.SecretKey), cfg.TokenIssuer, cfg.TokenValidity)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub.Name, "name", "", "display name")
	cmd.Flags().StringVar(&sub.Email, "email", "", "email address")
	cfg.BindTokenFlags(cmd.Flags())
	return cmd
}

func executeContext(ctx context.Context, cmd *cobra.Command, args []string) error {
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
