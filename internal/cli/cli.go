// Package cli wires the cgmis command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cgmis/guidance/internal/bootstrap"
	"github.com/cgmis/guidance/internal/config"
	"github.com/cgmis/guidance/internal/pkg/auth"
	"github.com/cgmis/guidance/internal/server"
)

const (
	configFlag  = "config"
	envFileFlag = "env-file"
)

func configFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		configFlag: &cobraflags.StringFlag{
			Name:  configFlag,
			Value: filepath.Join("configs", "config.yaml"),
			Usage: "Path to the YAML configuration file; a missing file falls back to defaults and environment",
		},
		envFileFlag: &cobraflags.StringFlag{
			Name:  envFileFlag,
			Value: ".env",
			Usage: "Comma-separated .env files merged into the environment before it is read",
		},
	}
}

func loadConfig(flags map[string]cobraflags.Flag) (*config.Config, zerolog.Logger, error) {
	var envFiles []string
	for _, f := range strings.Split(flags[envFileFlag].GetString(), ",") {
		if f = strings.TrimSpace(f); f != "" {
			envFiles = append(envFiles, f)
		}
	}
	return bootstrap.LoadConfigAndSetupLogger(flags[configFlag].GetString(), envFiles...)
}

// NewRootCommand builds the cgmis command; without a subcommand it serves HTTP
func NewRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "cgmis",
		Short:         "Career guidance management information system API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cobraflags.RegisterMap(root, serveFlags)

	root.AddCommand(serve, newMigrateCommand(), newSeedCommand(), newHashPasswordCommand())
	return root
}

var serveFlags = configFlags()

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Migrate, seed and serve the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lgr, err := loadConfig(serveFlags)
			if err != nil {
				return err
			}

			srv, err := server.NewServer(cmd.Context(), cfg, lgr)
			if err != nil {
				lgr.Error().Err(err).Msg("Failed to initialize server")
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func newMigrateCommand() *cobra.Command {
	flags := configFlags()
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lgr, err := loadConfig(flags)
			if err != nil {
				return err
			}

			database, err := bootstrap.SetupDatabase(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			return bootstrap.RunMigrations(cmd.Context(), database, lgr)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newSeedCommand() *cobra.Command {
	flags := configFlags()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Apply migrations, then create default accounts and configured sample data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lgr, err := loadConfig(flags)
			if err != nil {
				return err
			}

			database, err := bootstrap.SetupDatabase(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := bootstrap.RunMigrations(cmd.Context(), database, lgr); err != nil {
				return err
			}
			return bootstrap.SeedDatabase(cmd.Context(), cfg, database, lgr)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password, for inserting accounts by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return errors.New("password must not be blank")
			}
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

// Execute runs the command tree with ctx
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
