// Package cli implements socialctl, a command-line client for the social
// network API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ButyrinIA/socialclient/internal/api"
	"github.com/ButyrinIA/socialclient/internal/config"
	"github.com/ButyrinIA/socialclient/internal/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "yaml" | "json"
}

var ValidFormats = []string{"yaml", "json"}

// NewRootCommand creates the root command of socialctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "socialctl",
		Short:         "Command-line client for the social network",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "path to the config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "yaml", "output format (yaml|json)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewPostsCommand(opts))
	cmd.AddCommand(NewCommentsCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// withApp loads the config, wires the client and runs fn with it.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, app *App, out *Printer) error) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to load config", Err: err}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := NewApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to start client", Err: err}
	}
	defer app.Close()

	ctx = logger.WithContext(ctx, app.Logger.Named("coordinator"))
	return explainAPIError(fn(ctx, app, &Printer{Format: opts.Format, Writer: cmd.OutOrStdout()}))
}

// explainAPIError turns the API statuses a user can act on into exit
// errors; everything else is returned as is.
func explainAPIError(err error) error {
	var exitErr *ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
		return err
	case api.IsUnauthorized(err):
		return &ExitError{Code: ExitCommandError, Message: "session expired or missing, run `socialctl login`", Err: err}
	case api.IsNotFound(err):
		return &ExitError{Code: ExitFailure, Message: "not found", Err: err}
	}
	return err
}
