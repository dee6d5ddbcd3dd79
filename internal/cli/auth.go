package cli

import (
	"context"
	"errors"

	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/spf13/cobra"
)

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var creds models.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				user, err := app.Session.Login(ctx, creds)
				if err != nil {
					return err
				}
				return out.Print(user)
			})
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var reg models.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				user, err := app.Session.Register(ctx, reg)
				if err != nil {
					return err
				}
				return out.Print(user)
			})
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "display name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				app.Session.Logout(ctx)
				return out.Print(app.Session.State())
			})
		},
	}
}

func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				st := app.Session.State()
				if err := out.Print(st); err != nil {
					return err
				}
				if !st.IsAuthenticated {
					return &ExitError{Code: ExitFailure, Message: "not signed in", Err: errors.New("no valid session")}
				}
				return nil
			})
		},
	}
}
