package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ButyrinIA/socialclient/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		port  string
		users []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the client state and metrics over HTTP",
		Long: `Start a read-only HTTP server exposing the session, the cached posts
and comments, and Prometheus metrics of the API client. Posts of the users
given with --user are loaded first, together with their first comments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				for _, userID := range users {
					if err := app.Posts.FetchPage(ctx, userID, 1, app.Config.Pagination.PostsPerPage); err != nil {
						app.Logger.Warn("failed to preload posts", zap.String("user_id", userID), zap.Error(err))
						continue
					}
					var ids []string
					for _, p := range app.Posts.View().Page(userID) {
						ids = append(ids, p.ID)
					}
					if err := app.Comments.Prefetch(ctx, ids, app.Config.Pagination.CommentsPerPost); err != nil {
						app.Logger.Warn("failed to preload comments", zap.String("user_id", userID), zap.Error(err))
					}
				}

				cfg := app.Config.Inspect
				if port != "" {
					cfg.Port = port
				}
				srv := server.New(cfg, server.Deps{
					Session:  app.Session,
					Posts:    app.Posts.View(),
					Comments: app.Comments.View(),
					Metrics:  app.Metrics.Handler(),
					Logger:   app.Logger.Named("inspect"),
				})

				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return srv.Run(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default: inspect.port)")
	cmd.Flags().StringSliceVar(&users, "user", nil, "user ids whose posts are loaded at startup")
	return cmd
}
