package cli

import (
	"context"
	"fmt"

	"github.com/ButyrinIA/socialclient/internal/cache"
	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/spf13/cobra"
)

type commentList struct {
	Scope    cache.ScopeState  `json:"scope"`
	Comments []*models.Comment `json:"comments"`
}

func NewCommentsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "List, write, delete and react to comments",
	}

	cmd.AddCommand(newCommentsListCommand(rootOpts))
	cmd.AddCommand(newCommentsCreateCommand(rootOpts))
	cmd.AddCommand(newCommentsDeleteCommand(rootOpts))
	cmd.AddCommand(newCommentsReactCommand(rootOpts))
	return cmd
}

func newCommentsListCommand(rootOpts *RootOptions) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list <post-id>",
		Short: "List the comments of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID := args[0]
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				limit := app.Config.Pagination.CommentsPerPost
				for p := 1; p <= page; p++ {
					if err := app.Comments.FetchPage(ctx, postID, p, limit); err != nil {
						return err
					}
				}
				return out.Print(commentList{
					Scope:    app.Comments.View().Scope(postID),
					Comments: app.Comments.View().Page(postID),
				})
			})
		},
	}

	cmd.Flags().IntVar(&page, "pages", 1, "number of pages to load")
	return cmd
}

func newCommentsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "create <post-id>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				comment, err := app.Comments.Create(ctx, args[0], content)
				if err != nil {
					return err
				}
				return out.Print(comment)
			})
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "comment text")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newCommentsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <post-id> <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, fmt.Sprintf("refusing to delete %s without --yes", args[1]))
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				if err := app.Comments.Delete(ctx, args[0], args[1]); err != nil {
					return err
				}
				return out.Print(map[string]string{"deleted": args[1]})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

func newCommentsReactCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "react <comment-id> <like|dislike>",
		Short: "React to a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				counts, err := app.Comments.React(ctx, args[0], models.Emoji(args[1]))
				if err != nil {
					return err
				}
				return out.Print(counts)
			})
		},
	}
}
