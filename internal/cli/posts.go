package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ButyrinIA/socialclient/internal/cache"
	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/spf13/cobra"
)

// postList is what `posts list` prints for one user.
type postList struct {
	Scope    cache.ScopeState             `json:"scope"`
	Posts    []*models.Post               `json:"posts"`
	Comments map[string][]*models.Comment `json:"comments,omitempty"`
}

func NewPostsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List, publish, edit, delete and react to posts",
	}

	cmd.AddCommand(newPostsListCommand(rootOpts))
	cmd.AddCommand(newPostsCreateCommand(rootOpts))
	cmd.AddCommand(newPostsEditCommand(rootOpts))
	cmd.AddCommand(newPostsDeleteCommand(rootOpts))
	cmd.AddCommand(newPostsReactCommand(rootOpts))
	return cmd
}

func newPostsListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		userID       string
		pages        int
		withComments bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's posts, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return NewExitError(ExitCommandError, "--pages must be at least 1")
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				if userID == "" {
					id, err := app.RequireUser()
					if err != nil {
						return err
					}
					userID = id
				}

				limit := app.Config.Pagination.PostsPerPage
				for page := 1; page <= pages; page++ {
					if err := app.Posts.FetchPage(ctx, userID, page, limit); err != nil {
						return err
					}
					state := app.Posts.View().Scope(userID)
					if len(state.OrderedIDs) >= state.TotalCount {
						break
					}
				}

				res := postList{
					Scope: app.Posts.View().Scope(userID),
					Posts: app.Posts.View().Page(userID),
				}
				if withComments && len(res.Posts) > 0 {
					ids := make([]string, len(res.Posts))
					for i, p := range res.Posts {
						ids[i] = p.ID
					}
					if err := app.Comments.Prefetch(ctx, ids, app.Config.Pagination.CommentsPerPost); err != nil {
						return err
					}
					res.Comments = make(map[string][]*models.Comment, len(ids))
					for _, id := range ids {
						res.Comments[id] = app.Comments.View().Page(id)
					}
				}
				return out.Print(res)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "author id (default: the signed-in user)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&withComments, "with-comments", false, "also load the first comment page of each post")
	return cmd
}

// draftFromFlags builds a post draft. image is either an http(s) URL that
// is already stored or a local file to upload.
func draftFromFlags(content, image string) (models.PostDraft, error) {
	draft := models.PostDraft{Content: content}
	if image == "" {
		return draft, nil
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		draft.Image = &models.Attachment{URL: image}
		return draft, nil
	}

	data, err := os.ReadFile(image)
	if err != nil {
		return draft, &ExitError{Code: ExitCommandError, Message: "failed to read image", Err: err}
	}
	draft.Image = &models.Attachment{
		Data:        data,
		Filename:    filepath.Base(image),
		ContentType: mime.TypeByExtension(filepath.Ext(image)),
	}
	return draft, nil
}

func newPostsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var content, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := draftFromFlags(content, image)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				userID, err := app.RequireUser()
				if err != nil {
					return err
				}
				post, err := app.Posts.Create(ctx, userID, draft)
				if err != nil {
					return err
				}
				return out.Print(post)
			})
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "post text")
	cmd.Flags().StringVar(&image, "image", "", "image URL or local file")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newPostsEditCommand(rootOpts *RootOptions) *cobra.Command {
	var content, image string

	cmd := &cobra.Command{
		Use:   "edit <post-id>",
		Short: "Change the text or image of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := draftFromFlags(content, image)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				post, err := app.Posts.Edit(ctx, args[0], draft)
				if err != nil {
					return err
				}
				return out.Print(post)
			})
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "new post text")
	cmd.Flags().StringVar(&image, "image", "", "image URL or local file")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newPostsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, fmt.Sprintf("refusing to delete %s without --yes", args[0]))
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				userID, err := app.RequireUser()
				if err != nil {
					return err
				}
				if err := app.Posts.Delete(ctx, userID, args[0]); err != nil {
					return err
				}
				return out.Print(map[string]string{"deleted": args[0]})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

func newPostsReactCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "react <post-id> <like|dislike>",
		Short: "React to a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, out *Printer) error {
				counts, err := app.Posts.React(ctx, args[0], models.Emoji(args[1]))
				if err != nil {
					return err
				}
				return out.Print(counts)
			})
		},
	}
}
