package main

import (
	"context"
	"fmt"
	"strconv"

	"mediareview/internal/service"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// wiring migrates the schema
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				_, _ = success.Fprintln(cmd.OutOrStdout(), "Database initialized successfully.")
				return nil
			})
		},
	}
}

func newCreateUserCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create-user NAME",
		Short: "Add a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				user, err := app.svc.CreateUser(ctx, &service.CreateUserRequest{Name: args[0]})
				if kerrors.IsConflict(err) {
					_, _ = warning.Fprintf(out, "Warning: User '%s' already exists in the database!\n", args[0])
					return nil
				}
				if err != nil {
					return report(out, err)
				}
				_, _ = success.Fprintf(out, "User '%s' added successfully! (id %d)\n", user.Name, user.ID)
				return nil
			})
		},
	}
}

func newCreateMediaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create-media TITLE TYPE",
		Short: "Add a new media entry (Movie, WebShow, Song)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				media, err := app.svc.CreateMedia(ctx, &service.CreateMediaRequest{Title: args[0], Type: args[1]})
				if kerrors.IsConflict(err) {
					_, _ = warning.Fprintf(out, "Warning: Media '%s' already exists in the database!\n", args[0])
					return nil
				}
				if err != nil {
					return report(out, err)
				}
				_, _ = success.Fprintf(out, "Media '%s' added successfully! (id %d)\n", media.Title, media.ID)
				return nil
			})
		},
	}
}

func newShowUsersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show-users",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				reply, err := app.svc.ListUsers(ctx)
				if err != nil {
					return report(out, err)
				}
				if len(reply.Users) == 0 {
					_, _ = warning.Fprintln(out, "No users found.")
					return nil
				}
				rows := make([][]string, 0, len(reply.Users))
				for _, u := range reply.Users {
					rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Name})
				}
				return printTable(out, "Users", []string{"ID", "Name"}, rows)
			})
		},
	}
}

func newShowMediaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show-media",
		Short: "List all media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				reply, err := app.svc.ListMedia(ctx)
				if err != nil {
					return report(out, err)
				}
				if len(reply.Media) == 0 {
					_, _ = warning.Fprintln(out, "No media found.")
					return nil
				}
				rows := make([][]string, 0, len(reply.Media))
				for _, m := range reply.Media {
					rows = append(rows, []string{strconv.FormatInt(m.ID, 10), m.Title, m.Type})
				}
				return printTable(out, "Media", []string{"ID", "Title", "Type"}, rows)
			})
		},
	}
}

func newReviewMediaCmd(opts *options) *cobra.Command {
	var byID bool
	cmd := &cobra.Command{
		Use:   "review-media USER MEDIA RATING COMMENT",
		Short: "Review a media item by user name and media title",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("rating must be an integer: %q", args[2])
			}
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				_, err := app.svc.SubmitReview(ctx, &service.SubmitReviewRequest{
					User:    args[0],
					Media:   args[1],
					ByID:    byID,
					Rating:  rating,
					Comment: args[3],
				})
				if err != nil {
					return report(out, err)
				}
				_, _ = success.Fprintf(out, "Review by '%s' for '%s' added successfully!\n", args[0], args[1])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&byID, "ids", false, "treat USER and MEDIA as numeric ids")
	return cmd
}

func newShowReviewsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show-reviews",
		Short: "List all reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				reply, err := app.svc.ListReviews(ctx)
				if err != nil {
					return report(out, err)
				}
				if len(reply.Reviews) == 0 {
					_, _ = warning.Fprintln(out, "No reviews found!")
					return nil
				}
				rows := make([][]string, 0, len(reply.Reviews))
				for _, r := range reply.Reviews {
					rows = append(rows, []string{r.User, r.Media, strconv.Itoa(r.Rating), r.Comment})
				}
				return printTable(out, "Reviews", []string{"User", "Media", "Rating", "Comment"}, rows)
			})
		},
	}
}

func newSubscribeCmd(opts *options) *cobra.Command {
	var byID bool
	cmd := &cobra.Command{
		Use:   "subscribe USER MEDIA",
		Short: "Subscribe a user to a media item for review notifications",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				reply, err := app.svc.Subscribe(ctx, &service.SubscribeRequest{User: args[0], Media: args[1], ByID: byID})
				if err != nil {
					return report(out, err)
				}
				if !reply.Created {
					_, _ = warning.Fprintf(out, "User '%s' is already subscribed to '%s'.\n", args[0], args[1])
					return nil
				}
				_, _ = success.Fprintf(out, "User '%s' subscribed to '%s' successfully!\n", args[0], args[1])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&byID, "ids", false, "treat USER and MEDIA as numeric ids")
	return cmd
}

func newRecommendCmd(opts *options) *cobra.Command {
	var byID bool
	cmd := &cobra.Command{
		Use:   "recommend USER",
		Short: "Get top 5 media recommendations for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				reply, err := app.svc.Recommend(ctx, &service.RecommendRequest{User: args[0], ByID: byID})
				if err != nil {
					return report(out, err)
				}
				if len(reply.Recommendations) == 0 {
					_, _ = warning.Fprintf(out, "No new recommendations for %s.\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(reply.Recommendations))
				for _, r := range reply.Recommendations {
					rows = append(rows, []string{r.Title, r.Type, formatAverage(r.AvgRating)})
				}
				return printTable(out, "Recommendations for "+args[0], []string{"Title", "Type", "Avg Rating"}, rows)
			})
		},
	}
	cmd.Flags().BoolVar(&byID, "ids", false, "treat USER as a numeric id")
	return cmd
}
