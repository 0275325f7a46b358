package main

import (
	"context"
	"io"

	"mediareview/internal/service"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/spf13/cobra"
)

func newAddSampleUsersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add-sample-users",
		Short: "Add predefined users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				reply := app.svc.SeedUsers(ctx)
				printSeedReply(out, "User", reply)
				_, _ = success.Fprintf(out, "Sample users added successfully! (%d new)\n", reply.Added)
				return nil
			})
		},
	}
}

func newAddSampleMediaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add-sample-media",
		Short: "Add predefined media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				reply := app.svc.SeedMedia(ctx)
				printSeedReply(out, "Media", reply)
				_, _ = success.Fprintf(out, "Sample media added successfully! (%d new)\n", reply.Added)
				return nil
			})
		},
	}
}

func newAddSampleReviewsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add-sample-reviews",
		Short: "Add predefined reviews through the bulk path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()
				reply, err := app.svc.SeedReviews(ctx)
				if err != nil {
					return report(out, err)
				}
				return printBulkReply(out, reply)
			})
		},
	}
}

func printSeedReply(out io.Writer, kind string, reply *service.SeedReply) {
	for _, r := range reply.Results {
		switch {
		case r.Error == nil:
		case kerrors.IsConflict(r.Error):
			_, _ = warning.Fprintf(out, "Warning: %s '%s' already exists in the database!\n", kind, r.Name)
		default:
			_, _ = failure.Fprintf(out, "Error: %s\n", message(r.Error))
		}
	}
}
