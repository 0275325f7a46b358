package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"mediareview/internal/biz"
	"mediareview/internal/service"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newBulkReviewCmd(opts *options) *cobra.Command {
	var (
		file string
		byID bool
	)
	cmd := &cobra.Command{
		Use:   "bulk-review",
		Short: "Add multiple reviews, from a JSON file or interactively",
		Long: `Add multiple reviews at once. With --file the reviews are read from a JSON
array of {"user","media","rating","comment"} objects; otherwise they are
prompted for until 'exit' is entered. All reviews are submitted concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var (
				reqs []*service.SubmitReviewRequest
				err  error
			)
			if file != "" {
				reqs, err = readReviewFile(file)
			} else {
				reqs, err = promptReviews(cmd.InOrStdin(), out)
			}
			if err != nil {
				return err
			}
			if byID {
				for _, r := range reqs {
					r.ByID = true
				}
			}
			if len(reqs) == 0 {
				_, _ = warning.Fprintln(out, "No reviews to submit.")
				return nil
			}

			return opts.run(cmd, func(ctx context.Context, app *application) error {
				reply, err := app.svc.SubmitReviews(ctx, &service.SubmitReviewsRequest{Reviews: reqs})
				if err != nil {
					return report(out, err)
				}
				return printBulkReply(out, reply)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the reviews to submit")
	cmd.Flags().BoolVar(&byID, "ids", false, "treat user and media as numeric ids")
	return cmd
}

// readReviewFile accepts either a bare JSON array or {"reviews": [...]}.
func readReviewFile(path string) ([]*service.SubmitReviewRequest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}
	return decodeReviews(b)
}

func decodeReviews(b []byte) ([]*service.SubmitReviewRequest, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var wrapped service.SubmitReviewsRequest
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return nil, fmt.Errorf("decode reviews: %w", err)
		}
		return wrapped.Reviews, nil
	}

	var reqs []*service.SubmitReviewRequest
	if err := json.Unmarshal(b, &reqs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reqs, nil
}

// promptReviews reads reviews from in until 'exit' or end of input.
// Ratings outside the allowed range are rejected on the spot.
func promptReviews(in io.Reader, out io.Writer) ([]*service.SubmitReviewRequest, error) {
	sc := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		fmt.Fprintf(out, "%s: ", label)
		if !sc.Scan() {
			return "", false
		}
		text := strings.TrimSpace(sc.Text())
		return text, !strings.EqualFold(text, "exit")
	}

	fmt.Fprintln(out, "Enter multiple reviews. Type 'exit' at any point to stop.")

	var reqs []*service.SubmitReviewRequest
	for {
		user, ok := prompt("Enter user name (or type 'exit' to stop)")
		if !ok {
			break
		}
		media, ok := prompt("Enter media title")
		if !ok {
			break
		}
		ratingText, ok := prompt(fmt.Sprintf("Enter rating (%d-%d)", biz.MinRating, biz.MaxRating))
		if !ok {
			break
		}
		rating, err := strconv.Atoi(ratingText)
		if err != nil || rating < biz.MinRating || rating > biz.MaxRating {
			_, _ = warning.Fprintf(out, "Invalid rating. Please enter a number between %d and %d.\n", biz.MinRating, biz.MaxRating)
			continue
		}
		comment, ok := prompt("Enter your review comment")
		if !ok {
			break
		}
		reqs = append(reqs, &service.SubmitReviewRequest{
			User:    user,
			Media:   media,
			Rating:  rating,
			Comment: comment,
		})
	}
	return reqs, sc.Err()
}

func printBulkReply(out io.Writer, reply *service.SubmitReviewsReply) error {
	var rows [][]string
	for _, item := range reply.Results {
		if item.Error != "" {
			rows = append(rows, []string{strconv.Itoa(item.Index + 1), item.User, item.Media, item.Error})
		}
	}
	if len(rows) > 0 {
		if err := printTable(out, "Failed reviews", []string{"#", "User", "Media", "Error"}, rows); err != nil {
			return err
		}
	}

	c := success
	if reply.Failed > 0 {
		c = warning
	}
	_, _ = c.Fprintf(out, "%d reviews submitted, %d failed.\n", reply.Submitted, reply.Failed)
	return nil
}
