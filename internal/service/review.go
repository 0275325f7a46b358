package service

import (
	"context"

	"mediareview/internal/biz"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// SubmitReview stores one review, invalidates the review listing and notifies subscribers.
func (s *ReviewService) SubmitReview(ctx context.Context, req *SubmitReviewRequest) (*SubmitReviewReply, error) {
	in, err := toReviewInput(req)
	if err != nil {
		return nil, toKratosError(err)
	}

	id, err := s.reviewUC.SubmitReview(ctx, in)
	if err != nil {
		return nil, toKratosError(err)
	}
	return &SubmitReviewReply{ReviewID: id}, nil
}

// SubmitReviews submits a batch concurrently. Per-item failures are reported
// in the reply; the call itself only fails on a malformed request.
func (s *ReviewService) SubmitReviews(ctx context.Context, req *SubmitReviewsRequest) (*SubmitReviewsReply, error) {
	if len(req.Reviews) == 0 {
		return nil, kerrors.BadRequest(ReasonValidation, "reviews are required")
	}

	reply := &SubmitReviewsReply{Results: make([]*BulkItemReply, len(req.Reviews))}

	// Malformed rows are rejected up front and never reach the coordinator.
	inputs := make([]biz.ReviewInput, 0, len(req.Reviews))
	positions := make([]int, 0, len(req.Reviews))
	for i, r := range req.Reviews {
		item := &BulkItemReply{Index: i}
		if r != nil {
			item.User, item.Media = r.User, r.Media
		}
		reply.Results[i] = item

		if r == nil {
			item.Error = "empty review"
			continue
		}
		in, err := toReviewInput(r)
		if err != nil {
			item.Error = err.Error()
			continue
		}
		inputs = append(inputs, in)
		positions = append(positions, i)
	}

	for _, res := range s.bulkUC.SubmitMany(ctx, inputs) {
		item := reply.Results[positions[res.Index]]
		if res.Err != nil {
			item.Error = res.Err.Error()
			continue
		}
		item.ReviewID = res.ReviewID
	}

	for _, item := range reply.Results {
		if item.Error != "" {
			reply.Failed++
		} else {
			reply.Submitted++
		}
	}
	return reply, nil
}

// ListReviews returns the distinct review listing, served from the cache when fresh.
func (s *ReviewService) ListReviews(ctx context.Context) (*ListReviewsReply, error) {
	views, err := s.reviewUC.ListReviews(ctx)
	if err != nil {
		return nil, toKratosError(err)
	}

	reply := &ListReviewsReply{Reviews: make([]*ReviewReply, 0, len(views))}
	for _, v := range views {
		reply.Reviews = append(reply.Reviews, &ReviewReply{
			User:    v.UserName,
			Media:   v.MediaTitle,
			Rating:  v.Rating,
			Comment: v.Comment,
		})
	}
	return reply, nil
}

func toReviewInput(req *SubmitReviewRequest) (biz.ReviewInput, error) {
	user, err := biz.ParseRef(req.User, req.ByID)
	if err != nil {
		return biz.ReviewInput{}, err
	}
	media, err := biz.ParseRef(req.Media, req.ByID)
	if err != nil {
		return biz.ReviewInput{}, err
	}
	return biz.ReviewInput{
		User:    user,
		Media:   media,
		Rating:  req.Rating,
		Comment: req.Comment,
	}, nil
}
