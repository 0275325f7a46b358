package biz

import (
	"context"

	"mediareview/internal/conf"
	"mediareview/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BulkUseCase submits batches of independent reviews concurrently.
type BulkUseCase struct {
	reviews *ReviewUseCase
	workers int
	log     *log.Helper
}

// NewBulkUseCase creates a new BulkUseCase instance
func NewBulkUseCase(c *conf.Ingest, reviews *ReviewUseCase, logger log.Logger) *BulkUseCase {
	workers := c.BulkWorkers
	if workers < 1 {
		workers = 1
	}
	return &BulkUseCase{
		reviews: reviews,
		workers: workers,
		log:     log.NewHelper(log.With(logger, "module", "biz/bulk")),
	}
}

// SubmitMany runs one SubmitReview per input on at most uc.workers goroutines
// and returns once every submission has finished. A failed item never cancels
// its siblings; results are indexed like inputs.
func (uc *BulkUseCase) SubmitMany(ctx context.Context, inputs []ReviewInput) []BulkResult {
	batchID := newBatchID()
	metrics.ObserveBulkBatch(len(inputs))

	results := make([]BulkResult, len(inputs))
	var g errgroup.Group
	g.SetLimit(uc.workers)
	for i, in := range inputs {
		g.Go(func() error {
			id, err := uc.reviews.SubmitReview(ctx, in)
			results[i] = BulkResult{Index: i, Input: in, ReviewID: id, Err: err}
			if err != nil {
				uc.log.Warnw("msg", "bulk review failed", "batch", batchID, "index", i,
					"user", in.User.String(), "media", in.Media.String(), "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	uc.log.Infow("msg", "bulk review finished", "batch", batchID, "submitted", len(inputs)-failed, "failed", failed)
	return results
}

func newBatchID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
