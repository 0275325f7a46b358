package service

import (
	"mediareview/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewReviewService)

// ReviewService exposes the catalog and review operations to the CLI and the
// HTTP transport.
type ReviewService struct {
	reviewUC  *biz.ReviewUseCase
	bulkUC    *biz.BulkUseCase
	catalogUC *biz.CatalogUseCase
	log       *log.Helper
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewUC *biz.ReviewUseCase, bulkUC *biz.BulkUseCase, catalogUC *biz.CatalogUseCase, logger log.Logger) *ReviewService {
	return &ReviewService{
		reviewUC:  reviewUC,
		bulkUC:    bulkUC,
		catalogUC: catalogUC,
		log:       log.NewHelper(log.With(logger, "module", "service")),
	}
}
