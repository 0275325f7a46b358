package data

import (
	"context"

	"mediareview/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepo struct {
	data *Data
	log  *log.Helper
}

// NewReviewRepo creates a new review repository
func NewReviewRepo(data *Data, logger log.Logger) biz.ReviewRepo {
	return &reviewRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/review")),
	}
}

func (r *reviewRepo) CreateReview(ctx context.Context, review *biz.Review) (int64, error) {
	row := &Review{
		UserID:  review.UserID,
		MediaID: review.MediaID,
		Rating:  review.Rating,
		Comment: review.Comment,
	}

	err := r.data.write(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(row).Error
	})
	if err != nil {
		return 0, mapError(err, biz.ErrNotFound)
	}

	r.log.WithContext(ctx).Debugf("stored review %d (user %d, media %d)", row.ID, row.UserID, row.MediaID)
	return row.ID, nil
}

// ListReviews returns every distinct (user, media, rating, comment) row in
// first-insertion order.
func (r *reviewRepo) ListReviews(ctx context.Context) ([]*biz.ReviewView, error) {
	var rows []reviewRow
	err := r.data.db.WithContext(ctx).
		Table("reviews").
		Select("users.name AS user_name, media.title AS media_title, reviews.rating AS rating, reviews.comment AS comment").
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN media ON media.id = reviews.media_id").
		Group("users.name, media.title, reviews.rating, reviews.comment").
		Order("MIN(reviews.id)").
		Scan(&rows).Error
	if err != nil {
		return nil, mapError(err, biz.ErrNotFound)
	}

	views := make([]*biz.ReviewView, 0, len(rows))
	for _, row := range rows {
		views = append(views, &biz.ReviewView{
			UserName:   row.UserName,
			MediaTitle: row.MediaTitle,
			Rating:     row.Rating,
			Comment:    row.Comment,
		})
	}
	return views, nil
}

func (r *reviewRepo) ListReviewedMediaIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.data.db.WithContext(ctx).
		Model(&Review{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("media_id", &ids).Error
	if err != nil {
		return nil, mapError(err, biz.ErrNotFound)
	}
	return ids, nil
}
