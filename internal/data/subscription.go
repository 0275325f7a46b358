package data

import (
	"context"

	"mediareview/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriptionRepo struct {
	data *Data
	log  *log.Helper
}

// NewSubscriptionRepo creates a new subscription repository
func NewSubscriptionRepo(data *Data, logger log.Logger) biz.SubscriptionRepo {
	return &subscriptionRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/subscription")),
	}
}

// Subscribe records the pair once; created is false when it already existed.
func (r *subscriptionRepo) Subscribe(ctx context.Context, userID, mediaID int64) (bool, error) {
	var created bool
	err := r.data.write(ctx, func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Subscription{UserID: userID, MediaID: mediaID})
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, mapError(err, biz.ErrNotFound)
	}
	return created, nil
}

// ListSubscribers returns subscriber names in subscription order.
func (r *subscriptionRepo) ListSubscribers(ctx context.Context, mediaID int64) ([]string, error) {
	var names []string
	err := r.data.db.WithContext(ctx).
		Table("subscriptions").
		Joins("JOIN users ON users.id = subscriptions.user_id").
		Where("subscriptions.media_id = ?", mediaID).
		Order("subscriptions.id").
		Pluck("users.name", &names).Error
	if err != nil {
		return nil, mapError(err, biz.ErrNotFound)
	}
	return names, nil
}

func (r *subscriptionRepo) ListSubscribedMedia(ctx context.Context, userID int64) ([]*biz.Media, error) {
	var rows []Media
	err := r.data.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.media_id = media.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.id").
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err, biz.ErrNotFound)
	}

	media := make([]*biz.Media, 0, len(rows))
	for _, row := range rows {
		media = append(media, &biz.Media{ID: row.ID, Title: row.Title, Type: biz.MediaType(row.Type)})
	}
	return media, nil
}
