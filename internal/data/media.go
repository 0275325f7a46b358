package data

import (
	"context"
	"fmt"

	"mediareview/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

type mediaRepo struct {
	data *Data
	log  *log.Helper
}

// NewMediaRepo creates a new media repository
func NewMediaRepo(data *Data, logger log.Logger) biz.MediaRepo {
	return &mediaRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/media")),
	}
}

func (r *mediaRepo) CreateMedia(ctx context.Context, title string, mediaType biz.MediaType) (*biz.Media, error) {
	row := &Media{Title: title, Type: string(mediaType)}
	err := r.data.write(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Media{}).Where("LOWER(title) = LOWER(?)", title).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return biz.ErrAlreadyExists
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create media %q: %w", title, mapError(err, biz.ErrMediaNotFound))
	}

	r.log.WithContext(ctx).Debugf("created media %d (%s, %s)", row.ID, row.Title, row.Type)
	return r.modelToBiz(row), nil
}

func (r *mediaRepo) FindMedia(ctx context.Context, ref biz.Ref) (*biz.Media, error) {
	if m, ok := r.data.media.Get(refKey(ref)); ok {
		return &m, nil
	}

	q := r.data.db.WithContext(ctx)
	if id, ok := ref.ID(); ok {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("LOWER(title) = LOWER(?)", ref.Name())
	}

	var row Media
	if err := q.First(&row).Error; err != nil {
		return nil, mapError(err, biz.ErrMediaNotFound)
	}

	m := r.modelToBiz(&row)
	r.data.media.Add(refKey(biz.ByID(m.ID)), *m)
	r.data.media.Add(refKey(biz.ByName(m.Title)), *m)
	return m, nil
}

func (r *mediaRepo) ListMedia(ctx context.Context) ([]*biz.Media, error) {
	var rows []Media
	if err := r.data.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, mapError(err, biz.ErrMediaNotFound)
	}

	media := make([]*biz.Media, 0, len(rows))
	for i := range rows {
		media = append(media, r.modelToBiz(&rows[i]))
	}
	return media, nil
}

// ListRatedMedia returns every media item with its average rating, best first.
// Unrated items come last, in creation order.
func (r *mediaRepo) ListRatedMedia(ctx context.Context) ([]*biz.RatedMedia, error) {
	var rows []ratedRow
	err := r.data.db.WithContext(ctx).
		Table("media").
		Select("media.id, media.title, media.type, AVG(reviews.rating) AS average").
		Joins("LEFT JOIN reviews ON reviews.media_id = media.id").
		Group("media.id, media.title, media.type").
		Order("CASE WHEN AVG(reviews.rating) IS NULL THEN 1 ELSE 0 END, AVG(reviews.rating) DESC, media.id").
		Scan(&rows).Error
	if err != nil {
		return nil, mapError(err, biz.ErrMediaNotFound)
	}

	rated := make([]*biz.RatedMedia, 0, len(rows))
	for _, row := range rows {
		rated = append(rated, &biz.RatedMedia{
			Media:   biz.Media{ID: row.ID, Title: row.Title, Type: biz.MediaType(row.Type)},
			Average: row.Average,
		})
	}
	return rated, nil
}

func (r *mediaRepo) modelToBiz(row *Media) *biz.Media {
	return &biz.Media{
		ID:    row.ID,
		Title: row.Title,
		Type:  biz.MediaType(row.Type),
	}
}
