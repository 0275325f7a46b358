package biz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"mediareview/internal/conf"
	"mediareview/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

const (
	MinRating = 1
	MaxRating = 5

	// ReviewsCacheKey holds the serialized full review listing.
	ReviewsCacheKey = "reviews:all"
)

// ReviewUseCase ingests reviews and serves the cached full review listing.
type ReviewUseCase struct {
	users    UserRepo
	media    MediaRepo
	reviews  ReviewRepo
	cache    Cache
	ttl      time.Duration
	notifier *Notifier
	log      *log.Helper

	// mu orders cache population against invalidation; generation counts invalidations.
	mu         sync.Mutex
	generation uint64
	group      singleflight.Group
}

// NewReviewUseCase creates a new ReviewUseCase instance
func NewReviewUseCase(c *conf.Data, users UserRepo, media MediaRepo, reviews ReviewRepo, cache Cache, notifier *Notifier, logger log.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		users:    users,
		media:    media,
		reviews:  reviews,
		cache:    cache,
		ttl:      c.Cache.ReviewsTtl.AsDuration(),
		notifier: notifier,
		log:      log.NewHelper(log.With(logger, "module", "biz/review")),
	}
}

// SubmitReview validates and stores one review, invalidates the review listing
// cache and schedules subscriber notification without waiting for it.
func (uc *ReviewUseCase) SubmitReview(ctx context.Context, in ReviewInput) (int64, error) {
	id, err := uc.submit(ctx, in)
	metrics.RecordReview(resultLabel(err))
	return id, err
}

func (uc *ReviewUseCase) submit(ctx context.Context, in ReviewInput) (int64, error) {
	if err := ValidateReview(in.Rating, in.Comment); err != nil {
		return 0, err
	}

	user, err := uc.users.FindUser(ctx, in.User)
	if err != nil {
		return 0, storageError(fmt.Sprintf("find user %s", in.User), err)
	}
	media, err := uc.media.FindMedia(ctx, in.Media)
	if err != nil {
		return 0, storageError(fmt.Sprintf("find media %s", in.Media), err)
	}

	id, err := uc.reviews.CreateReview(ctx, &Review{
		UserID:  user.ID,
		MediaID: media.ID,
		Rating:  in.Rating,
		Comment: in.Comment,
	})
	if err != nil {
		return 0, storageError("create review", err)
	}

	// Committed: invalidate before returning so no later miss sees a pre-commit snapshot.
	uc.invalidate(context.WithoutCancel(ctx))

	summary := fmt.Sprintf("User '%s' reviewed '%s' with Rating %d: %s", user.Name, media.Title, in.Rating, in.Comment)
	uc.notifier.Dispatch(media.ID, summary)

	uc.log.Debugf("review %d by '%s' for '%s' stored", id, user.Name, media.Title)
	return id, nil
}

// ValidateReview checks the comment first, then the rating range.
func ValidateReview(rating int, comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrEmptyComment
	}
	if rating < MinRating || rating > MaxRating {
		return ErrRatingOutOfRange
	}
	return nil
}

// ListReviews returns every review, served from the cache when present.
func (uc *ReviewUseCase) ListReviews(ctx context.Context) ([]*ReviewView, error) {
	cached, err := uc.cache.Get(ctx, ReviewsCacheKey)
	if err == nil {
		var views []*ReviewView
		if err := json.Unmarshal(cached, &views); err == nil {
			metrics.RecordCacheHit()
			uc.log.Debugf("cache hit for %s", ReviewsCacheKey)
			return views, nil
		}
		uc.log.Warnf("discarding undecodable cache entry %s", ReviewsCacheKey)
	} else if !errors.Is(err, ErrCacheMiss) {
		uc.log.Warnf("cache get %s: %v", ReviewsCacheKey, err)
	}
	metrics.RecordCacheMiss()

	uc.mu.Lock()
	gen := uc.generation
	uc.mu.Unlock()

	// the read is shared by every waiter on gen, so one caller going away must not fail the rest
	shared := context.WithoutCancel(ctx)
	v, err, _ := uc.group.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		views, err := uc.reviews.ListReviews(shared)
		if err != nil {
			return nil, storageError("list reviews", err)
		}
		uc.populate(shared, gen, views)
		return views, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*ReviewView), nil
}

// populate stores views unless an invalidation happened after they were read.
func (uc *ReviewUseCase) populate(ctx context.Context, gen uint64, views []*ReviewView) {
	data, err := json.Marshal(views)
	if err != nil {
		uc.log.Warnf("encode %s: %v", ReviewsCacheKey, err)
		return
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.generation != gen {
		uc.log.Debugf("skip populating %s: invalidated during read", ReviewsCacheKey)
		return
	}
	if err := uc.cache.Set(ctx, ReviewsCacheKey, data, uc.ttl); err != nil {
		uc.log.Warnf("cache set %s: %v", ReviewsCacheKey, err)
	}
}

func (uc *ReviewUseCase) invalidate(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.generation++
	if err := uc.cache.Delete(ctx, ReviewsCacheKey); err != nil {
		// The committed review stays; the stale entry is bounded by its TTL.
		uc.log.Errorf("cache delete %s: %v", ReviewsCacheKey, err)
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "storage"
	}
}
