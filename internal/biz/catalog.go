package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
)

// MaxRecommendations caps Recommend results.
const MaxRecommendations = 5

// CatalogUseCase handles users, media and subscriptions.
type CatalogUseCase struct {
	users   UserRepo
	media   MediaRepo
	reviews ReviewRepo
	subs    SubscriptionRepo
	log     *log.Helper
}

// NewCatalogUseCase creates a new CatalogUseCase instance
func NewCatalogUseCase(users UserRepo, media MediaRepo, reviews ReviewRepo, subs SubscriptionRepo, logger log.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		users:   users,
		media:   media,
		reviews: reviews,
		subs:    subs,
		log:     log.NewHelper(log.With(logger, "module", "biz/catalog")),
	}
}

// CreateUser registers name; names are unique ignoring case.
func (uc *CatalogUseCase) CreateUser(ctx context.Context, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	user, err := uc.users.CreateUser(ctx, name)
	if err != nil {
		return nil, storageError(fmt.Sprintf("create user '%s'", name), err)
	}
	return user, nil
}

// CreateMedia registers a media item; titles are unique ignoring case.
func (uc *CatalogUseCase) CreateMedia(ctx context.Context, title, mediaType string) (*Media, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: media title cannot be empty", ErrValidation)
	}
	t, err := ParseMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	media, err := uc.media.CreateMedia(ctx, title, t)
	if err != nil {
		return nil, storageError(fmt.Sprintf("create media '%s'", title), err)
	}
	return media, nil
}

// ListUsers returns every user ordered by id.
func (uc *CatalogUseCase) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}

// ListMedia returns every media item ordered by id.
func (uc *CatalogUseCase) ListMedia(ctx context.Context) ([]*Media, error) {
	media, err := uc.media.ListMedia(ctx)
	if err != nil {
		return nil, storageError("list media", err)
	}
	return media, nil
}

// Subscribe registers user's interest in media. Subscribing twice is a no-op
// reported through created=false.
func (uc *CatalogUseCase) Subscribe(ctx context.Context, userRef, mediaRef Ref) (created bool, err error) {
	user, err := uc.users.FindUser(ctx, userRef)
	if err != nil {
		return false, storageError(fmt.Sprintf("find user %s", userRef), err)
	}
	media, err := uc.media.FindMedia(ctx, mediaRef)
	if err != nil {
		return false, storageError(fmt.Sprintf("find media %s", mediaRef), err)
	}
	created, err = uc.subs.Subscribe(ctx, user.ID, media.ID)
	if err != nil {
		return false, storageError("subscribe", err)
	}
	if created {
		uc.log.Infof("user '%s' subscribed to '%s'", user.Name, media.Title)
	}
	return created, nil
}

// Recommend returns up to MaxRecommendations media for a user: the top rated
// media (unrated last) followed by media the user subscribed to, skipping
// anything the user already reviewed. Only the MaxRecommendations best rated
// media are candidates, so subscriptions can fill the remaining slots.
func (uc *CatalogUseCase) Recommend(ctx context.Context, userRef Ref) ([]*Recommendation, error) {
	user, err := uc.users.FindUser(ctx, userRef)
	if err != nil {
		return nil, storageError(fmt.Sprintf("find user %s", userRef), err)
	}

	rated, err := uc.media.ListRatedMedia(ctx)
	if err != nil {
		return nil, storageError("list rated media", err)
	}
	subscribed, err := uc.subs.ListSubscribedMedia(ctx, user.ID)
	if err != nil {
		return nil, storageError("list subscribed media", err)
	}
	reviewedIDs, err := uc.reviews.ListReviewedMediaIDs(ctx, user.ID)
	if err != nil {
		return nil, storageError("list reviewed media", err)
	}

	skip := make(map[int64]struct{}, len(reviewedIDs))
	for _, id := range reviewedIDs {
		skip[id] = struct{}{}
	}

	recs := make([]*Recommendation, 0, MaxRecommendations)
	add := func(m Media, avg *float64) {
		if len(recs) >= MaxRecommendations {
			return
		}
		if _, ok := skip[m.ID]; ok {
			return
		}
		skip[m.ID] = struct{}{}
		recs = append(recs, &Recommendation{Title: m.Title, Type: m.Type, AvgRating: avg})
	}
	if len(rated) > MaxRecommendations {
		rated = rated[:MaxRecommendations]
	}
	for _, m := range rated {
		add(m.Media, m.Average)
	}
	for _, m := range subscribed {
		add(*m, nil)
	}
	return recs, nil
}
