package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediareview/internal/biz"
	"mediareview/internal/conf"
	"mediareview/internal/data"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc     *ReviewService
	cache   biz.Cache
	logPath string
	// closeNotifier drains pending notifications.
	closeNotifier func()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)
	dir := t.TempDir()

	bc := conf.Default()
	bc.Data.Database.Source = filepath.Join(dir, "reviews.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	bc.Notify.LogFile = filepath.Join(dir, "notifications.log")
	bc.Ingest.BulkWorkers = 4

	d, dataCleanup, err := data.NewData(bc.Data, bc.Ingest, logger)
	require.NoError(t, err)

	users := data.NewUserRepo(d, logger)
	media := data.NewMediaRepo(d, logger)
	reviews := data.NewReviewRepo(d, logger)
	subs := data.NewSubscriptionRepo(d, logger)
	cache := data.NewCache(d, logger)

	sink, sinkCleanup, err := data.NewNotificationSink(bc.Notify, logger)
	require.NoError(t, err)
	notifier, notifierCleanup := biz.NewNotifier(bc.Notify, subs, sink, logger)

	reviewUC := biz.NewReviewUseCase(bc.Data, users, media, reviews, cache, notifier, logger)
	svc := NewReviewService(
		reviewUC,
		biz.NewBulkUseCase(bc.Ingest, reviewUC, logger),
		biz.NewCatalogUseCase(users, media, reviews, subs, logger),
		logger,
	)

	t.Cleanup(func() {
		notifierCleanup()
		sinkCleanup()
		dataCleanup()
	})

	return &testEnv{
		svc:           svc,
		cache:         cache,
		logPath:       bc.Notify.LogFile,
		closeNotifier: notifierCleanup,
	}
}

func (e *testEnv) cached(t *testing.T) bool {
	t.Helper()
	_, err := e.cache.Get(context.Background(), biz.ReviewsCacheKey)
	if errors.Is(err, biz.ErrCacheMiss) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestReviewFlow_InvalidatesAndRepopulatesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateUser(ctx, &CreateUserRequest{Name: "Alice"})
	require.NoError(t, err)
	_, err = env.svc.CreateMedia(ctx, &CreateMediaRequest{Title: "Inception", Type: "movie"})
	require.NoError(t, err)

	empty, err := env.svc.ListReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Reviews)
	assert.True(t, env.cached(t))

	reply, err := env.svc.SubmitReview(ctx, &SubmitReviewRequest{
		User: "Alice", Media: "Inception", Rating: 5, Comment: "Great",
	})
	require.NoError(t, err)
	assert.Positive(t, reply.ReviewID)
	assert.False(t, env.cached(t))

	list, err := env.svc.ListReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*ReviewReply{
		{User: "Alice", Media: "Inception", Rating: 5, Comment: "Great"},
	}, list.Reviews)
	assert.True(t, env.cached(t))
}

func TestSubmitReview_ByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.svc.CreateUser(ctx, &CreateUserRequest{Name: "Alice"})
	require.NoError(t, err)
	m, err := env.svc.CreateMedia(ctx, &CreateMediaRequest{Title: "Inception", Type: "Movie"})
	require.NoError(t, err)

	_, err = env.svc.SubmitReview(ctx, &SubmitReviewRequest{
		User:    fmt.Sprint(u.ID),
		Media:   fmt.Sprint(m.ID),
		ByID:    true,
		Rating:  4,
		Comment: "Good",
	})
	require.NoError(t, err)

	_, err = env.svc.SubmitReview(ctx, &SubmitReviewRequest{
		User: "Alice", Media: "x", ByID: true, Rating: 4, Comment: "Good",
	})
	assert.Equal(t, 400, int(kerrors.Code(err)))
}

func TestSubmitReview_ErrorMapping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateUser(ctx, &CreateUserRequest{Name: "Alice"})
	require.NoError(t, err)
	_, err = env.svc.CreateMedia(ctx, &CreateMediaRequest{Title: "Inception", Type: "Movie"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		req    *SubmitReviewRequest
		code   int
		reason string
		is     error
	}{
		{
			name:   "rating out of range",
			req:    &SubmitReviewRequest{User: "Alice", Media: "Inception", Rating: 6, Comment: "x"},
			code:   400,
			reason: ReasonValidation,
			is:     biz.ErrRatingOutOfRange,
		},
		{
			name:   "blank comment",
			req:    &SubmitReviewRequest{User: "Alice", Media: "Inception", Rating: 3, Comment: "   "},
			code:   400,
			reason: ReasonValidation,
			is:     biz.ErrEmptyComment,
		},
		{
			name:   "unknown user",
			req:    &SubmitReviewRequest{User: "Ghost", Media: "Inception", Rating: 3, Comment: "x"},
			code:   404,
			reason: ReasonNotFound,
			is:     biz.ErrUserNotFound,
		},
		{
			name:   "unknown media",
			req:    &SubmitReviewRequest{User: "Alice", Media: "Tenet", Rating: 3, Comment: "x"},
			code:   404,
			reason: ReasonNotFound,
			is:     biz.ErrMediaNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.SubmitReview(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, int(kerrors.Code(err)))
			assert.Equal(t, tt.reason, kerrors.Reason(err))
			assert.ErrorIs(t, err, tt.is)
		})
	}

	list, err := env.svc.ListReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Reviews)
}

func TestCreateUser_DuplicateIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateUser(ctx, &CreateUserRequest{Name: "Alice"})
	require.NoError(t, err)

	_, err = env.svc.CreateUser(ctx, &CreateUserRequest{Name: "alice"})
	assert.Equal(t, 409, int(kerrors.Code(err)))

	_, err = env.svc.CreateUser(ctx, &CreateUserRequest{Name: " "})
	assert.Equal(t, 400, int(kerrors.Code(err)))
}

func TestSubmitReviews_PerItemResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateUser(ctx, &CreateUserRequest{Name: "Alice"})
	require.NoError(t, err)
	_, err = env.svc.CreateMedia(ctx, &CreateMediaRequest{Title: "Inception", Type: "Movie"})
	require.NoError(t, err)

	reply, err := env.svc.SubmitReviews(ctx, &SubmitReviewsRequest{Reviews: []*SubmitReviewRequest{
		{User: "Alice", Media: "Inception", Rating: 5, Comment: "one"},
		{User: "Ghost", Media: "Inception", Rating: 5, Comment: "two"},
		{User: "abc", Media: "Inception", ByID: true, Rating: 5, Comment: "three"},
		nil,
		{User: "Alice", Media: "Inception", Rating: 3, Comment: "four"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 2, reply.Submitted)
	assert.Equal(t, 3, reply.Failed)
	require.Len(t, reply.Results, 5)
	assert.Positive(t, reply.Results[0].ReviewID)
	assert.Contains(t, reply.Results[1].Error, "not found")
	assert.Contains(t, reply.Results[2].Error, "invalid id")
	assert.Equal(t, "empty review", reply.Results[3].Error)
	assert.Positive(t, reply.Results[4].ReviewID)

	_, err = env.svc.SubmitReviews(ctx, &SubmitReviewsRequest{})
	assert.Equal(t, 400, int(kerrors.Code(err)))
}

func TestSubscribe_AndNotify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Rachel"} {
		_, err := env.svc.CreateUser(ctx, &CreateUserRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := env.svc.CreateMedia(ctx, &CreateMediaRequest{Title: "Dark", Type: "WebShow"})
	require.NoError(t, err)

	sub, err := env.svc.Subscribe(ctx, &SubscribeRequest{User: "Rachel", Media: "Dark"})
	require.NoError(t, err)
	assert.True(t, sub.Created)

	sub, err = env.svc.Subscribe(ctx, &SubscribeRequest{User: "rachel", Media: "DARK"})
	require.NoError(t, err)
	assert.False(t, sub.Created)

	_, err = env.svc.SubmitReview(ctx, &SubmitReviewRequest{
		User: "Alice", Media: "Dark", Rating: 5, Comment: "Mind-bending",
	})
	require.NoError(t, err)

	env.closeNotifier()

	b, err := os.ReadFile(env.logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "subscriber=Rachel")
	assert.Contains(t, string(b), "User 'Alice' reviewed 'Dark' with Rating 5: Mind-bending")
}

func TestRecommend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob"} {
		_, err := env.svc.CreateUser(ctx, &CreateUserRequest{Name: name})
		require.NoError(t, err)
	}
	for _, title := range []string{"Inception", "Memento", "Titanic"} {
		_, err := env.svc.CreateMedia(ctx, &CreateMediaRequest{Title: title, Type: "Movie"})
		require.NoError(t, err)
	}
	for _, r := range []*SubmitReviewRequest{
		{User: "Bob", Media: "Memento", Rating: 4, Comment: "clever"},
		{User: "Bob", Media: "Inception", Rating: 5, Comment: "great"},
		{User: "Alice", Media: "Inception", Rating: 5, Comment: "loved it"},
	} {
		_, err := env.svc.SubmitReview(ctx, r)
		require.NoError(t, err)
	}

	reply, err := env.svc.Recommend(ctx, &RecommendRequest{User: "Alice"})
	require.NoError(t, err)
	require.Len(t, reply.Recommendations, 2)
	assert.Equal(t, "Memento", reply.Recommendations[0].Title)
	require.NotNil(t, reply.Recommendations[0].AvgRating)
	assert.InDelta(t, 4.0, *reply.Recommendations[0].AvgRating, 1e-9)
	assert.Equal(t, "Titanic", reply.Recommendations[1].Title)
	assert.Nil(t, reply.Recommendations[1].AvgRating)

	_, err = env.svc.Recommend(ctx, &RecommendRequest{User: "Ghost"})
	assert.Equal(t, 404, int(kerrors.Code(err)))
}

func TestSeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	users := env.svc.SeedUsers(ctx)
	assert.Equal(t, 50, users.Added)

	media := env.svc.SeedMedia(ctx)
	assert.Equal(t, 48, media.Added)
	require.Len(t, media.Results, 49)
	dup := media.Results[39]
	assert.Equal(t, "Bohemian Rhapsody", dup.Name)
	assert.Equal(t, 409, int(kerrors.Code(dup.Error)))

	reviews, err := env.svc.SeedReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 47, reviews.Submitted)
	assert.Equal(t, 3, reviews.Failed)

	// seeding twice reports every row as a duplicate
	again := env.svc.SeedUsers(ctx)
	assert.Zero(t, again.Added)
}

func TestToKratosError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{biz.ErrEmptyName, 400},
		{biz.ErrMediaNotFound, 404},
		{fmt.Errorf("create: %w", biz.ErrAlreadyExists), 409},
		{fmt.Errorf("write: %w: timeout", biz.ErrStorage), 503},
		{errors.New("boom"), 500},
	}
	for _, tt := range tests {
		err := toKratosError(tt.err)
		assert.Equal(t, tt.code, int(kerrors.Code(err)), tt.err.Error())
		assert.ErrorIs(t, err, tt.err)
	}
	assert.NoError(t, toKratosError(nil))
}

func TestListUsers_DeadlineIsStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := env.svc.ListUsers(ctx)
	assert.Equal(t, 503, int(kerrors.Code(err)))
}
