package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"mediareview/internal/biz"
	"mediareview/internal/conf"
	"mediareview/internal/data"
	"mediareview/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, token string) *khttp.Server {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)
	dir := t.TempDir()

	bc := conf.Default()
	bc.Data.Database.Source = filepath.Join(dir, "reviews.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	bc.Notify.LogFile = filepath.Join(dir, "notifications.log")
	bc.Server.AuthToken = token

	d, dataCleanup, err := data.NewData(bc.Data, bc.Ingest, logger)
	require.NoError(t, err)
	users := data.NewUserRepo(d, logger)
	media := data.NewMediaRepo(d, logger)
	reviews := data.NewReviewRepo(d, logger)
	subs := data.NewSubscriptionRepo(d, logger)
	sink, sinkCleanup, err := data.NewNotificationSink(bc.Notify, logger)
	require.NoError(t, err)
	notifier, notifierCleanup := biz.NewNotifier(bc.Notify, subs, sink, logger)
	reviewUC := biz.NewReviewUseCase(bc.Data, users, media, reviews, data.NewCache(d, logger), notifier, logger)
	svc := service.NewReviewService(
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

	return NewHTTPServer(bc.Server, svc, logger)
}

func do(t *testing.T, srv http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHTTP_ReviewFlow(t *testing.T) {
	srv := newTestServer(t, "")

	rec := do(t, srv, http.MethodPost, "/v1/users", `{"name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/v1/media", `{"title":"Inception","type":"Movie"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/v1/reviews", `{"user":"Alice","media":"Inception","rating":5,"comment":"Great"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/v1/reviews", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list service.ListReviewsReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []*service.ReviewReply{
		{User: "Alice", Media: "Inception", Rating: 5, Comment: "Great"},
	}, list.Reviews)

	rec = do(t, srv, http.MethodGet, "/v1/users/Alice/recommendations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var recs service.RecommendReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	assert.Empty(t, recs.Recommendations)
}

func TestHTTP_ErrorStatus(t *testing.T) {
	srv := newTestServer(t, "")

	rec := do(t, srv, http.MethodPost, "/v1/users", `{"name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"duplicate user", http.MethodPost, "/v1/users", `{"name":"ALICE"}`, http.StatusConflict},
		{"bad media type", http.MethodPost, "/v1/media", `{"title":"X","type":"Podcast"}`, http.StatusBadRequest},
		{"unknown media", http.MethodPost, "/v1/reviews", `{"user":"Alice","media":"Nope","rating":3,"comment":"x"}`, http.StatusNotFound},
		{"rating out of range", http.MethodPost, "/v1/reviews", `{"user":"Alice","media":"Nope","rating":9,"comment":"x"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/v1/users", `{"name":`, http.StatusBadRequest},
		{"unknown recommendation user", http.MethodGet, "/v1/users/Ghost/recommendations", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestHTTP_BulkReviews(t *testing.T) {
	srv := newTestServer(t, "")

	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/v1/users", `{"name":"Alice"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/v1/media", `{"title":"Dark","type":"webshow"}`).Code)

	rec := do(t, srv, http.MethodPost, "/v1/reviews/bulk", `{"reviews":[
		{"user":"Alice","media":"Dark","rating":5,"comment":"one"},
		{"user":"Bob","media":"Dark","rating":5,"comment":"two"}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var reply service.SubmitReviewsReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, 1, reply.Submitted)
	assert.Equal(t, 1, reply.Failed)
}

func TestHTTP_AuthOnWrites(t *testing.T) {
	srv := newTestServer(t, "s3cret")

	rec := do(t, srv, http.MethodPost, "/v1/users", `{"name":"Alice"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/v1/users", `{"name":"Alice"}`, "Authorization", "Token s3cret")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/v1/users", `{"name":"Alice"}`, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/v1/users", `{"name":"Alice"}`, "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusCreated, rec.Code)

	// reads stay open
	rec = do(t, srv, http.MethodGet, "/v1/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTP_Metrics(t *testing.T) {
	srv := newTestServer(t, "")

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/reviews", "").Code)

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mediareview_review_cache_requests_total")
}

func TestHTTP_HealthCheck(t *testing.T) {
	srv := newTestServer(t, "secret")

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var reply service.HealthCheckReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "ok", reply.Status)
}
