package server

import (
	"context"
	"net/http"

	"mediareview/internal/service"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationCreateUser    = "/mediareview.v1.ReviewService/CreateUser"
	OperationListUsers     = "/mediareview.v1.ReviewService/ListUsers"
	OperationCreateMedia   = "/mediareview.v1.ReviewService/CreateMedia"
	OperationListMedia     = "/mediareview.v1.ReviewService/ListMedia"
	OperationSubmitReview  = "/mediareview.v1.ReviewService/SubmitReview"
	OperationSubmitReviews = "/mediareview.v1.ReviewService/SubmitReviews"
	OperationListReviews   = "/mediareview.v1.ReviewService/ListReviews"
	OperationSubscribe     = "/mediareview.v1.ReviewService/Subscribe"
	OperationRecommend     = "/mediareview.v1.ReviewService/Recommend"
	OperationHealthCheck   = "/mediareview.v1.ReviewService/HealthCheck"
)

type emptyRequest struct{}

// RegisterReviewServiceHTTPServer mounts the JSON API under /v1.
func RegisterReviewServiceHTTPServer(s *khttp.Server, svc *service.ReviewService) {
	r := s.Route("/")
	r.POST("/v1/users", handle(OperationCreateUser, bindBody[service.CreateUserRequest], svc.CreateUser))
	r.GET("/v1/users", handle(OperationListUsers, nil,
		func(ctx context.Context, _ *emptyRequest) (*service.ListUsersReply, error) {
			return svc.ListUsers(ctx)
		}))
	r.POST("/v1/media", handle(OperationCreateMedia, bindBody[service.CreateMediaRequest], svc.CreateMedia))
	r.GET("/v1/media", handle(OperationListMedia, nil,
		func(ctx context.Context, _ *emptyRequest) (*service.ListMediaReply, error) {
			return svc.ListMedia(ctx)
		}))
	r.POST("/v1/reviews", handle(OperationSubmitReview, bindBody[service.SubmitReviewRequest], svc.SubmitReview))
	r.POST("/v1/reviews/bulk", handle(OperationSubmitReviews, bindBody[service.SubmitReviewsRequest], svc.SubmitReviews))
	r.GET("/v1/reviews", handle(OperationListReviews, nil,
		func(ctx context.Context, _ *emptyRequest) (*service.ListReviewsReply, error) {
			return svc.ListReviews(ctx)
		}))
	r.POST("/v1/subscriptions", handle(OperationSubscribe, bindBody[service.SubscribeRequest], svc.Subscribe))
	r.GET("/v1/users/{name}/recommendations", handle(OperationRecommend, bindRecommend, svc.Recommend))
	r.GET("/healthz", handle(OperationHealthCheck, nil,
		func(ctx context.Context, _ *emptyRequest) (*service.HealthCheckReply, error) {
			return svc.HealthCheck(ctx)
		}))
}

// handle binds the request, runs it through the server middleware chain
// under operation and encodes the reply.
func handle[Req, Reply any](operation string, bind func(khttp.Context, *Req) error, call func(context.Context, *Req) (Reply, error)) khttp.HandlerFunc {
	return func(ctx khttp.Context) error {
		var in Req
		if bind != nil {
			if err := bind(ctx, &in); err != nil {
				return err
			}
		}
		khttp.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	}
}

func bindBody[Req any](ctx khttp.Context, in *Req) error {
	return ctx.Bind(in)
}

func bindRecommend(ctx khttp.Context, in *service.RecommendRequest) error {
	in.User = ctx.Vars().Get("name")
	in.ByID = ctx.Query().Get("by_id") == "true"
	return nil
}
