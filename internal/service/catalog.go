package service

import (
	"context"

	"mediareview/internal/biz"
)

// CreateUser implements user registration
func (s *ReviewService) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserReply, error) {
	user, err := s.catalogUC.CreateUser(ctx, req.Name)
	if err != nil {
		return nil, toKratosError(err)
	}
	return &UserReply{ID: user.ID, Name: user.Name}, nil
}

// ListUsers implements user listing
func (s *ReviewService) ListUsers(ctx context.Context) (*ListUsersReply, error) {
	users, err := s.catalogUC.ListUsers(ctx)
	if err != nil {
		return nil, toKratosError(err)
	}

	reply := &ListUsersReply{Users: make([]*UserReply, 0, len(users))}
	for _, u := range users {
		reply.Users = append(reply.Users, &UserReply{ID: u.ID, Name: u.Name})
	}
	return reply, nil
}

// CreateMedia implements media registration
func (s *ReviewService) CreateMedia(ctx context.Context, req *CreateMediaRequest) (*MediaReply, error) {
	media, err := s.catalogUC.CreateMedia(ctx, req.Title, req.Type)
	if err != nil {
		return nil, toKratosError(err)
	}
	return mediaToReply(media), nil
}

// ListMedia implements media listing
func (s *ReviewService) ListMedia(ctx context.Context) (*ListMediaReply, error) {
	media, err := s.catalogUC.ListMedia(ctx)
	if err != nil {
		return nil, toKratosError(err)
	}

	reply := &ListMediaReply{Media: make([]*MediaReply, 0, len(media))}
	for _, m := range media {
		reply.Media = append(reply.Media, mediaToReply(m))
	}
	return reply, nil
}

// Subscribe implements subscription registration
func (s *ReviewService) Subscribe(ctx context.Context, req *SubscribeRequest) (*SubscribeReply, error) {
	user, err := biz.ParseRef(req.User, req.ByID)
	if err != nil {
		return nil, toKratosError(err)
	}
	media, err := biz.ParseRef(req.Media, req.ByID)
	if err != nil {
		return nil, toKratosError(err)
	}

	created, err := s.catalogUC.Subscribe(ctx, user, media)
	if err != nil {
		return nil, toKratosError(err)
	}
	return &SubscribeReply{Created: created}, nil
}

// Recommend implements recommendations
func (s *ReviewService) Recommend(ctx context.Context, req *RecommendRequest) (*RecommendReply, error) {
	user, err := biz.ParseRef(req.User, req.ByID)
	if err != nil {
		return nil, toKratosError(err)
	}

	recs, err := s.catalogUC.Recommend(ctx, user)
	if err != nil {
		return nil, toKratosError(err)
	}

	reply := &RecommendReply{Recommendations: make([]*RecommendationReply, 0, len(recs))}
	for _, r := range recs {
		reply.Recommendations = append(reply.Recommendations, &RecommendationReply{
			Title:     r.Title,
			Type:      string(r.Type),
			AvgRating: r.AvgRating,
		})
	}
	return reply, nil
}

func mediaToReply(m *biz.Media) *MediaReply {
	return &MediaReply{ID: m.ID, Title: m.Title, Type: string(m.Type)}
}

// HealthCheck implements health check
func (s *ReviewService) HealthCheck(ctx context.Context) (*HealthCheckReply, error) {
	return &HealthCheckReply{Status: "ok"}, nil
}
