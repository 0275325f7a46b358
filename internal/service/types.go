package service

import "net/http"

type CreateUserRequest struct {
	Name string `json:"name"`
}

type UserReply struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (*UserReply) HTTPStatus() int { return http.StatusCreated }

type ListUsersReply struct {
	Users []*UserReply `json:"users"`
}

type CreateMediaRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

type MediaReply struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

func (*MediaReply) HTTPStatus() int { return http.StatusCreated }

type ListMediaReply struct {
	Media []*MediaReply `json:"media"`
}

// SubmitReviewRequest names the user and media by name/title, or by id when ByID is set.
type SubmitReviewRequest struct {
	User    string `json:"user"`
	Media   string `json:"media"`
	ByID    bool   `json:"by_id,omitempty"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type SubmitReviewReply struct {
	ReviewID int64 `json:"review_id"`
}

func (*SubmitReviewReply) HTTPStatus() int { return http.StatusCreated }

type SubmitReviewsRequest struct {
	Reviews []*SubmitReviewRequest `json:"reviews"`
}

// BulkItemReply is the outcome of one element of a bulk submission.
type BulkItemReply struct {
	Index    int    `json:"index"`
	User     string `json:"user"`
	Media    string `json:"media"`
	ReviewID int64  `json:"review_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type SubmitReviewsReply struct {
	Submitted int              `json:"submitted"`
	Failed    int              `json:"failed"`
	Results   []*BulkItemReply `json:"results"`
}

type ReviewReply struct {
	User    string `json:"user"`
	Media   string `json:"media"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ListReviewsReply struct {
	Reviews []*ReviewReply `json:"reviews"`
}

type SubscribeRequest struct {
	User  string `json:"user"`
	Media string `json:"media"`
	ByID  bool   `json:"by_id,omitempty"`
}

type SubscribeReply struct {
	Created bool `json:"created"`
}

type RecommendRequest struct {
	User string `json:"user"`
	ByID bool   `json:"by_id,omitempty"`
}

type RecommendationReply struct {
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	AvgRating *float64 `json:"avg_rating"`
}

type RecommendReply struct {
	Recommendations []*RecommendationReply `json:"recommendations"`
}

// SeedItemReply is the outcome of one sample row.
type SeedItemReply struct {
	Name  string `json:"name"`
	Error error  `json:"-"`
}

type SeedReply struct {
	Added   int              `json:"added"`
	Results []*SeedItemReply `json:"results"`
}

type HealthCheckReply struct {
	Status string `json:"status"`
}
