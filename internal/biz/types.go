package biz

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MediaType is the kind of a media item.
type MediaType string

const (
	MediaTypeMovie   MediaType = "Movie"
	MediaTypeWebShow MediaType = "WebShow"
	MediaTypeSong    MediaType = "Song"
)

// MediaTypes lists the accepted media types in display order.
var MediaTypes = []MediaType{MediaTypeMovie, MediaTypeWebShow, MediaTypeSong}

// ParseMediaType matches s case-insensitively against MediaTypes.
func ParseMediaType(s string) (MediaType, error) {
	for _, t := range MediaTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want Movie, WebShow or Song)", ErrInvalidMediaType, s)
}

// User domain model
type User struct {
	ID   int64
	Name string
}

// Media domain model
type Media struct {
	ID    int64
	Title string
	Type  MediaType
}

// Review domain model
type Review struct {
	ID      int64
	UserID  int64
	MediaID int64
	Rating  int
	Comment string
}

// ReviewView is one row of the full review listing; it is also the cached representation.
type ReviewView struct {
	UserName   string `json:"user"`
	MediaTitle string `json:"media"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// RatedMedia is a media item with its average rating; Average is nil when unrated.
type RatedMedia struct {
	Media
	Average *float64
}

// Recommendation domain model
type Recommendation struct {
	Title     string
	Type      MediaType
	AvgRating *float64
}

// Ref identifies a user or a media item either by id or by name/title.
type Ref struct {
	byID bool
	id   int64
	name string
}

// ByID references a row by identity.
func ByID(id int64) Ref {
	return Ref{byID: true, id: id}
}

// ByName references a row by its unique name or title.
func ByName(name string) Ref {
	return Ref{name: name}
}

// ParseRef interprets s as an id when byID is set, otherwise as a name.
func ParseRef(s string, byID bool) (Ref, error) {
	if !byID {
		return ByName(s), nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return Ref{}, fmt.Errorf("%w: invalid id %q", ErrValidation, s)
	}
	return ByID(id), nil
}

// ID returns the referenced id and whether the reference is id-based.
func (r Ref) ID() (int64, bool) {
	return r.id, r.byID
}

// Name returns the referenced name; empty for id-based references.
func (r Ref) Name() string {
	return r.name
}

func (r Ref) String() string {
	if r.byID {
		return "#" + strconv.FormatInt(r.id, 10)
	}
	return r.name
}

// ReviewInput is one fully specified review submission.
type ReviewInput struct {
	User    Ref
	Media   Ref
	Rating  int
	Comment string
}

// BulkResult is the outcome of one element of a bulk submission.
type BulkResult struct {
	Index    int
	Input    ReviewInput
	ReviewID int64
	Err      error
}

// Notification is one record emitted per notified subscriber.
type Notification struct {
	Subscriber string
	MediaID    int64
	Summary    string
}

// UserRepo defines the repository interface for users
type UserRepo interface {
	CreateUser(ctx context.Context, name string) (*User, error)
	FindUser(ctx context.Context, ref Ref) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// MediaRepo defines the repository interface for media
type MediaRepo interface {
	CreateMedia(ctx context.Context, title string, mediaType MediaType) (*Media, error)
	FindMedia(ctx context.Context, ref Ref) (*Media, error)
	ListMedia(ctx context.Context) ([]*Media, error)
	ListRatedMedia(ctx context.Context) ([]*RatedMedia, error)
}

// ReviewRepo defines the repository interface for reviews.
// CreateReview is serialized with every other write through the storage write gate.
type ReviewRepo interface {
	CreateReview(ctx context.Context, review *Review) (int64, error)
	ListReviews(ctx context.Context) ([]*ReviewView, error)
	ListReviewedMediaIDs(ctx context.Context, userID int64) ([]int64, error)
}

// SubscriptionRepo defines the repository interface for subscriptions
type SubscriptionRepo interface {
	Subscribe(ctx context.Context, userID, mediaID int64) (created bool, err error)
	ListSubscribers(ctx context.Context, mediaID int64) ([]string, error)
	ListSubscribedMedia(ctx context.Context, userID int64) ([]*Media, error)
}

// Cache is the shared key-value store in front of the review listing.
// Get returns ErrCacheMiss when the key is absent or expired.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NotificationSink receives one record per notified subscriber.
type NotificationSink interface {
	Notify(ctx context.Context, n *Notification) error
}
