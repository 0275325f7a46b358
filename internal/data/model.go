package data

import (
	"time"
)

// User represents the users table. Names are unique regardless of case.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null;size:255;uniqueIndex:idx_users_name_lower,expression:LOWER(name)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// Media represents the media table
type Media struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"not null;size:255;uniqueIndex:idx_media_title_lower,expression:LOWER(title)"`
	Type      string    `gorm:"not null;size:16;check:chk_media_type,type IN ('Movie','WebShow','Song')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Media) TableName() string {
	return "media"
}

// Review represents the reviews table. Duplicate reviews are permitted.
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index:idx_reviews_user_id"`
	MediaID   int64     `gorm:"not null;index:idx_reviews_media_id"`
	Rating    int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Comment   string    `gorm:"not null;type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Foreign keys
	User  User  `gorm:"constraint:OnDelete:CASCADE"`
	Media Media `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}

// Subscription represents the subscriptions table
type Subscription struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_subscription_user_media"`
	MediaID   int64     `gorm:"not null;uniqueIndex:uq_subscription_user_media;index:idx_subscriptions_media_id"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Foreign keys
	User  User  `gorm:"constraint:OnDelete:CASCADE"`
	Media Media `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name
func (Subscription) TableName() string {
	return "subscriptions"
}

// reviewRow is the joined projection behind the review listing.
type reviewRow struct {
	UserName   string
	MediaTitle string
	Rating     int
	Comment    string
}

// ratedRow is a media row with its average rating.
type ratedRow struct {
	ID      int64
	Title   string
	Type    string
	Average *float64
}
