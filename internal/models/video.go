package models

import "time"

// Video is a single fetched video belonging to exactly one subscription.
//
// YoutubeID is unique across the whole table, not per subscription. The
// crawler creates videos and never touches them again; Watched is flipped
// by the web UI only.
type Video struct {
	ID              int       `db:"id" json:"id"`
	SubscriptionID  int       `db:"subscription_id" json:"subscriptionId"`
	YoutubeID       string    `db:"youtube_id" json:"youtubeId"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	ThumbnailURL    string    `db:"thumbnail_url" json:"thumbnailUrl"`
	PublishedAt     time.Time `db:"published_at" json:"publishedAt"`
	DurationSeconds *int      `db:"duration_seconds" json:"durationSeconds"`
	Watched         bool      `db:"watched" json:"watched"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}
