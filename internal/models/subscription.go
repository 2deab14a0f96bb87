package models

import "time"

// Subscription ties a user to a YouTube channel or playlist.
//
// ItemType holds the serialized form of a youtube.ItemType and is fixed at
// creation. LastChecked is nil until the first successful crawl and is only
// ever moved forward by the crawler.
type Subscription struct {
	ID          int        `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"userId"`
	Name        string     `db:"name" json:"name"`
	YoutubeID   string     `db:"youtube_id" json:"youtubeId"`
	ItemType    string     `db:"item_type" json:"itemType"`
	LastChecked *time.Time `db:"last_checked" json:"lastChecked"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}
