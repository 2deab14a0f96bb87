// Package crawler reconciles remote YouTube state into local storage: for
// each subscription it fetches everything published since the last check,
// persists what is new, and advances the subscription's watermark.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"ytvd/internal/db"
	"ytvd/internal/models"
	"ytvd/internal/youtube"
)

// timeNow is a seam for tests that need a fixed clock.
var timeNow = time.Now

// defaultLookback bounds the first crawl of a subscription that has never
// been checked.
const defaultLookback = 90 * 24 * time.Hour

// defaultConcurrency is the width of the per-user crawl pool.
const defaultConcurrency = 20

// VideoSource is the slice of the YouTube client the crawler consumes.
// *youtube.Client implements it; tests substitute their own.
type VideoSource interface {
	FetchLatestFromChannel(ctx context.Context, channelID string, since time.Time) *youtube.VideoIterator
	FetchLatestFromPlaylist(ctx context.Context, playlistID string, since time.Time) *youtube.VideoIterator
}

// Crawler syncs subscriptions against the YouTube API.
type Crawler struct {
	source      VideoSource
	concurrency int
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithConcurrency bounds how many subscriptions are crawled at once.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New creates a Crawler over the given video source.
func New(source VideoSource, opts ...Option) *Crawler {
	c := &Crawler{source: source, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl syncs every subscription belonging to user. Subscriptions are
// independent units of work, so they run on a bounded pool; one
// subscription's failure never cancels its siblings, and all failures are
// reported together once everything has finished.
func (c *Crawler) Crawl(ctx context.Context, user *models.User) error {
	subscriptions, err := db.GetSubscriptionsByUserID(user.ID)
	if err != nil {
		return fmt.Errorf("list subscriptions for user %d: %w", user.ID, err)
	}

	// Plain Group rather than WithContext: a failing subscription must not
	// cancel in-flight work on the others.
	var g errgroup.Group
	g.SetLimit(c.concurrency)

	errs := make([]error, len(subscriptions))
	for i := range subscriptions {
		i := i
		g.Go(func() error {
			errs[i] = c.CrawlSubscription(ctx, &subscriptions[i])
			return nil
		})
	}
	g.Wait()

	return errors.Join(errs...)
}

// CrawlSubscription fetches everything published since the subscription's
// watermark and persists what is new.
//
// The watermark moves to the time this call started, not to the newest
// video seen: anything published while the crawl was running falls into the
// next window instead of being lost. If the fetch fails partway, already
// persisted videos stay (the unique constraint makes the retry idempotent)
// and the watermark is left alone so the next run covers the same window.
func (c *Crawler) CrawlSubscription(ctx context.Context, sub *models.Subscription) error {
	log.Printf("crawler: checking subscription %d (%s)", sub.ID, sub.Name)

	now := timeNow().UTC()
	since := now.Add(-defaultLookback)
	if sub.LastChecked != nil {
		since = *sub.LastChecked
	}

	itemType, err := youtube.ParseItemType(sub.ItemType)
	if err != nil {
		return fmt.Errorf("subscription %d: %w", sub.ID, err)
	}

	var videos *youtube.VideoIterator
	switch itemType {
	case youtube.ItemTypeChannel:
		videos = c.source.FetchLatestFromChannel(ctx, sub.YoutubeID, since)
	case youtube.ItemTypePlaylist:
		videos = c.source.FetchLatestFromPlaylist(ctx, sub.YoutubeID, since)
	default:
		return fmt.Errorf("subscription %d: unsupported item type %s", sub.ID, itemType)
	}

	for videos.Next() {
		video := videos.Video()
		video.SubscriptionID = sub.ID
		err := db.CreateVideo(&video)
		switch {
		case errors.Is(err, db.ErrDuplicateVideo):
			log.Printf("crawler: subscription %d: video %s already known", sub.ID, video.YoutubeID)
		case err != nil:
			return fmt.Errorf("subscription %d: persist video %s: %w", sub.ID, video.YoutubeID, err)
		}
	}
	if err := videos.Err(); err != nil {
		return fmt.Errorf("subscription %d: fetch: %w", sub.ID, err)
	}

	if err := db.UpdateSubscriptionLastChecked(sub.ID, now); err != nil {
		return fmt.Errorf("subscription %d: update last_checked: %w", sub.ID, err)
	}
	sub.LastChecked = &now
	return nil
}
