package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ytvd/internal/models"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Kinds the API tags resources with.
const (
	kindChannel  = "youtube#channel"
	kindPlaylist = "youtube#playlist"
	kindVideo    = "youtube#video"
)

// timestampFormat is the second-resolution Zulu form the publishedAfter
// parameter expects.
const timestampFormat = "2006-01-02T15:04:05Z"

// Client wraps the YouTube Data API: search for channels and playlists,
// incremental video listing for both, and batched contentDetails lookups.
// One Client is shared process-wide and is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxResults int
	maxPages   int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Tests use this to
// talk to a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithMaxResults sets the per-page (and search) result count.
func WithMaxResults(n int) Option {
	return func(c *Client) { c.maxResults = n }
}

// WithRateLimit bounds outbound request rate, to stay inside API quota.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// NewClient creates a YouTube API client with the given key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
		maxResults: 50,
		maxPages:   100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire shapes. Only the fields this application reads are declared.

type thumbnailJSON struct {
	URL    string `json:"url"`
	Width  *int64 `json:"width"`
	Height *int64 `json:"height"`
}

type snippetJSON struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnails   struct {
		High thumbnailJSON `json:"high"`
	} `json:"thumbnails"`
	ResourceID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

type searchItemJSON struct {
	ID struct {
		Kind       string `json:"kind"`
		VideoID    string `json:"videoId"`
		ChannelID  string `json:"channelId"`
		PlaylistID string `json:"playlistId"`
	} `json:"id"`
	Snippet snippetJSON `json:"snippet"`
}

type searchResponse struct {
	NextPageToken string           `json:"nextPageToken"`
	Items         []searchItemJSON `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet snippetJSON `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// getJSON unifies request making: it stamps the API key, enforces the rate
// limit, and decodes the response. Non-2xx comes back as *APIError.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube api: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("youtube api: decode %s response: %w", endpoint, err)
	}
	return nil
}

// Search queries YouTube for channels and playlists matching term. A single
// page only; the subscribe flow never needs more than the first maxResults
// hits. A result kind outside channel/playlist fails the whole call, since
// the query shape promises only those two.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", term)
	params.Set("type", "channel,playlist")
	params.Set("maxResults", strconv.Itoa(c.maxResults))

	var data searchResponse
	if err := c.getJSON(ctx, "search", params, &data); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(data.Items))
	for _, item := range data.Items {
		r := SearchResult{
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			Thumbnail: Thumbnail{
				URL:    item.Snippet.Thumbnails.High.URL,
				Width:  item.Snippet.Thumbnails.High.Width,
				Height: item.Snippet.Thumbnails.High.Height,
			},
		}
		switch item.ID.Kind {
		case kindChannel:
			r.ID = item.ID.ChannelID
			r.ItemType = ItemTypeChannel
		case kindPlaylist:
			r.ID = item.ID.PlaylistID
			r.ItemType = ItemTypePlaylist
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidKind, item.ID.Kind)
		}
		results = append(results, r)
	}
	return results, nil
}

// FetchLatestFromChannel lists videos published on a channel strictly after
// since. The search endpoint filters server-side via publishedAfter; each
// item's kind and timestamp are still re-checked because the upstream
// contract is not airtight, and violations are logged so we notice if the
// assumption ever breaks. The returned iterator is finite and single-pass.
func (c *Client) FetchLatestFromChannel(ctx context.Context, channelID string, since time.Time) *VideoIterator {
	return NewVideoIterator(func(pageToken string) ([]models.Video, string, error) {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("maxResults", strconv.Itoa(c.maxResults))
		params.Set("channelId", channelID)
		params.Set("type", "video")
		params.Set("publishedAfter", since.UTC().Format(timestampFormat))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var data searchResponse
		if err := c.getJSON(ctx, "search", params, &data); err != nil {
			return nil, "", err
		}

		videos := make([]models.Video, 0, len(data.Items))
		for _, item := range data.Items {
			if item.ID.Kind != kindVideo {
				log.Printf("youtube: unexpected item kind %q in channel %s listing, expected %s", item.ID.Kind, channelID, kindVideo)
				continue
			}
			publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				return nil, "", fmt.Errorf("youtube: parse publishedAt %q: %w", item.Snippet.PublishedAt, err)
			}
			if !publishedAt.After(since) {
				log.Printf("youtube: channel %s returned video %s published at %s despite publishedAfter=%s", channelID, item.ID.VideoID, publishedAt.Format(time.RFC3339), since.Format(timestampFormat))
				continue
			}
			videos = append(videos, models.Video{
				YoutubeID:    item.ID.VideoID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ThumbnailURL: item.Snippet.Thumbnails.High.URL,
				PublishedAt:  publishedAt,
			})
		}

		if err := c.resolveDurations(ctx, videos); err != nil {
			return nil, "", err
		}
		return videos, data.NextPageToken, nil
	}, c.maxPages)
}

// FetchLatestFromPlaylist lists a playlist's videos published after since.
// The playlistItems endpoint has no server-side time filter and its order
// is not guaranteed chronological, so the since cutoff is applied here and
// skipped items are expected rather than anomalous — no warning, unlike
// the channel case.
func (c *Client) FetchLatestFromPlaylist(ctx context.Context, playlistID string, since time.Time) *VideoIterator {
	return NewVideoIterator(func(pageToken string) ([]models.Video, string, error) {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("maxResults", strconv.Itoa(c.maxResults))
		params.Set("playlistId", playlistID)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var data playlistItemsResponse
		if err := c.getJSON(ctx, "playlistItems", params, &data); err != nil {
			return nil, "", err
		}

		videos := make([]models.Video, 0, len(data.Items))
		for _, item := range data.Items {
			resource := item.Snippet.ResourceID
			if resource.Kind != kindVideo {
				log.Printf("youtube: unexpected resource kind %q in playlist %s, expected %s", resource.Kind, playlistID, kindVideo)
				continue
			}
			publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				return nil, "", fmt.Errorf("youtube: parse publishedAt %q: %w", item.Snippet.PublishedAt, err)
			}
			if !publishedAt.After(since) {
				continue
			}
			videos = append(videos, models.Video{
				YoutubeID:    resource.VideoID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ThumbnailURL: item.Snippet.Thumbnails.High.URL,
				PublishedAt:  publishedAt,
			})
		}

		if err := c.resolveDurations(ctx, videos); err != nil {
			return nil, "", err
		}
		return videos, data.NextPageToken, nil
	}, c.maxPages)
}

// VideoDetail is the contentDetails slice of a video resource.
type VideoDetail struct {
	Duration string
}

// FetchVideoDetails looks up contentDetails for a batch of video ids in a
// single call and returns them keyed by id.
func (c *Client) FetchVideoDetails(ctx context.Context, ids ...string) (map[string]VideoDetail, error) {
	params := url.Values{}
	params.Set("id", strings.Join(ids, ","))
	params.Set("part", "contentDetails")

	var data videosResponse
	if err := c.getJSON(ctx, "videos", params, &data); err != nil {
		return nil, err
	}

	details := make(map[string]VideoDetail, len(data.Items))
	for _, item := range data.Items {
		details[item.ID] = VideoDetail{Duration: item.ContentDetails.Duration}
	}
	return details, nil
}

// resolveDurations fills in DurationSeconds for a page of videos with one
// batched contentDetails lookup.
func (c *Client) resolveDurations(ctx context.Context, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.YoutubeID
	}

	details, err := c.FetchVideoDetails(ctx, ids...)
	if err != nil {
		return err
	}

	for i := range videos {
		detail, ok := details[videos[i].YoutubeID]
		if !ok {
			continue
		}
		d, err := ParseDuration(detail.Duration)
		if err != nil {
			return fmt.Errorf("video %s: %w", videos[i].YoutubeID, err)
		}
		secs := d.TotalSeconds()
		videos[i].DurationSeconds = &secs
	}
	return nil
}
