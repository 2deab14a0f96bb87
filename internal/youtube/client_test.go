package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("API_KEY", WithBaseURL(srv.URL))
}

const searchFixture = `{
	"items": [
		{
			"id": {"kind": "youtube#channel", "channelId": "UCKk076mm-7JjLxJcFSXIPJA"},
			"snippet": {
				"title": "outsidexbox",
				"description": "Daily videos from Outside Xbox",
				"channelTitle": "outsidexbox",
				"thumbnails": {"high": {"url": "https://yt3.ggpht.com/chan.jpg", "width": 800, "height": 800}}
			}
		},
		{
			"id": {"kind": "youtube#playlist", "playlistId": "PL_WcVABbXAhBz6NPfgBrutBXOhSj_SVgw"},
			"snippet": {
				"title": "Horror Games!",
				"description": "Classic Outside Xbox horror",
				"channelTitle": "outsidexbox",
				"thumbnails": {"high": {"url": "https://i.ytimg.com/vi/a6GennlwSR8/hqdefault.jpg"}}
			}
		}
	]
}`

func TestSearch(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"key":        q.Get("key"),
			"part":       q.Get("part"),
			"q":          q.Get("q"),
			"type":       q.Get("type"),
			"maxResults": q.Get("maxResults"),
		}
		fmt.Fprint(w, searchFixture)
	})

	results, err := client.Search(context.Background(), "outsidexbox")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"key":        "API_KEY",
		"part":       "snippet",
		"q":          "outsidexbox",
		"type":       "channel,playlist",
		"maxResults": "50",
	}, gotQuery)

	require.Len(t, results, 2)

	assert.Equal(t, "UCKk076mm-7JjLxJcFSXIPJA", results[0].ID)
	assert.Equal(t, ItemTypeChannel, results[0].ItemType)
	assert.Equal(t, "outsidexbox", results[0].Title)
	assert.Equal(t, "outsidexbox", results[0].ChannelTitle)
	assert.Equal(t, "https://yt3.ggpht.com/chan.jpg", results[0].Thumbnail.URL)
	require.NotNil(t, results[0].Thumbnail.Width)
	assert.EqualValues(t, 800, *results[0].Thumbnail.Width)

	assert.Equal(t, "PL_WcVABbXAhBz6NPfgBrutBXOhSj_SVgw", results[1].ID)
	assert.Equal(t, ItemTypePlaylist, results[1].ItemType)
	// Width and height are absent for this result shape.
	assert.Nil(t, results[1].Thumbnail.Width)
	assert.Nil(t, results[1].Thumbnail.Height)
}

func TestSearchInvalidKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": {"kind": "youtube#video", "videoId": "abc"}, "snippet": {"title": "t"}}]}`)
	})

	_, err := client.Search(context.Background(), "term")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestSearchHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, err := client.Search(context.Background(), "term")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestFetchLatestFromChannel(t *testing.T) {
	since := time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)

	pages := map[string]string{
		"": `{
			"nextPageToken": "page2",
			"items": [
				{
					"id": {"kind": "youtube#video", "videoId": "vidA"},
					"snippet": {"title": "A", "description": "first", "publishedAt": "2019-09-26T17:15:22Z",
						"thumbnails": {"high": {"url": "https://i.ytimg.com/a.jpg"}}}
				},
				{
					"id": {"kind": "youtube#playlist", "playlistId": "PLx"},
					"snippet": {"title": "not a video", "publishedAt": "2019-09-26T17:15:22Z"}
				},
				{
					"id": {"kind": "youtube#video", "videoId": "vidOld"},
					"snippet": {"title": "stale", "publishedAt": "2019-08-01T00:00:00Z"}
				},
				{
					"id": {"kind": "youtube#video", "videoId": "vidB"},
					"snippet": {"title": "B", "description": "second", "publishedAt": "2019-09-27T09:00:00Z",
						"thumbnails": {"high": {"url": "https://i.ytimg.com/b.jpg"}}}
				}
			]
		}`,
		"page2": `{
			"items": [
				{
					"id": {"kind": "youtube#video", "videoId": "vidC"},
					"snippet": {"title": "C", "description": "third", "publishedAt": "2019-09-28T12:30:00Z",
						"thumbnails": {"high": {"url": "https://i.ytimg.com/c.jpg"}}}
				}
			]
		}`,
	}

	detailsFixture := `{
		"items": [
			{"id": "vidA", "contentDetails": {"duration": "PT10M"}},
			{"id": "vidB", "contentDetails": {"duration": "PT1H1S"}},
			{"id": "vidC", "contentDetails": {"duration": "PT29M46S"}}
		]
	}`

	var searchCalls, detailCalls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/search":
			searchCalls++
			assert.Equal(t, "UCKk076mm-7JjLxJcFSXIPJA", q.Get("channelId"))
			assert.Equal(t, "video", q.Get("type"))
			assert.Equal(t, "2019-09-01T00:00:00Z", q.Get("publishedAfter"))
			fmt.Fprint(w, pages[q.Get("pageToken")])
		case "/videos":
			detailCalls++
			assert.Equal(t, "contentDetails", q.Get("part"))
			fmt.Fprint(w, detailsFixture)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	it := client.FetchLatestFromChannel(context.Background(), "UCKk076mm-7JjLxJcFSXIPJA", since)

	var ids []string
	var durations []int
	for it.Next() {
		v := it.Video()
		ids = append(ids, v.YoutubeID)
		require.NotNil(t, v.DurationSeconds)
		durations = append(durations, *v.DurationSeconds)
	}

	require.NoError(t, it.Err())
	// The playlist-kind item and the pre-since item are skipped.
	assert.Equal(t, []string{"vidA", "vidB", "vidC"}, ids)
	assert.Equal(t, []int{600, 3601, 1786}, durations)
	assert.Equal(t, 2, searchCalls)
	assert.Equal(t, 2, detailCalls)
}

func TestFetchLatestFromChannelAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	})

	it := client.FetchLatestFromChannel(context.Background(), "UC1", time.Now())
	assert.False(t, it.Next())

	var apiErr *APIError
	require.ErrorAs(t, it.Err(), &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestFetchLatestFromPlaylist(t *testing.T) {
	since := time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)

	playlistFixture := `{
		"items": [
			{
				"snippet": {"title": "new", "description": "d", "publishedAt": "2019-09-05T17:43:56Z",
					"resourceId": {"kind": "youtube#video", "videoId": "vidNew"},
					"thumbnails": {"high": {"url": "https://i.ytimg.com/new.jpg"}}}
			},
			{
				"snippet": {"title": "old", "publishedAt": "2019-01-01T00:00:00Z",
					"resourceId": {"kind": "youtube#video", "videoId": "vidOld"}}
			},
			{
				"snippet": {"title": "weird", "publishedAt": "2019-09-05T17:43:56Z",
					"resourceId": {"kind": "youtube#channel", "videoId": ""}}
			}
		]
	}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/playlistItems":
			assert.Equal(t, "PL123", q.Get("playlistId"))
			// There is no server-side since filter on this endpoint.
			assert.Empty(t, q.Get("publishedAfter"))
			fmt.Fprint(w, playlistFixture)
		case "/videos":
			fmt.Fprint(w, `{"items": [{"id": "vidNew", "contentDetails": {"duration": "PT3M5S"}}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	it := client.FetchLatestFromPlaylist(context.Background(), "PL123", since)

	var got []string
	for it.Next() {
		got = append(got, it.Video().YoutubeID)
	}

	require.NoError(t, it.Err())
	assert.Equal(t, []string{"vidNew"}, got)
}

func TestFetchLatestFromChannelMalformedDuration(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprint(w, `{"items": [{"id": {"kind": "youtube#video", "videoId": "vidA"},
				"snippet": {"title": "A", "publishedAt": "2019-09-26T17:15:22Z",
					"thumbnails": {"high": {"url": "u"}}}}]}`)
		case "/videos":
			fmt.Fprint(w, `{"items": [{"id": "vidA", "contentDetails": {"duration": "PTXYZ"}}]}`)
		}
	})

	it := client.FetchLatestFromChannel(context.Background(), "UC1", time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrMalformedDuration)
}

func TestFetchLatestFromChannelPageCap(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Upstream never stops handing out cursors.
		fmt.Fprint(w, `{"nextPageToken": "again", "items": []}`)
	})
	client.maxPages = 3

	it := client.FetchLatestFromChannel(context.Background(), "UC1", time.Now())
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrTooManyPages)
}

func TestFetchVideoDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "a,b", r.URL.Query().Get("id"))
		fmt.Fprint(w, `{"items": [
			{"id": "a", "contentDetails": {"duration": "PT1M"}},
			{"id": "b", "contentDetails": {"duration": "PT2M"}}
		]}`)
	})

	details, err := client.FetchVideoDetails(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, map[string]VideoDetail{
		"a": {Duration: "PT1M"},
		"b": {Duration: "PT2M"},
	}, details)
}

func TestGetJSONContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "term")
	assert.ErrorIs(t, err, context.Canceled)
}
