package youtube

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDuration reports a duration string that does not match
	// the PT#H#M#S grammar.
	ErrMalformedDuration = errors.New("malformed duration")

	// ErrInvalidItemType reports a serialized item type outside the
	// channel/playlist enum.
	ErrInvalidItemType = errors.New("invalid item type")

	// ErrInvalidKind reports a search result kind the channel,playlist
	// query shape is not supposed to produce.
	ErrInvalidKind = errors.New("invalid item kind")

	// ErrTooManyPages means the API kept returning nextPageToken past the
	// page cap. Termination is normally driven by cursor absence alone,
	// so hitting the cap indicates a runaway upstream cursor.
	ErrTooManyPages = errors.New("pagination exceeded page cap")
)

// APIError is a non-2xx response from the YouTube API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube api: unexpected status %d", e.StatusCode)
}
