package youtube

import "fmt"

// ItemType distinguishes the two kinds of source a subscription can track.
type ItemType int

const (
	ItemTypeChannel ItemType = iota
	ItemTypePlaylist
)

// String returns the canonical serialized form, which is also what the
// subscriptions table stores in its item_type column.
func (t ItemType) String() string {
	switch t {
	case ItemTypeChannel:
		return "ItemType.CHANNEL"
	case ItemTypePlaylist:
		return "ItemType.PLAYLIST"
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

// ParseItemType converts a stored item type back into an ItemType. Anything
// but the two canonical forms is rejected; a subscription with an
// unrecognized type is a data error, not something to guess around.
func ParseItemType(s string) (ItemType, error) {
	switch s {
	case "ItemType.CHANNEL":
		return ItemTypeChannel, nil
	case "ItemType.PLAYLIST":
		return ItemTypePlaylist, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidItemType, s)
}

// Thumbnail is a preview image. The API omits width and height for some
// result shapes, hence the pointers.
type Thumbnail struct {
	URL    string
	Width  *int64
	Height *int64
}

// SearchResult is one channel or playlist returned by Search. It is never
// persisted; the subscribe flow copies what it needs into a Subscription.
type SearchResult struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	Thumbnail    Thumbnail
	ItemType     ItemType
}
