package youtube

import (
	"fmt"

	"ytvd/internal/models"
)

// VideoIterator walks a paginated fetch one video at a time, in the order
// the API returns them. It is single-pass: each page advance consumes the
// upstream cursor, so a drained iterator cannot be rewound or reused.
//
// Usage mirrors sql.Rows:
//
//	for it.Next() {
//		v := it.Video()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type VideoIterator struct {
	fetchPage func(pageToken string) ([]models.Video, string, error)
	maxPages  int

	buf   []models.Video
	cur   models.Video
	token string
	pages int
	done  bool
	err   error
}

// NewVideoIterator wraps a page fetcher into an iterator. fetchPage is
// called with the previous page's cursor ("" for the first page) and
// returns the page's videos plus the next cursor; an empty cursor ends the
// sequence. maxPages guards against an upstream cursor that never
// terminates.
func NewVideoIterator(fetchPage func(pageToken string) ([]models.Video, string, error), maxPages int) *VideoIterator {
	return &VideoIterator{fetchPage: fetchPage, maxPages: maxPages}
}

// Next advances to the next video, fetching further pages as needed. It
// returns false once the sequence is exhausted or a fetch failed; callers
// must check Err afterwards to tell the two apart.
func (it *VideoIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for len(it.buf) == 0 {
		if it.done {
			return false
		}
		if it.pages >= it.maxPages {
			it.err = fmt.Errorf("%w (%d pages)", ErrTooManyPages, it.pages)
			return false
		}
		videos, next, err := it.fetchPage(it.token)
		if err != nil {
			it.err = err
			return false
		}
		it.pages++
		it.buf = videos
		it.token = next
		if next == "" {
			it.done = true
		}
	}
	it.cur = it.buf[0]
	it.buf = it.buf[1:]
	return true
}

// Video returns the video produced by the last successful Next.
func (it *VideoIterator) Video() models.Video { return it.cur }

// Err returns the first error encountered while paging, if any.
func (it *VideoIterator) Err() error { return it.err }
