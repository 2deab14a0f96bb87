package youtube

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration is an ISO-8601 video duration broken into components.
type Duration struct {
	Hours   int
	Minutes int
	Seconds int
}

// TotalSeconds flattens the duration for storage.
func (d Duration) TotalSeconds() int {
	return d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// ParseDuration parses the API's "PT#H#M#S" duration form. Every component
// is optional but the order is fixed. A string outside the grammar is a
// hard error rather than a zero value: a malformed duration means the API
// contract changed and that should surface, not vanish.
func ParseDuration(s string) (Duration, error) {
	rest, ok := strings.CutPrefix(s, "PT")
	if !ok {
		return Duration{}, fmt.Errorf("%w: %q is missing the PT prefix", ErrMalformedDuration, s)
	}

	var d Duration
	for _, c := range []struct {
		unit byte
		dst  *int
	}{
		{'H', &d.Hours},
		{'M', &d.Minutes},
		{'S', &d.Seconds},
	} {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 || i >= len(rest) || rest[i] != c.unit {
			// No digits, or the digits belong to a later component.
			continue
		}
		n, err := strconv.Atoi(rest[:i])
		if err != nil {
			return Duration{}, fmt.Errorf("%w: %q: %v", ErrMalformedDuration, s, err)
		}
		*c.dst = n
		rest = rest[i+1:]
	}

	if rest != "" {
		return Duration{}, fmt.Errorf("%w: %q has trailing %q", ErrMalformedDuration, s, rest)
	}
	return d, nil
}
