package playlist

import (
	"strings"

	"github.com/osa030/ringplay/internal/domain/song"
)

// SortKey selects the field a playlist is sorted by.
type SortKey int

const (
	SortByName     SortKey = iota // Case-insensitive song name
	SortByArtist                  // Case-insensitive artist name
	SortByDuration                // Duration in seconds
	SortByGenre                   // Case-insensitive genre
)

// SortKeys lists every supported sort key.
var SortKeys = []SortKey{SortByName, SortByArtist, SortByDuration, SortByGenre}

// String returns the string representation of the sort key.
func (k SortKey) String() string {
	switch k {
	case SortByArtist:
		return "artist"
	case SortByDuration:
		return "duration"
	case SortByGenre:
		return "genre"
	default:
		return "name"
	}
}

// ParseSortKey converts a selector string to a SortKey.
// Unknown selectors fall back to SortByName.
func ParseSortKey(s string) SortKey {
	switch s {
	case "artist":
		return SortByArtist
	case "duration":
		return SortByDuration
	case "genre":
		return SortByGenre
	default:
		return SortByName
	}
}

// Less reports whether a sorts before b under this key.
func (k SortKey) Less(a, b song.Song) bool {
	switch k {
	case SortByArtist:
		return strings.ToLower(a.Artist) < strings.ToLower(b.Artist)
	case SortByDuration:
		return a.Duration < b.Duration
	case SortByGenre:
		return strings.ToLower(a.Genre) < strings.ToLower(b.Genre)
	default:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}
