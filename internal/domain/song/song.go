// Package song provides the Song domain value.
package song

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Song represents a playable item in a playlist.
// Songs are values: two songs with the same fields are equal, and the same
// song may appear several times in one playlist.
type Song struct {
	Name     string // Song name
	Artist   string // Artist name
	Duration int    // Duration in seconds
	Genre    string // Genre label
}

// New creates a song with a duration given in seconds.
func New(name, artist string, seconds int, genre string) Song {
	if seconds < 0 {
		seconds = 0
	}
	return Song{
		Name:     name,
		Artist:   artist,
		Duration: seconds,
		Genre:    genre,
	}
}

// FromValues creates a song from raw text values.
// The duration is run through ParseDuration; other fields are kept as given.
func FromValues(name, artist, duration, genre string) Song {
	return Song{
		Name:     name,
		Artist:   artist,
		Duration: ParseDuration(duration),
		Genre:    genre,
	}
}

// ParseDuration converts "MM:SS" or a plain number of seconds to seconds.
// Anything else yields 0.
func ParseDuration(text string) int {
	if isDigits(text) {
		n, err := strconv.Atoi(text)
		if err != nil {
			return 0
		}
		return n
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return 0
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	if minutes > (math.MaxInt-seconds)/60 {
		return 0
	}
	return minutes*60 + seconds
}

// DurationValue is a duration as received from a client: "MM:SS" text, a
// string of seconds, or a JSON number of seconds.
type DurationValue string

// UnmarshalJSON accepts a JSON string or number. Null leaves the value empty.
func (d *DurationValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*d = DurationValue(text)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = DurationValue(n.String())
	return nil
}

// Seconds parses the value with ParseDuration.
func (d DurationValue) Seconds() int {
	return ParseDuration(string(d))
}

// FormatDuration renders seconds as "MM:SS".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Length returns the duration as a time.Duration.
func (s Song) Length() time.Duration {
	return time.Duration(s.Duration) * time.Second
}

// String returns a human-readable representation of the song.
func (s Song) String() string {
	return fmt.Sprintf("%s - %s [%s] (%s)", s.Name, s.Artist, FormatDuration(s.Duration), s.Genre)
}

// isDigits reports whether text is a non-empty run of ASCII digits.
func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}
