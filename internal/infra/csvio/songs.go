// Package csvio reads and writes song lists as CSV.
package csvio

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gocarina/gocsv"

	"github.com/osa030/ringplay/internal/domain/song"
)

// SongRow is one CSV record. Duration accepts "MM:SS" or plain seconds.
type SongRow struct {
	Name     string `csv:"name"`
	Artist   string `csv:"artist"`
	Duration string `csv:"duration"`
	Genre    string `csv:"genre"`
}

// ReadSongs decodes songs from CSV with a name,artist,duration,genre header.
func ReadSongs(r io.Reader) ([]song.Song, error) {
	rows := make([]SongRow, 0)
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode songs")
	}

	songs := make([]song.Song, 0, len(rows))
	for _, row := range rows {
		songs = append(songs, song.FromValues(row.Name, row.Artist, row.Duration, row.Genre))
	}
	return songs, nil
}

// WriteSongs encodes songs as CSV with a header row.
func WriteSongs(w io.Writer, songs []song.Song) error {
	rows := make([]SongRow, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, SongRow{
			Name:     s.Name,
			Artist:   s.Artist,
			Duration: song.FormatDuration(s.Duration),
			Genre:    s.Genre,
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return errors.Wrap(err, "failed to encode songs")
	}
	return nil
}

// LoadFile reads songs from a CSV file.
func LoadFile(path string) ([]song.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer func(c io.Closer) {
		_ = c.Close()
	}(f)

	return ReadSongs(f)
}
