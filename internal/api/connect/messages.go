package connect

import (
	"github.com/osa030/ringplay/internal/app/library"
	"github.com/osa030/ringplay/internal/app/notification"
	"github.com/osa030/ringplay/internal/domain/song"
)

// Song is the wire form of a song.
type Song struct {
	Name         string `json:"name"`
	Artist       string `json:"artist"`
	Duration     int    `json:"duration"`
	DurationText string `json:"duration_text"`
	Genre        string `json:"genre"`
}

// Playlist is the wire form of a playlist snapshot.
type Playlist struct {
	Name          string `json:"name"`
	Songs         []Song `json:"songs"`
	Current       int    `json:"current"` // -1 when the playlist is empty
	TotalDuration int    `json:"total_duration"`
}

type ListPlaylistsRequest struct{}

type ListPlaylistsResponse struct {
	Playlists []Playlist `json:"playlists"`
}

type GetPlaylistRequest struct {
	Name string `json:"name"`
}

type GetPlaylistResponse struct {
	Playlist Playlist `json:"playlist"`
}

type CreatePlaylistRequest struct {
	Name string `json:"name"`
}

type CreatePlaylistResponse struct {
	Playlist Playlist `json:"playlist"`
	Message  string   `json:"message"`
}

// AddSongRequest adds one song. Duration accepts "MM:SS", a string of
// seconds or a number of seconds.
type AddSongRequest struct {
	Playlist string             `json:"playlist"`
	Name     string             `json:"name"`
	Artist   string             `json:"artist"`
	Duration song.DurationValue `json:"duration"`
	Genre    string             `json:"genre"`
}

// ImportSongsRequest appends songs, creating the playlist when it is missing.
type ImportSongsRequest struct {
	Playlist string `json:"playlist"`
	Songs    []Song `json:"songs"`
}

type ImportSongsResponse struct {
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// CursorRequest names the playlist for Next, Previous and Current.
type CursorRequest struct {
	Playlist string `json:"playlist"`
}

type SetCurrentRequest struct {
	Playlist string `json:"playlist"`
	Index    int    `json:"index"`
}

// SongResponse carries the song a call produced.
type SongResponse struct {
	Song    Song   `json:"song"`
	Message string `json:"message"`
}

type SortRequest struct {
	Playlist string `json:"playlist"`
	SortBy   string `json:"sort_by"`
}

type SortResponse struct {
	SortedBy string `json:"sorted_by"`
	Songs    []Song `json:"songs"`
	Message  string `json:"message"`
}

// WatchRequest subscribes to playlist events. An empty Playlist watches all playlists.
type WatchRequest struct {
	Playlist string `json:"playlist"`
}

// WatchEvent is one message of the Watch stream.
// The first message has type "initial_state" and carries Playlists.
type WatchEvent struct {
	Type       string     `json:"type"`
	SequenceNo uint64     `json:"sequence_no"`
	Playlist   string     `json:"playlist,omitempty"`
	Song       *Song      `json:"song,omitempty"`
	Position   int        `json:"position"`
	SortedBy   string     `json:"sorted_by,omitempty"`
	Songs      []Song     `json:"songs,omitempty"`
	Playlists  []Playlist `json:"playlists,omitempty"`
}

const initialStateEvent = "initial_state"

func toSong(s song.Song) Song {
	return Song{
		Name:         s.Name,
		Artist:       s.Artist,
		Duration:     s.Duration,
		DurationText: song.FormatDuration(s.Duration),
		Genre:        s.Genre,
	}
}

func toSongs(songs []song.Song) []Song {
	result := make([]Song, 0, len(songs))
	for _, s := range songs {
		result = append(result, toSong(s))
	}
	return result
}

// FromSong converts a wire song back to the domain type.
func FromSong(s Song) song.Song {
	return song.New(s.Name, s.Artist, s.Duration, s.Genre)
}

func toPlaylist(snap library.Snapshot) Playlist {
	total := 0
	for _, s := range snap.Songs {
		total += s.Duration
	}
	return Playlist{
		Name:          snap.Name,
		Songs:         toSongs(snap.Songs),
		Current:       snap.Current,
		TotalDuration: total,
	}
}

func toWatchEvent(e notification.Event) *WatchEvent {
	we := &WatchEvent{
		Type:       e.Type.String(),
		SequenceNo: e.SequenceNo,
		Playlist:   e.Playlist,
		Position:   e.Position,
		SortedBy:   e.SortedBy,
	}
	if e.Song != nil {
		s := toSong(*e.Song)
		we.Song = &s
	}
	if len(e.Songs) > 0 {
		we.Songs = toSongs(e.Songs)
	}
	return we
}
