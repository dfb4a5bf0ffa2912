package library

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/ringplay/internal/domain/playlist"
)

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrEmptyName        = errors.New("name is empty")
	ErrNoSongs          = errors.New("playlist has no songs")
	ErrSongRejected     = errors.New("song rejected")
)

// RejectedError carries the code of the filter that rejected a song.
type RejectedError struct {
	Code string
}

func (e *RejectedError) Error() string {
	return "song rejected: " + e.Code
}

// Is makes errors.Is(err, ErrSongRejected) match any rejection.
func (e *RejectedError) Is(target error) bool {
	return target == ErrSongRejected
}

// Code maps an error returned by the service to a message code.
func Code(err error) string {
	var rejected *RejectedError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &rejected):
		return rejected.Code
	case errors.Is(err, ErrPlaylistNotFound):
		return "playlist_not_found"
	case errors.Is(err, ErrEmptyName):
		return "empty_name"
	case errors.Is(err, ErrNoSongs):
		return "no_songs"
	case errors.Is(err, playlist.ErrInvalidIndex):
		return "invalid_index"
	default:
		return "default_error"
	}
}
