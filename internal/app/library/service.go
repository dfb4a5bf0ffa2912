// Package library provides the playlist service that owns the playlist collection.
package library

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ringplay/internal/app/filter"
	"github.com/osa030/ringplay/internal/app/notification"
	"github.com/osa030/ringplay/internal/domain/playlist"
	"github.com/osa030/ringplay/internal/domain/song"
)

// UploadDefaults are the values given to songs created from uploaded files.
type UploadDefaults struct {
	Artist   string
	Genre    string
	Duration string
}

// Options configures a Service.
type Options struct {
	Filters        *filter.Chain
	Notifications  *notification.Manager
	Upload         UploadDefaults
	DefaultSortKey playlist.SortKey
}

// SongInput is a song to add, with its duration as text.
type SongInput struct {
	Name     string
	Artist   string
	Duration string
	Genre    string
	FileName string // set for uploads
}

// Snapshot is a copy of a playlist's state.
type Snapshot struct {
	Name    string
	Songs   []song.Song
	Current int // cursor position, -1 when there is none
}

// Service manages playlists with serialized access.
// Every operation holds the service lock for its whole duration, so the
// playlists it owns are never used concurrently.
type Service struct {
	mu sync.RWMutex

	collection     *playlist.Collection
	filters        *filter.Chain
	notification   *notification.Manager
	upload         UploadDefaults
	defaultSortKey playlist.SortKey
}

// NewService creates a new playlist service.
func NewService(opts Options) *Service {
	filters := opts.Filters
	if filters == nil {
		filters = filter.NewChain()
	}
	if !hasFilter(filters, "file_extension_filter") {
		filters.Add(filter.NewFileExtensionFilter())
	}

	notif := opts.Notifications
	if notif == nil {
		notif = notification.NewManager()
	}

	upload := opts.Upload
	if upload.Artist == "" {
		upload.Artist = "Unknown"
	}
	if upload.Genre == "" {
		upload.Genre = "N/A"
	}
	if upload.Duration == "" {
		upload.Duration = "03:00"
	}

	return &Service{
		collection:     playlist.NewCollection(),
		filters:        filters,
		notification:   notif,
		upload:         upload,
		defaultSortKey: opts.DefaultSortKey,
	}
}

func hasFilter(chain *filter.Chain, name string) bool {
	for _, f := range chain.Filters() {
		if f.Name() == name {
			return true
		}
	}
	return false
}

// Notifications returns the notification manager.
func (s *Service) Notifications() *notification.Manager {
	return s.notification
}

// DefaultSortKey returns the key used when a sort request names none.
func (s *Service) DefaultSortKey() playlist.SortKey {
	return s.defaultSortKey
}

// CreatePlaylist adds an empty playlist. Names are trimmed and must not be empty.
// Names need not be unique; lookups return the first playlist with a name.
func (s *Service) CreatePlaylist(name string) (Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, ErrEmptyName
	}

	s.mu.Lock()
	p := playlist.New(name)
	s.collection.Add(p)
	snap := snapshot(p)
	s.mu.Unlock()

	zlog.Info().Msgf("playlist created: name=%s", name)
	s.notification.Broadcast(notification.Event{
		Type:     notification.EventPlaylistCreated,
		Playlist: name,
	})
	return snap, nil
}

// AddSong appends a song to a playlist after running the filter chain.
func (s *Service) AddSong(ctx context.Context, playlistName string, in SongInput, origin filter.Origin) (song.Song, error) {
	if origin == filter.OriginUpload {
		in = s.withUploadDefaults(in)
	}
	sng := song.FromValues(in.Name, in.Artist, in.Duration, in.Genre)

	s.mu.Lock()
	p := s.collection.Find(playlistName)
	if p == nil {
		s.mu.Unlock()
		return song.Song{}, errors.Wrapf(ErrPlaylistNotFound, "playlist %q", playlistName)
	}

	req := filter.SongRequest{Playlist: playlistName, FileName: in.FileName, Origin: origin}
	if result := s.filters.Execute(ctx, req, sng, p); !result.Accepted {
		s.mu.Unlock()
		zlog.Info().Msgf("song rejected: playlist=%s song=%q code=%s", playlistName, sng.Name, result.Code)
		return song.Song{}, &RejectedError{Code: result.Code}
	}

	p.Append(sng)
	s.mu.Unlock()

	zlog.Info().Msgf("song added: playlist=%s song=%q origin=%s", playlistName, sng.Name, origin)
	s.notification.Broadcast(notification.Event{
		Type:     notification.EventSongAdded,
		Playlist: playlistName,
		Song:     &sng,
	})
	return sng, nil
}

// withUploadDefaults fills fields an upload does not carry.
// The file name becomes the song name when no name is given.
func (s *Service) withUploadDefaults(in SongInput) SongInput {
	if in.Name == "" {
		in.Name = in.FileName
	}
	if in.Artist == "" {
		in.Artist = s.upload.Artist
	}
	if in.Genre == "" {
		in.Genre = s.upload.Genre
	}
	if in.Duration == "" {
		in.Duration = s.upload.Duration
	}
	return in
}

// ImportSongs appends songs to a playlist, creating it when missing.
// Songs rejected by the filter chain are skipped; the number added is returned.
func (s *Service) ImportSongs(ctx context.Context, playlistName string, songs []song.Song, origin filter.Origin) (int, error) {
	playlistName = strings.TrimSpace(playlistName)
	if playlistName == "" {
		return 0, ErrEmptyName
	}

	s.mu.Lock()
	p := s.collection.Find(playlistName)
	created := p == nil
	if created {
		p = playlist.New(playlistName)
		s.collection.Add(p)
	}

	added := 0
	for _, sng := range songs {
		req := filter.SongRequest{Playlist: playlistName, Origin: origin}
		if result := s.filters.Execute(ctx, req, sng, p); !result.Accepted {
			zlog.Warn().Msgf("skipping song on import: playlist=%s song=%q code=%s", playlistName, sng.Name, result.Code)
			continue
		}
		p.Append(sng)
		added++
	}
	s.mu.Unlock()

	zlog.Info().Msgf("songs imported: playlist=%s added=%d skipped=%d", playlistName, added, len(songs)-added)
	if created {
		s.notification.Broadcast(notification.Event{
			Type:     notification.EventPlaylistCreated,
			Playlist: playlistName,
		})
	}
	return added, nil
}

// Next moves the cursor of a playlist forward.
func (s *Service) Next(playlistName string) (song.Song, error) {
	return s.move(playlistName, (*playlist.Playlist).Next)
}

// Previous moves the cursor of a playlist backward.
func (s *Service) Previous(playlistName string) (song.Song, error) {
	return s.move(playlistName, (*playlist.Playlist).Previous)
}

func (s *Service) move(playlistName string, step func(*playlist.Playlist) (song.Song, bool)) (song.Song, error) {
	s.mu.Lock()
	p := s.collection.Find(playlistName)
	if p == nil {
		s.mu.Unlock()
		return song.Song{}, errors.Wrapf(ErrPlaylistNotFound, "playlist %q", playlistName)
	}

	sng, ok := step(p)
	pos, _ := p.Position()
	s.mu.Unlock()

	if !ok {
		return song.Song{}, errors.Wrapf(ErrNoSongs, "playlist %q", playlistName)
	}

	s.broadcastCursor(playlistName, sng, pos)
	return sng, nil
}

// SetCurrent moves the cursor of a playlist to index.
func (s *Service) SetCurrent(playlistName string, index int) (song.Song, error) {
	s.mu.Lock()
	p := s.collection.Find(playlistName)
	if p == nil {
		s.mu.Unlock()
		return song.Song{}, errors.Wrapf(ErrPlaylistNotFound, "playlist %q", playlistName)
	}

	sng, ok, err := p.SetCurrent(index)
	pos, _ := p.Position()
	s.mu.Unlock()

	if err != nil {
		return song.Song{}, err
	}
	if !ok {
		return song.Song{}, errors.Wrapf(ErrNoSongs, "playlist %q", playlistName)
	}

	s.broadcastCursor(playlistName, sng, pos)
	return sng, nil
}

func (s *Service) broadcastCursor(playlistName string, sng song.Song, pos int) {
	zlog.Debug().Msgf("cursor moved: playlist=%s position=%d song=%q", playlistName, pos, sng.Name)
	s.notification.Broadcast(notification.Event{
		Type:     notification.EventCursorMoved,
		Playlist: playlistName,
		Song:     &sng,
		Position: pos,
	})
}

// Current returns the song under the cursor of a playlist.
func (s *Service) Current(playlistName string) (song.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.collection.Find(playlistName)
	if p == nil {
		return song.Song{}, errors.Wrapf(ErrPlaylistNotFound, "playlist %q", playlistName)
	}

	sng, ok := p.Current()
	if !ok {
		return song.Song{}, errors.Wrapf(ErrNoSongs, "playlist %q", playlistName)
	}
	return sng, nil
}

// Sort sorts a playlist by the key named sortBy and returns the new order.
// An empty sortBy uses the default key; unknown names sort by name.
func (s *Service) Sort(playlistName, sortBy string) (playlist.SortKey, []song.Song, error) {
	key := s.defaultSortKey
	if sortBy != "" {
		key = playlist.ParseSortKey(sortBy)
	}

	s.mu.Lock()
	p := s.collection.Find(playlistName)
	if p == nil {
		s.mu.Unlock()
		return key, nil, errors.Wrapf(ErrPlaylistNotFound, "playlist %q", playlistName)
	}

	p.Sort(key)
	songs := p.ToList()
	s.mu.Unlock()

	zlog.Info().Msgf("playlist sorted: playlist=%s key=%s songs=%d", playlistName, key, len(songs))
	s.notification.Broadcast(notification.Event{
		Type:     notification.EventSorted,
		Playlist: playlistName,
		SortedBy: key.String(),
		Songs:    songs,
	})
	return key, songs, nil
}

// Playlist returns a snapshot of the first playlist with the given name.
func (s *Service) Playlist(playlistName string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.collection.Find(playlistName)
	if p == nil {
		return Snapshot{}, errors.Wrapf(ErrPlaylistNotFound, "playlist %q", playlistName)
	}
	return snapshot(p), nil
}

// Playlists returns snapshots of all playlists in creation order.
func (s *Service) Playlists() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.collection.All()
	result := make([]Snapshot, 0, len(all))
	for _, p := range all {
		result = append(result, snapshot(p))
	}
	return result
}

func snapshot(p *playlist.Playlist) Snapshot {
	pos, ok := p.Position()
	if !ok {
		pos = -1
	}
	return Snapshot{
		Name:    p.Name,
		Songs:   p.ToList(),
		Current: pos,
	}
}
