// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/ringplay/internal/app/filter"
	"github.com/osa030/ringplay/internal/app/library"
	"github.com/osa030/ringplay/internal/app/notification"
	"github.com/osa030/ringplay/internal/domain/song"
	"github.com/osa030/ringplay/internal/infra/config"
)

const (
	// ServiceName is the fully-qualified name of the playlist service.
	ServiceName = "ringplay.v1.PlaylistService"

	// CodeHeader carries the message code of a failed call.
	CodeHeader = "X-Ringplay-Code"
)

// Procedure paths of the playlist service.
const (
	ListPlaylistsProcedure  = "/" + ServiceName + "/ListPlaylists"
	GetPlaylistProcedure    = "/" + ServiceName + "/GetPlaylist"
	CreatePlaylistProcedure = "/" + ServiceName + "/CreatePlaylist"
	AddSongProcedure        = "/" + ServiceName + "/AddSong"
	ImportSongsProcedure    = "/" + ServiceName + "/ImportSongs"
	NextProcedure           = "/" + ServiceName + "/Next"
	PreviousProcedure       = "/" + ServiceName + "/Previous"
	SetCurrentProcedure     = "/" + ServiceName + "/SetCurrent"
	CurrentProcedure        = "/" + ServiceName + "/Current"
	SortProcedure           = "/" + ServiceName + "/Sort"
	WatchProcedure          = "/" + ServiceName + "/Watch"
)

// PlaylistService implements the PlaylistService RPC.
type PlaylistService struct {
	library *library.Service
	config  *config.Config

	done      chan struct{}
	closeOnce sync.Once
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(lib *library.Service, cfg *config.Config) *PlaylistService {
	return &PlaylistService{
		library: lib,
		config:  cfg,
		done:    make(chan struct{}),
	}
}

// Close ends all open Watch streams.
func (s *PlaylistService) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Handler returns the mount path and handler serving every procedure.
func (s *PlaylistService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ListPlaylistsProcedure, connect.NewUnaryHandler(ListPlaylistsProcedure, s.ListPlaylists, opts...))
	mux.Handle(GetPlaylistProcedure, connect.NewUnaryHandler(GetPlaylistProcedure, s.GetPlaylist, opts...))
	mux.Handle(CreatePlaylistProcedure, connect.NewUnaryHandler(CreatePlaylistProcedure, s.CreatePlaylist, opts...))
	mux.Handle(AddSongProcedure, connect.NewUnaryHandler(AddSongProcedure, s.AddSong, opts...))
	mux.Handle(ImportSongsProcedure, connect.NewUnaryHandler(ImportSongsProcedure, s.ImportSongs, opts...))
	mux.Handle(NextProcedure, connect.NewUnaryHandler(NextProcedure, s.Next, opts...))
	mux.Handle(PreviousProcedure, connect.NewUnaryHandler(PreviousProcedure, s.Previous, opts...))
	mux.Handle(SetCurrentProcedure, connect.NewUnaryHandler(SetCurrentProcedure, s.SetCurrent, opts...))
	mux.Handle(CurrentProcedure, connect.NewUnaryHandler(CurrentProcedure, s.Current, opts...))
	mux.Handle(SortProcedure, connect.NewUnaryHandler(SortProcedure, s.Sort, opts...))
	mux.Handle(WatchProcedure, connect.NewServerStreamHandler(WatchProcedure, s.Watch, opts...))

	return "/" + ServiceName + "/", mux
}

// ListPlaylists returns every playlist in creation order.
func (s *PlaylistService) ListPlaylists(
	ctx context.Context,
	req *connect.Request[ListPlaylistsRequest],
) (*connect.Response[ListPlaylistsResponse], error) {
	snaps := s.library.Playlists()
	playlists := make([]Playlist, 0, len(snaps))
	for _, snap := range snaps {
		playlists = append(playlists, toPlaylist(snap))
	}
	return connect.NewResponse(&ListPlaylistsResponse{Playlists: playlists}), nil
}

// GetPlaylist returns one playlist.
func (s *PlaylistService) GetPlaylist(
	ctx context.Context,
	req *connect.Request[GetPlaylistRequest],
) (*connect.Response[GetPlaylistResponse], error) {
	snap, err := s.library.Playlist(req.Msg.Name)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return connect.NewResponse(&GetPlaylistResponse{Playlist: toPlaylist(snap)}), nil
}

// CreatePlaylist creates an empty playlist.
func (s *PlaylistService) CreatePlaylist(
	ctx context.Context,
	req *connect.Request[CreatePlaylistRequest],
) (*connect.Response[CreatePlaylistResponse], error) {
	snap, err := s.library.CreatePlaylist(req.Msg.Name)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return connect.NewResponse(&CreatePlaylistResponse{
		Playlist: toPlaylist(snap),
		Message:  s.config.GetMessage("success"),
	}), nil
}

// AddSong appends a song to a playlist.
func (s *PlaylistService) AddSong(
	ctx context.Context,
	req *connect.Request[AddSongRequest],
) (*connect.Response[SongResponse], error) {
	in := library.SongInput{
		Name:     req.Msg.Name,
		Artist:   req.Msg.Artist,
		Duration: string(req.Msg.Duration),
		Genre:    req.Msg.Genre,
	}
	added, err := s.library.AddSong(ctx, req.Msg.Playlist, in, filter.OriginUser)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return s.songResponse(added)
}

// ImportSongs appends a batch of songs, skipping rejected ones.
func (s *PlaylistService) ImportSongs(
	ctx context.Context,
	req *connect.Request[ImportSongsRequest],
) (*connect.Response[ImportSongsResponse], error) {
	songs := make([]song.Song, 0, len(req.Msg.Songs))
	for _, sng := range req.Msg.Songs {
		songs = append(songs, FromSong(sng))
	}

	added, err := s.library.ImportSongs(ctx, req.Msg.Playlist, songs, filter.OriginImport)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return connect.NewResponse(&ImportSongsResponse{
		Added:   added,
		Skipped: len(songs) - added,
		Message: s.config.GetMessage("success"),
	}), nil
}

// Next moves the cursor forward.
func (s *PlaylistService) Next(
	ctx context.Context,
	req *connect.Request[CursorRequest],
) (*connect.Response[SongResponse], error) {
	next, err := s.library.Next(req.Msg.Playlist)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return s.songResponse(next)
}

// Previous moves the cursor backward.
func (s *PlaylistService) Previous(
	ctx context.Context,
	req *connect.Request[CursorRequest],
) (*connect.Response[SongResponse], error) {
	prev, err := s.library.Previous(req.Msg.Playlist)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return s.songResponse(prev)
}

// SetCurrent moves the cursor to an index.
func (s *PlaylistService) SetCurrent(
	ctx context.Context,
	req *connect.Request[SetCurrentRequest],
) (*connect.Response[SongResponse], error) {
	cur, err := s.library.SetCurrent(req.Msg.Playlist, req.Msg.Index)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return s.songResponse(cur)
}

// Current returns the song under the cursor.
func (s *PlaylistService) Current(
	ctx context.Context,
	req *connect.Request[CursorRequest],
) (*connect.Response[SongResponse], error) {
	cur, err := s.library.Current(req.Msg.Playlist)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return s.songResponse(cur)
}

// Sort sorts a playlist and returns the new order.
func (s *PlaylistService) Sort(
	ctx context.Context,
	req *connect.Request[SortRequest],
) (*connect.Response[SortResponse], error) {
	key, songs, err := s.library.Sort(req.Msg.Playlist, req.Msg.SortBy)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return connect.NewResponse(&SortResponse{
		SortedBy: key.String(),
		Songs:    toSongs(songs),
		Message:  s.config.GetMessage("success"),
	}), nil
}

// Watch streams playlist events until the client disconnects or the service closes.
func (s *PlaylistService) Watch(
	ctx context.Context,
	req *connect.Request[WatchRequest],
	stream *connect.ServerStream[WatchEvent],
) error {
	notifManager := s.library.Notifications()
	adapter := &watchStreamAdapter{stream: stream, playlist: req.Msg.Playlist}

	// Hold the adapter until the initial state is sent so no event overtakes it.
	adapter.mu.Lock()
	subscriptionID := notifManager.Subscribe(adapter)
	defer notifManager.Unsubscribe(subscriptionID)

	initial := &WatchEvent{
		Type:       initialStateEvent,
		SequenceNo: notifManager.NextSequenceNo(),
		Playlist:   req.Msg.Playlist,
	}
	for _, snap := range s.library.Playlists() {
		if req.Msg.Playlist == "" || snap.Name == req.Msg.Playlist {
			initial.Playlists = append(initial.Playlists, toPlaylist(snap))
		}
	}
	err := stream.Send(initial)
	adapter.mu.Unlock()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-s.done:
	}
	return nil
}

// watchStreamAdapter adapts connect.ServerStream to notification.Stream.
type watchStreamAdapter struct {
	mu       sync.Mutex
	stream   *connect.ServerStream[WatchEvent]
	playlist string
}

func (a *watchStreamAdapter) Send(event notification.Event) error {
	if a.playlist != "" && event.Playlist != a.playlist {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream.Send(toWatchEvent(event))
}

func (s *PlaylistService) songResponse(sng song.Song) (*connect.Response[SongResponse], error) {
	return connect.NewResponse(&SongResponse{
		Song:    toSong(sng),
		Message: s.config.GetMessage("success"),
	}), nil
}

// toConnectError maps a library error to a Connect error carrying the
// configured message and the message code.
func (s *PlaylistService) toConnectError(err error) error {
	code := library.Code(err)

	var connectCode connect.Code
	switch code {
	case "playlist_not_found", "no_songs":
		connectCode = connect.CodeNotFound
	case "default_error":
		connectCode = connect.CodeInternal
	default:
		connectCode = connect.CodeInvalidArgument
	}

	cerr := connect.NewError(connectCode, errors.New(s.config.GetMessage(code)))
	cerr.Meta().Set(CodeHeader, code)
	return cerr
}
