package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
)

// Client is a typed client for the playlist service.
type Client struct {
	listPlaylists  *connect.Client[ListPlaylistsRequest, ListPlaylistsResponse]
	getPlaylist    *connect.Client[GetPlaylistRequest, GetPlaylistResponse]
	createPlaylist *connect.Client[CreatePlaylistRequest, CreatePlaylistResponse]
	addSong        *connect.Client[AddSongRequest, SongResponse]
	importSongs    *connect.Client[ImportSongsRequest, ImportSongsResponse]
	next           *connect.Client[CursorRequest, SongResponse]
	previous       *connect.Client[CursorRequest, SongResponse]
	setCurrent     *connect.Client[SetCurrentRequest, SongResponse]
	current        *connect.Client[CursorRequest, SongResponse]
	sort           *connect.Client[SortRequest, SortResponse]
	watch          *connect.Client[WatchRequest, WatchEvent]
}

// NewClient creates a client for the service served at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)

	return &Client{
		listPlaylists:  connect.NewClient[ListPlaylistsRequest, ListPlaylistsResponse](httpClient, baseURL+ListPlaylistsProcedure, opts...),
		getPlaylist:    connect.NewClient[GetPlaylistRequest, GetPlaylistResponse](httpClient, baseURL+GetPlaylistProcedure, opts...),
		createPlaylist: connect.NewClient[CreatePlaylistRequest, CreatePlaylistResponse](httpClient, baseURL+CreatePlaylistProcedure, opts...),
		addSong:        connect.NewClient[AddSongRequest, SongResponse](httpClient, baseURL+AddSongProcedure, opts...),
		importSongs:    connect.NewClient[ImportSongsRequest, ImportSongsResponse](httpClient, baseURL+ImportSongsProcedure, opts...),
		next:           connect.NewClient[CursorRequest, SongResponse](httpClient, baseURL+NextProcedure, opts...),
		previous:       connect.NewClient[CursorRequest, SongResponse](httpClient, baseURL+PreviousProcedure, opts...),
		setCurrent:     connect.NewClient[SetCurrentRequest, SongResponse](httpClient, baseURL+SetCurrentProcedure, opts...),
		current:        connect.NewClient[CursorRequest, SongResponse](httpClient, baseURL+CurrentProcedure, opts...),
		sort:           connect.NewClient[SortRequest, SortResponse](httpClient, baseURL+SortProcedure, opts...),
		watch:          connect.NewClient[WatchRequest, WatchEvent](httpClient, baseURL+WatchProcedure, opts...),
	}
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], req *Req) (*Res, error) {
	res, err := c.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	res, err := call(ctx, c.listPlaylists, &ListPlaylistsRequest{})
	if err != nil {
		return nil, err
	}
	return res.Playlists, nil
}

func (c *Client) GetPlaylist(ctx context.Context, name string) (*Playlist, error) {
	res, err := call(ctx, c.getPlaylist, &GetPlaylistRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return &res.Playlist, nil
}

func (c *Client) CreatePlaylist(ctx context.Context, name string) (*Playlist, error) {
	res, err := call(ctx, c.createPlaylist, &CreatePlaylistRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return &res.Playlist, nil
}

func (c *Client) AddSong(ctx context.Context, req *AddSongRequest) (*Song, error) {
	res, err := call(ctx, c.addSong, req)
	if err != nil {
		return nil, err
	}
	return &res.Song, nil
}

func (c *Client) ImportSongs(ctx context.Context, playlist string, songs []Song) (*ImportSongsResponse, error) {
	return call(ctx, c.importSongs, &ImportSongsRequest{Playlist: playlist, Songs: songs})
}

func (c *Client) Next(ctx context.Context, playlist string) (*Song, error) {
	return songOf(call(ctx, c.next, &CursorRequest{Playlist: playlist}))
}

func (c *Client) Previous(ctx context.Context, playlist string) (*Song, error) {
	return songOf(call(ctx, c.previous, &CursorRequest{Playlist: playlist}))
}

func (c *Client) SetCurrent(ctx context.Context, playlist string, index int) (*Song, error) {
	return songOf(call(ctx, c.setCurrent, &SetCurrentRequest{Playlist: playlist, Index: index}))
}

func (c *Client) Current(ctx context.Context, playlist string) (*Song, error) {
	return songOf(call(ctx, c.current, &CursorRequest{Playlist: playlist}))
}

func (c *Client) Sort(ctx context.Context, playlist, sortBy string) (*SortResponse, error) {
	return call(ctx, c.sort, &SortRequest{Playlist: playlist, SortBy: sortBy})
}

// Watch calls fn for every event until ctx is done, the server ends the
// stream, or fn returns an error.
func (c *Client) Watch(ctx context.Context, playlist string, fn func(*WatchEvent) error) error {
	stream, err := c.watch.CallServerStream(ctx, connect.NewRequest(&WatchRequest{Playlist: playlist}))
	if err != nil {
		return err
	}
	defer func() {
		_ = stream.Close()
	}()

	for stream.Receive() {
		if err := fn(stream.Msg()); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil && connect.CodeOf(err) != connect.CodeCanceled {
		return err
	}
	return nil
}

func songOf(res *SongResponse, err error) (*Song, error) {
	if err != nil {
		return nil, err
	}
	return &res.Song, nil
}

// ErrorCode returns the message code carried by an error from the service.
func ErrorCode(err error) string {
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return cerr.Meta().Get(CodeHeader)
	}
	return ""
}
