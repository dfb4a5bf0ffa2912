package rest

import (
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ringplay/internal/app/filter"
	"github.com/osa030/ringplay/internal/app/library"
	"github.com/osa030/ringplay/internal/domain/song"
)

const maxUploadMemory = 32 << 20

type songJSON struct {
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"`
	Genre    string `json:"genre"`
}

type playlistJSON struct {
	Name    string     `json:"name"`
	Songs   []songJSON `json:"songs"`
	Current int        `json:"current"`
}

type errorJSON struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type messageJSON struct {
	Message  string        `json:"message"`
	Song     *songJSON     `json:"song,omitempty"`
	Playlist *playlistJSON `json:"playlist,omitempty"`
	SortedBy string        `json:"sorted_by,omitempty"`
	Songs    []songJSON    `json:"songs,omitempty"`
}

// AddPlaylistRequest is the body of POST /api/add_playlist.
type AddPlaylistRequest struct {
	Name string `json:"name"`
}

func (req *AddPlaylistRequest) Bind(r *http.Request) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return library.ErrEmptyName
	}
	return nil
}

// AddSongRequest is the JSON body of POST /api/add_song.
type AddSongRequest struct {
	Playlist string             `json:"playlist"`
	Name     string             `json:"name"`
	Artist   string             `json:"artist"`
	Duration song.DurationValue `json:"duration"`
	Genre    string             `json:"genre"`
}

func (req *AddSongRequest) Bind(r *http.Request) error {
	return nil
}

// SortRequest is the optional body of POST /api/playlist/{name}/sort.
type SortRequest struct {
	SortBy string `json:"sort_by"`
}

func toSongJSON(s song.Song) songJSON {
	return songJSON{Name: s.Name, Artist: s.Artist, Duration: s.Duration, Genre: s.Genre}
}

func toSongsJSON(songs []song.Song) []songJSON {
	result := make([]songJSON, 0, len(songs))
	for _, s := range songs {
		result = append(result, toSongJSON(s))
	}
	return result
}

func toPlaylistJSON(snap library.Snapshot) playlistJSON {
	return playlistJSON{Name: snap.Name, Songs: toSongsJSON(snap.Songs), Current: snap.Current}
}

func (a *API) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	snaps := a.library.Playlists()
	result := make([]playlistJSON, 0, len(snaps))
	for _, snap := range snaps {
		result = append(result, toPlaylistJSON(snap))
	}
	render.JSON(w, r, result)
}

func (a *API) handleAddPlaylist(w http.ResponseWriter, r *http.Request) {
	var req AddPlaylistRequest
	if err := render.Bind(r, &req); err != nil {
		a.renderError(w, r, err)
		return
	}

	snap, err := a.library.CreatePlaylist(req.Name)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	p := toPlaylistJSON(snap)
	render.JSON(w, r, messageJSON{Message: a.config.GetMessage("success"), Playlist: &p})
}

// handleAddSong accepts a JSON song or a multipart upload with a "file" part.
func (a *API) handleAddSong(w http.ResponseWriter, r *http.Request) {
	var (
		playlistName string
		in           library.SongInput
		origin       filter.Origin
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			a.renderCode(w, r, http.StatusBadRequest, "invalid_file")
			return
		}
		playlistName = r.FormValue("playlist")

		file, header, err := r.FormFile("file")
		if err != nil {
			a.renderCode(w, r, http.StatusBadRequest, "invalid_file")
			return
		}
		// Uploaded content is not stored.
		_ = file.Close()

		in = library.SongInput{
			Name:     r.FormValue("name"),
			Artist:   r.FormValue("artist"),
			Duration: r.FormValue("duration"),
			Genre:    r.FormValue("genre"),
			FileName: filepath.Base(header.Filename),
		}
		origin = filter.OriginUpload
	} else {
		var req AddSongRequest
		if err := render.Bind(r, &req); err != nil {
			a.renderError(w, r, err)
			return
		}
		playlistName = req.Playlist
		in = library.SongInput{Name: req.Name, Artist: req.Artist, Duration: string(req.Duration), Genre: req.Genre}
		origin = filter.OriginUser
	}

	if strings.TrimSpace(playlistName) == "" {
		a.renderError(w, r, library.ErrEmptyName)
		return
	}

	added, err := a.library.AddSong(r.Context(), playlistName, in, origin)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	s := toSongJSON(added)
	render.JSON(w, r, messageJSON{Message: a.config.GetMessage("success"), Song: &s})
}

func (a *API) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	snap, err := a.library.Playlist(playlistParam(r))
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	render.JSON(w, r, toPlaylistJSON(snap))
}

func (a *API) handleCurrent(w http.ResponseWriter, r *http.Request) {
	a.renderSong(w, r)(a.library.Current(playlistParam(r)))
}

func (a *API) handleNext(w http.ResponseWriter, r *http.Request) {
	a.renderSong(w, r)(a.library.Next(playlistParam(r)))
}

func (a *API) handlePrevious(w http.ResponseWriter, r *http.Request) {
	a.renderSong(w, r)(a.library.Previous(playlistParam(r)))
}

func (a *API) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		a.renderCode(w, r, http.StatusBadRequest, "invalid_index")
		return
	}
	a.renderSong(w, r)(a.library.SetCurrent(playlistParam(r), index))
}

func (a *API) handleSort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		zlog.Debug().Msgf("ignoring malformed sort body: %v", err)
	}
	a.sort(w, r, req.SortBy)
}

func (a *API) handleSortBy(w http.ResponseWriter, r *http.Request) {
	a.sort(w, r, chi.URLParam(r, "key"))
}

func (a *API) sort(w http.ResponseWriter, r *http.Request, sortBy string) {
	key, songs, err := a.library.Sort(playlistParam(r), sortBy)
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	render.JSON(w, r, messageJSON{
		Message:  a.config.GetMessage("success"),
		SortedBy: key.String(),
		Songs:    toSongsJSON(songs),
	})
}

func (a *API) renderSong(w http.ResponseWriter, r *http.Request) func(song.Song, error) {
	return func(s song.Song, err error) {
		if err != nil {
			a.renderError(w, r, err)
			return
		}
		sj := toSongJSON(s)
		render.JSON(w, r, messageJSON{Message: a.config.GetMessage("success"), Song: &sj})
	}
}

func (a *API) renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := library.Code(err)
	status := http.StatusBadRequest
	switch code {
	case "playlist_not_found", "no_songs":
		status = http.StatusNotFound
	case "default_error":
		// Malformed JSON bodies surface here from render.Bind.
		zlog.Debug().Msgf("request failed: %v", err)
	}
	a.renderCode(w, r, status, code)
}

func (a *API) renderCode(w http.ResponseWriter, r *http.Request, status int, code string) {
	render.Status(r, status)
	render.JSON(w, r, errorJSON{Error: a.config.GetMessage(code), Code: code})
}

func playlistParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
