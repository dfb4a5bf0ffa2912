package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/ringplay/internal/app/library"
	"github.com/osa030/ringplay/internal/infra/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Default()
	lib := library.NewService(library.Options{
		Upload: library.UploadDefaults{
			Artist:   cfg.Upload.DefaultArtist,
			Genre:    cfg.Upload.DefaultGenre,
			Duration: cfg.Upload.DefaultDuration,
		},
	})
	require.NoError(t, lib.Seed(context.Background(), library.DemoPlaylists()))

	return New(lib, cfg).Router()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestRouter_Playlists(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/playlists", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var playlists []playlistJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &playlists))
	require.Len(t, playlists, 3)
	assert.Equal(t, "Lo-Fi Chill", playlists[0].Name)
	assert.Equal(t, 195, playlists[0].Songs[0].Duration)
}

func TestRouter_AddPlaylist(t *testing.T) {
	h := newTestRouter(t)

	rec, body := doJSON(t, h, http.MethodPost, "/api/add_playlist", `{"name": "  Jazz "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	playlist := body["playlist"].(map[string]any)
	assert.Equal(t, "Jazz", playlist["name"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/add_playlist", `{"name": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_name", body["code"])
}

func TestRouter_AddSongJSON(t *testing.T) {
	h := newTestRouter(t)

	rec, body := doJSON(t, h, http.MethodPost, "/api/add_song",
		`{"playlist": "Rock", "name": "Back in Black", "artist": "AC/DC", "duration": "4:15", "genre": "Rock"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	s := body["song"].(map[string]any)
	assert.Equal(t, "Back in Black", s["name"])
	assert.EqualValues(t, 255, s["duration"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/add_song",
		`{"playlist": "Rock", "name": "Thunderstruck", "artist": "AC/DC", "duration": 292, "genre": "Rock"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 292, body["song"].(map[string]any)["duration"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/add_song",
		`{"playlist": "Rock", "name": "Huge", "artist": "X", "duration": "9223372036854775807:00", "genre": "Rock"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 0, body["song"].(map[string]any)["duration"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/add_song", `{"playlist": "Nope", "name": "x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "playlist_not_found", body["code"])
}

func uploadRequest(t *testing.T, playlist, filename string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("playlist", playlist))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("ID3"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/add_song", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRouter_AddSongUpload(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "Electronica", "Strobe.mp3"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body messageJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Song)
	assert.Equal(t, songJSON{Name: "Strobe.mp3", Artist: "Unknown", Duration: 180, Genre: "N/A"}, *body.Song)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "Electronica", "cover.png"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"invalid_file"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "", "Strobe.mp3"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Navigation(t *testing.T) {
	h := newTestRouter(t)

	rec, body := doJSON(t, h, http.MethodPost, "/api/playlist/Lo-Fi%20Chill/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Zzz", body["song"].(map[string]any)["name"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/playlist/Lo-Fi%20Chill/previous", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Penedol", body["song"].(map[string]any)["name"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/playlist/Lo-Fi%20Chill/set_current/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alpha", body["song"].(map[string]any)["name"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/playlist/Lo-Fi%20Chill/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alpha", body["song"].(map[string]any)["name"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/playlist/Lo-Fi%20Chill/set_current/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_index", body["code"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/playlist/Missing/next", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "playlist_not_found", body["code"])
}

func TestRouter_EmptyPlaylist(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/add_playlist", `{"name": "Empty"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/api/playlist/Empty/next", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_songs", body["code"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/playlist/Empty", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, -1, body["current"])
}

func TestRouter_Sort(t *testing.T) {
	h := newTestRouter(t)

	rec, body := doJSON(t, h, http.MethodPost, "/api/playlist/Lo-Fi%20Chill/sort", `{"sort_by": "artist"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "artist", body["sorted_by"])
	songs := body["songs"].([]any)
	require.Len(t, songs, 4)
	assert.Equal(t, "Penedol", songs[0].(map[string]any)["name"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/playlist/Lo-Fi%20Chill/sort", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "name", body["sorted_by"])
	assert.Equal(t, "Alpha", body["songs"].([]any)[0].(map[string]any)["name"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/playlist/Lo-Fi%20Chill/sort/duration", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "duration", body["sorted_by"])
	assert.Equal(t, "Zzz", body["songs"].([]any)[0].(map[string]any)["name"])
}
