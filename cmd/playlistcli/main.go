// Package main provides the playlist CLI client.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/ringplay/internal/api/connect"
	"github.com/osa030/ringplay/internal/domain/song"
	"github.com/osa030/ringplay/internal/infra/csvio"
)

var (
	app    = kingpin.New("ringplay-cli", "ringplay playlist client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("RINGPLAY_SERVER").String()

	listCmd = app.Command("list", "List playlists")

	showCmd  = app.Command("show", "Show a playlist")
	showName = showCmd.Arg("playlist", "Playlist name").Required().String()

	createCmd  = app.Command("create", "Create a playlist")
	createName = createCmd.Arg("playlist", "Playlist name").Required().String()

	addCmd      = app.Command("add", "Add a song to a playlist")
	addPlaylist = addCmd.Arg("playlist", "Playlist name").Required().String()
	addName     = addCmd.Arg("name", "Song name").Required().String()
	addArtist   = addCmd.Flag("artist", "Artist").Default("").String()
	addDuration = addCmd.Flag("duration", "Duration as MM:SS or seconds").Default("0").String()
	addGenre    = addCmd.Flag("genre", "Genre").Default("").String()

	nextCmd      = app.Command("next", "Move to the next song")
	nextPlaylist = nextCmd.Arg("playlist", "Playlist name").Required().String()

	prevCmd      = app.Command("prev", "Move to the previous song")
	prevPlaylist = prevCmd.Arg("playlist", "Playlist name").Required().String()

	seekCmd      = app.Command("seek", "Move to the song at an index")
	seekPlaylist = seekCmd.Arg("playlist", "Playlist name").Required().String()
	seekIndex    = seekCmd.Arg("index", "Song index (wraps around)").Required().Int()

	currentCmd      = app.Command("current", "Show the current song")
	currentPlaylist = currentCmd.Arg("playlist", "Playlist name").Required().String()

	sortCmd      = app.Command("sort", "Sort a playlist")
	sortPlaylist = sortCmd.Arg("playlist", "Playlist name").Required().String()
	sortBy       = sortCmd.Flag("by", "Sort key: name, artist, duration or genre").Default("").String()

	importCmd      = app.Command("import", "Import songs from a CSV file")
	importPlaylist = importCmd.Arg("playlist", "Playlist name (created when missing)").Required().String()
	importFile     = importCmd.Arg("file", "CSV file with name,artist,duration,genre columns").Required().ExistingFile()

	exportCmd      = app.Command("export", "Write a playlist as CSV to stdout")
	exportPlaylist = exportCmd.Arg("playlist", "Playlist name").Required().String()

	watchCmd      = app.Command("watch", "Watch playlist events")
	watchPlaylist = watchCmd.Arg("playlist", "Playlist name (all playlists when omitted)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := apiconnect.NewClient(http.DefaultClient, *server)
	ctx := context.Background()

	var err error
	switch command {
	case listCmd.FullCommand():
		err = list(ctx, client)
	case showCmd.FullCommand():
		err = show(ctx, client, *showName)
	case createCmd.FullCommand():
		var p *apiconnect.Playlist
		if p, err = client.CreatePlaylist(ctx, *createName); err == nil {
			fmt.Printf("Created playlist %q\n", p.Name)
		}
	case addCmd.FullCommand():
		err = printSong(client.AddSong(ctx, &apiconnect.AddSongRequest{
			Playlist: *addPlaylist,
			Name:     *addName,
			Artist:   *addArtist,
			Duration: song.DurationValue(*addDuration),
			Genre:    *addGenre,
		}))
	case nextCmd.FullCommand():
		err = printSong(client.Next(ctx, *nextPlaylist))
	case prevCmd.FullCommand():
		err = printSong(client.Previous(ctx, *prevPlaylist))
	case seekCmd.FullCommand():
		err = printSong(client.SetCurrent(ctx, *seekPlaylist, *seekIndex))
	case currentCmd.FullCommand():
		err = printSong(client.Current(ctx, *currentPlaylist))
	case sortCmd.FullCommand():
		err = sortPlaylistBy(ctx, client, *sortPlaylist, *sortBy)
	case importCmd.FullCommand():
		err = importSongs(ctx, client, *importPlaylist, *importFile)
	case exportCmd.FullCommand():
		err = exportSongs(ctx, client, *exportPlaylist)
	case watchCmd.FullCommand():
		err = watch(ctx, client, *watchPlaylist)
	}

	if err != nil {
		if code := apiconnect.ErrorCode(err); code != "" {
			fmt.Printf("Error [%s]: %v\n", code, err)
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func list(ctx context.Context, client *apiconnect.Client) error {
	playlists, err := client.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if len(playlists) == 0 {
		fmt.Println("No playlists")
		return nil
	}
	for _, p := range playlists {
		fmt.Printf("%-30s %3d songs  %s\n", p.Name, len(p.Songs), song.FormatDuration(p.TotalDuration))
	}
	return nil
}

func show(ctx context.Context, client *apiconnect.Client, name string) error {
	p, err := client.GetPlaylist(ctx, name)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d songs, %s)\n", p.Name, len(p.Songs), song.FormatDuration(p.TotalDuration))
	printSongs(p.Songs, p.Current)
	return nil
}

func sortPlaylistBy(ctx context.Context, client *apiconnect.Client, name, key string) error {
	res, err := client.Sort(ctx, name, key)
	if err != nil {
		return err
	}

	fmt.Printf("Sorted %q by %s\n", name, res.SortedBy)
	printSongs(res.Songs, 0)
	return nil
}

func importSongs(ctx context.Context, client *apiconnect.Client, name, path string) error {
	songs, err := csvio.LoadFile(path)
	if err != nil {
		return err
	}

	wire := make([]apiconnect.Song, 0, len(songs))
	for _, s := range songs {
		wire = append(wire, apiconnect.Song{Name: s.Name, Artist: s.Artist, Duration: s.Duration, Genre: s.Genre})
	}

	res, err := client.ImportSongs(ctx, name, wire)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d songs into %q (%d skipped)\n", res.Added, name, res.Skipped)
	return nil
}

func exportSongs(ctx context.Context, client *apiconnect.Client, name string) error {
	p, err := client.GetPlaylist(ctx, name)
	if err != nil {
		return err
	}

	songs := make([]song.Song, 0, len(p.Songs))
	for _, s := range p.Songs {
		songs = append(songs, apiconnect.FromSong(s))
	}
	return csvio.WriteSongs(os.Stdout, songs)
}

func watch(ctx context.Context, client *apiconnect.Client, name string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching playlist events. Press Ctrl+C to exit.")
	return client.Watch(ctx, name, func(e *apiconnect.WatchEvent) error {
		printEvent(e)
		return nil
	})
}

func printEvent(e *apiconnect.WatchEvent) {
	fmt.Printf("\n[Sequence: %d] ", e.SequenceNo)

	switch e.Type {
	case "initial_state":
		fmt.Println("=== INITIAL STATE ===")
		for _, p := range e.Playlists {
			fmt.Printf("%s (%d songs)\n", p.Name, len(p.Songs))
			printSongs(p.Songs, p.Current)
		}
	case "playlist_created":
		fmt.Printf("=== PLAYLIST CREATED === %s\n", e.Playlist)
	case "song_added":
		fmt.Printf("=== SONG ADDED === %s\n", e.Playlist)
		printWireSong(e.Song)
	case "cursor_moved":
		fmt.Printf("=== CURSOR MOVED === %s [%d]\n", e.Playlist, e.Position)
		printWireSong(e.Song)
	case "sorted":
		fmt.Printf("=== SORTED === %s by %s\n", e.Playlist, e.SortedBy)
		printSongs(e.Songs, 0)
	default:
		fmt.Printf("=== UNKNOWN EVENT (%s) ===\n", e.Type)
	}
}

func printSongs(songs []apiconnect.Song, current int) {
	for i, s := range songs {
		marker := " "
		if i == current {
			marker = ">"
		}
		fmt.Printf("  %s %2d. %s - %s [%s] (%s)\n", marker, i, s.Name, s.Artist, s.DurationText, s.Genre)
	}
}

func printWireSong(s *apiconnect.Song) {
	if s == nil {
		return
	}
	fmt.Printf("  %s - %s [%s] (%s)\n", s.Name, s.Artist, s.DurationText, s.Genre)
}

func printSong(s *apiconnect.Song, err error) error {
	if err != nil {
		return err
	}
	printWireSong(s)
	return nil
}
