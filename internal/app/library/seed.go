package library

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ringplay/internal/app/filter"
	"github.com/osa030/ringplay/internal/domain/song"
	"github.com/osa030/ringplay/internal/infra/csvio"
)

// SeedPlaylist is a named list of songs loaded at startup.
type SeedPlaylist struct {
	Name  string
	Songs []song.Song
}

// DemoPlaylists returns the built-in demo playlists.
func DemoPlaylists() []SeedPlaylist {
	return []SeedPlaylist{
		{
			Name: "Lo-Fi Chill",
			Songs: []song.Song{
				song.FromValues("Penedol", "Artist A", "03:15", "Lo-Fi"),
				song.FromValues("Zzz", "Artist B", "02:05", "Ambient"),
				song.FromValues("Alpha", "Artist C", "04:12", "Lo-Fi"),
				song.FromValues("Beats", "Artist D", "03:00", "Lo-Fi"),
			},
		},
		{
			Name: "Rock",
			Songs: []song.Song{
				song.FromValues("Highway to Hell", "AC/DC", "03:30", "Rock"),
				song.FromValues("Bohemian Rhapsody", "Queen", "05:54", "Rock"),
				song.FromValues("Smells Like Teen Spirit", "Nirvana", "05:01", "Grunge"),
				song.FromValues("Stairway to Heaven", "Led Zeppelin", "08:02", "Rock"),
			},
		},
		{
			Name: "Electronica",
			Songs: []song.Song{
				song.FromValues("Around the World", "Daft Punk", "04:00", "House"),
				song.FromValues("One More Time", "Daft Punk", "05:00", "House"),
				song.FromValues("Clarity", "Zedd", "04:04", "EDM"),
			},
		},
	}
}

// Seed loads playlists into the service.
func (s *Service) Seed(ctx context.Context, seeds []SeedPlaylist) error {
	for _, sp := range seeds {
		if _, err := s.ImportSongs(ctx, sp.Name, sp.Songs, filter.OriginSeed); err != nil {
			return errors.Wrapf(err, "failed to seed playlist %q", sp.Name)
		}
	}
	return nil
}

// SeedFile loads songs from a CSV file into the named playlist.
func (s *Service) SeedFile(ctx context.Context, playlistName, path string) error {
	songs, err := csvio.LoadFile(path)
	if err != nil {
		return err
	}

	zlog.Info().Msgf("seeding playlist from file: playlist=%s path=%s songs=%d", playlistName, path, len(songs))
	return s.Seed(ctx, []SeedPlaylist{{Name: playlistName, Songs: songs}})
}
