package playlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/ringplay/internal/domain/song"
)

func scenarioPlaylist() *Playlist {
	p := New("Chill Beats")
	p.Append(song.New("Zzz", "Artist B", 125, "Ambient"))
	p.Append(song.New("Alpha", "Artist C", 252, "LoFi"))
	p.Append(song.New("Beats", "Artist D", 180, "LoFi"))
	return p
}

func TestPlaylist_SortScenario(t *testing.T) {
	p := scenarioPlaylist()

	p.Sort(SortByName)
	assert.Equal(t, []string{"Alpha", "Beats", "Zzz"}, names(p.ToList()))
	assertRingClosed(t, p)

	p.Sort(SortByDuration)
	assert.Equal(t, []string{"Zzz", "Beats", "Alpha"}, names(p.ToList()))
	assertRingClosed(t, p)
}

func TestPlaylist_SortKeys(t *testing.T) {
	tests := []struct {
		name     string
		key      SortKey
		songs    []song.Song
		expected []string
	}{
		{
			name: "name is case-insensitive",
			key:  SortByName,
			songs: []song.Song{
				song.New("beta", "x", 1, "g"),
				song.New("Alpha", "x", 1, "g"),
				song.New("ALPHA2", "x", 1, "g"),
				song.New("Gamma", "x", 1, "g"),
			},
			expected: []string{"Alpha", "ALPHA2", "beta", "Gamma"},
		},
		{
			name: "artist",
			key:  SortByArtist,
			songs: []song.Song{
				song.New("1", "queen", 1, "g"),
				song.New("2", "AC/DC", 1, "g"),
				song.New("3", "Nirvana", 1, "g"),
			},
			expected: []string{"2", "3", "1"},
		},
		{
			name: "genre",
			key:  SortByGenre,
			songs: []song.Song{
				song.New("1", "a", 1, "rock"),
				song.New("2", "a", 1, "Grunge"),
				song.New("3", "a", 1, "House"),
			},
			expected: []string{"2", "3", "1"},
		},
		{
			name: "duration is numeric",
			key:  SortByDuration,
			songs: []song.Song{
				song.New("long", "a", 482, "g"),
				song.New("short", "a", 9, "g"),
				song.New("mid", "a", 100, "g"),
			},
			expected: []string{"short", "mid", "long"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromSongs("test", tt.songs)
			p.Sort(tt.key)

			assert.Equal(t, tt.expected, names(p.ToList()))
			assertRingClosed(t, p)
		})
	}
}

func TestPlaylist_SortIsStable(t *testing.T) {
	p := New("test")
	p.Append(song.New("first", "a", 200, "g"))
	p.Append(song.New("second", "a", 100, "g"))
	p.Append(song.New("third", "a", 200, "g"))
	p.Append(song.New("fourth", "a", 100, "g"))
	p.Append(song.New("fifth", "a", 200, "g"))

	p.Sort(SortByDuration)

	assert.Equal(t, []string{"second", "fourth", "first", "third", "fifth"}, names(p.ToList()))
}

func TestPlaylist_SortStableOnCaseFoldedTies(t *testing.T) {
	p := New("test")
	p.Append(song.New("same", "first", 1, "g"))
	p.Append(song.New("SAME", "second", 1, "g"))
	p.Append(song.New("Same", "third", 1, "g"))

	p.Sort(SortByName)

	got := make([]string, 0, 3)
	for _, s := range p.ToList() {
		got = append(got, s.Artist)
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestPlaylist_SortIsIdempotent(t *testing.T) {
	for _, key := range SortKeys {
		t.Run(key.String(), func(t *testing.T) {
			p := FromSongs("test", []song.Song{
				song.New("Highway to Hell", "AC/DC", 210, "Rock"),
				song.New("Bohemian Rhapsody", "Queen", 354, "Rock"),
				song.New("Smells Like Teen Spirit", "Nirvana", 301, "Grunge"),
				song.New("Stairway to Heaven", "Led Zeppelin", 482, "Rock"),
				song.New("Around the World", "Daft Punk", 240, "House"),
			})

			p.Sort(key)
			once := p.ToList()
			p.Sort(key)

			assert.Equal(t, once, p.ToList())
		})
	}
}

func TestPlaylist_SortResetsCursor(t *testing.T) {
	p := scenarioPlaylist()
	_, _ = p.Next()
	_, _ = p.Next()

	p.Sort(SortByName)

	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "Alpha", cur.Name)
	pos, _ := p.Position()
	assert.Equal(t, 0, pos)

	// navigation keeps working on the re-closed ring
	s, _ := p.Next()
	assert.Equal(t, "Beats", s.Name)
	s, _ = p.Previous()
	assert.Equal(t, "Alpha", s.Name)
	s, _ = p.Previous()
	assert.Equal(t, "Zzz", s.Name)
}

func TestPlaylist_SortSmall(t *testing.T) {
	empty := New("empty")
	empty.Sort(SortByName)
	assert.True(t, empty.IsEmpty())
	assertRingClosed(t, empty)

	single := FromSongs("single", songs("Only"))
	_, _ = single.Next()
	single.Sort(SortByName)
	assert.Equal(t, []string{"Only"}, names(single.ToList()))
	assertRingClosed(t, single)
}

func TestPlaylist_SortThenAppend(t *testing.T) {
	p := scenarioPlaylist()
	p.Sort(SortByName)

	p.Append(song.New("Omega", "x", 1, "g"))

	assert.Equal(t, []string{"Alpha", "Beats", "Zzz", "Omega"}, names(p.ToList()))
	assertRingClosed(t, p)
}

func TestSortBy(t *testing.T) {
	p := FromSongs("test", []song.Song{
		song.New("a", "x", 1, "Rock"),
		song.New("bb", "x", 1, "Pop"),
		song.New("ccc", "x", 1, "Jazz"),
		song.New("dd", "x", 1, "Ska"),
	})

	SortBy(p, func(s song.Song) int { return -len(s.Name) })

	assert.Equal(t, []string{"ccc", "bb", "dd", "a"}, names(p.ToList()))
	assertRingClosed(t, p)

	SortBy(p, func(s song.Song) string { return strings.ToLower(s.Genre) })
	assert.Equal(t, []string{"ccc", "bb", "a", "dd"}, names(p.ToList()))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input    string
		expected SortKey
	}{
		{input: "name", expected: SortByName},
		{input: "artist", expected: SortByArtist},
		{input: "duration", expected: SortByDuration},
		{input: "genre", expected: SortByGenre},
		{input: "", expected: SortByName},
		{input: "popularity", expected: SortByName},
		{input: "Artist", expected: SortByName},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSortKey(tt.input))
		})
	}
}

func TestSortKey_String(t *testing.T) {
	for _, key := range SortKeys {
		assert.Equal(t, key, ParseSortKey(key.String()))
	}
}
