package playlist

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/ringplay/internal/domain/song"
)

func songs(names ...string) []song.Song {
	result := make([]song.Song, len(names))
	for i, n := range names {
		result[i] = song.New(n, "Artist", 180, "Genre")
	}
	return result
}

func names(list []song.Song) []string {
	result := make([]string, len(list))
	for i, s := range list {
		result[i] = s.Name
	}
	return result
}

// assertRingClosed walks successor links from the tail and expects to be
// back at the tail after exactly Len() steps, and not before.
func assertRingClosed(t *testing.T, p *Playlist) {
	t.Helper()

	if p.Len() == 0 {
		assert.Equal(t, none, p.tail)
		assert.Equal(t, none, p.current)
		return
	}

	i := p.tail
	for step := 1; step <= p.Len(); step++ {
		i = p.nodes[i].next
		if step < p.Len() {
			require.NotEqual(t, p.tail, i, "ring closed early after %d steps", step)
		}
	}
	assert.Equal(t, p.tail, i, "ring not closed after %d steps", p.Len())
}

func TestPlaylist_Empty(t *testing.T) {
	p := New("empty")

	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.ToList())
	assertRingClosed(t, p)

	_, ok := p.Next()
	assert.False(t, ok)

	_, ok = p.Previous()
	assert.False(t, ok)

	_, ok, err := p.SetCurrent(0)
	assert.False(t, ok)
	assert.NoError(t, err)

	_, ok = p.Current()
	assert.False(t, ok)

	_, ok = p.Position()
	assert.False(t, ok)
}

func TestPlaylist_Append(t *testing.T) {
	tests := []struct {
		name  string
		songs []song.Song
	}{
		{name: "single song", songs: songs("A")},
		{name: "two songs", songs: songs("A", "B")},
		{name: "several songs", songs: songs("A", "B", "C", "D", "E")},
		{name: "duplicates", songs: songs("A", "A", "B", "A")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("test")
			for i, s := range tt.songs {
				p.Append(s)
				assert.Equal(t, i+1, p.Len())
				assertRingClosed(t, p)
			}

			assert.Equal(t, tt.songs, p.ToList())
		})
	}
}

func TestPlaylist_AppendKeepsCursor(t *testing.T) {
	p := New("test")
	p.Append(song.New("First", "A", 1, "G"))

	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "First", cur.Name)

	p.Append(song.New("Second", "A", 1, "G"))
	p.Append(song.New("Third", "A", 1, "G"))

	cur, ok = p.Current()
	require.True(t, ok)
	assert.Equal(t, "First", cur.Name)
}

func TestPlaylist_NextCycles(t *testing.T) {
	p := FromSongs("test", songs("A", "B", "C"))

	var got []string
	for i := 0; i < 7; i++ {
		s, ok := p.Next()
		require.True(t, ok)
		got = append(got, s.Name)
	}

	assert.Equal(t, []string{"B", "C", "A", "B", "C", "A", "B"}, got)
}

func TestPlaylist_FullRevolution(t *testing.T) {
	p := FromSongs("test", songs("A", "B", "C", "D"))

	for start := 0; start < p.Len(); start++ {
		before, _, err := p.SetCurrent(start)
		require.NoError(t, err)

		var after song.Song
		for i := 0; i < p.Len(); i++ {
			after, _ = p.Next()
		}
		assert.Equal(t, before, after, "start %d", start)
	}
}

func TestPlaylist_SingleSongNavigation(t *testing.T) {
	p := FromSongs("test", songs("Only"))

	s, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "Only", s.Name)

	s, ok = p.Previous()
	require.True(t, ok)
	assert.Equal(t, "Only", s.Name)

	s, ok, err := p.SetCurrent(5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Only", s.Name)
}

func TestPlaylist_Previous(t *testing.T) {
	p := FromSongs("test", songs("A", "B", "C"))

	var got []string
	for i := 0; i < 4; i++ {
		s, ok := p.Previous()
		require.True(t, ok)
		got = append(got, s.Name)
	}

	assert.Equal(t, []string{"C", "B", "A", "C"}, got)
}

func TestPlaylist_NextThenPreviousRestoresCursor(t *testing.T) {
	p := FromSongs("test", songs("A", "B", "C", "D"))

	for start := 0; start < p.Len(); start++ {
		before, _, err := p.SetCurrent(start)
		require.NoError(t, err)

		_, ok := p.Next()
		require.True(t, ok)
		restored, ok := p.Previous()
		require.True(t, ok)

		assert.Equal(t, before, restored)
		pos, _ := p.Position()
		assert.Equal(t, start, pos)
	}
}

func TestPlaylist_SetCurrent(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		expected string
	}{
		{name: "head", index: 0, expected: "A"},
		{name: "middle", index: 1, expected: "B"},
		{name: "tail", index: 2, expected: "C"},
		{name: "wraps at length", index: 3, expected: "A"},
		{name: "wraps past length", index: 7, expected: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromSongs("test", songs("A", "B", "C"))

			s, ok, err := p.SetCurrent(tt.index)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.expected, s.Name)

			cur, _ := p.Current()
			assert.Equal(t, tt.expected, cur.Name)
		})
	}
}

func TestPlaylist_SetCurrentNegative(t *testing.T) {
	p := FromSongs("test", songs("A", "B", "C"))
	_, _ = p.Next()

	_, ok, err := p.SetCurrent(-1)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrInvalidIndex))

	// cursor is left where it was
	cur, _ := p.Current()
	assert.Equal(t, "B", cur.Name)
}

func TestPlaylist_Position(t *testing.T) {
	p := FromSongs("test", songs("A", "B", "C"))

	pos, ok := p.Position()
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	_, _ = p.Next()
	_, _ = p.Next()
	pos, _ = p.Position()
	assert.Equal(t, 2, pos)

	_, _ = p.Next()
	pos, _ = p.Position()
	assert.Equal(t, 0, pos)
}

func TestPlaylist_Reset(t *testing.T) {
	p := FromSongs("test", songs("A", "B", "C"))
	_, _ = p.Next()

	p.Reset(songs("X", "Y"))

	assert.Equal(t, []string{"X", "Y"}, names(p.ToList()))
	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "X", cur.Name)
	assertRingClosed(t, p)

	p.Reset(nil)
	assert.True(t, p.IsEmpty())
	assertRingClosed(t, p)
}

func TestPlaylist_TotalDuration(t *testing.T) {
	p := New("test")
	assert.Equal(t, int64(0), p.TotalDuration())

	p.Append(song.New("A", "x", 120, "g"))
	p.Append(song.New("B", "x", 210, "g"))
	p.Append(song.New("C", "x", 240, "g"))
	assert.Equal(t, int64(570), p.TotalDuration())
}
