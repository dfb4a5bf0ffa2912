// Package playlist provides the circular Playlist and the playlist Collection.
//
// A Playlist is a singly linked ring of songs. Nodes live in a slice and
// link to their successor by index, so closing the ring (tail -> head) is
// plain index equality. The playlist keeps the tail, whose successor is the
// head, and an independent cursor used for navigation.
//
// A Playlist is not safe for concurrent use. Callers that share one must
// serialize every call, including navigation, which moves the cursor.
package playlist

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/ringplay/internal/domain/song"
)

// ErrInvalidIndex is returned when seeking to a negative index.
var ErrInvalidIndex = errors.New("invalid index")

// none marks an absent node index.
const none = -1

// node holds one song and the index of its successor.
type node struct {
	song song.Song
	next int
}

// Playlist represents a named circular sequence of songs.
type Playlist struct {
	Name string

	nodes   []node
	tail    int // last appended node, its successor is the head
	current int // cursor
}

// New creates an empty playlist.
func New(name string) *Playlist {
	return &Playlist{
		Name:    name,
		nodes:   make([]node, 0),
		tail:    none,
		current: none,
	}
}

// FromSongs creates a playlist holding songs in the given order.
func FromSongs(name string, songs []song.Song) *Playlist {
	p := New(name)
	for _, s := range songs {
		p.Append(s)
	}
	return p
}

// Len returns the number of songs.
func (p *Playlist) Len() int {
	return len(p.nodes)
}

// IsEmpty returns true if the playlist has no songs.
func (p *Playlist) IsEmpty() bool {
	return p.tail == none
}

// head returns the index of the first node. The playlist must not be empty.
func (p *Playlist) head() int {
	return p.nodes[p.tail].next
}

// Append adds a song at the end of the ring.
// The first song also becomes the cursor; later appends leave it in place.
func (p *Playlist) Append(s song.Song) {
	idx := len(p.nodes)

	if p.tail == none {
		p.nodes = append(p.nodes, node{song: s, next: idx})
		p.tail = idx
		p.current = idx
		return
	}

	p.nodes = append(p.nodes, node{song: s, next: p.head()})
	p.nodes[p.tail].next = idx
	p.tail = idx
}

// Reset replaces the contents with songs and puts the cursor on the first one.
func (p *Playlist) Reset(songs []song.Song) {
	p.nodes = make([]node, 0, len(songs))
	p.tail = none
	p.current = none
	for _, s := range songs {
		p.Append(s)
	}
}

// Current returns the song under the cursor.
func (p *Playlist) Current() (song.Song, bool) {
	if p.current == none {
		return song.Song{}, false
	}
	return p.nodes[p.current].song, true
}

// Position returns how many steps from the head the cursor is.
func (p *Playlist) Position() (int, bool) {
	if p.current == none || p.tail == none {
		return 0, false
	}

	pos := 0
	for i := p.head(); i != p.current; i = p.nodes[i].next {
		pos++
	}
	return pos, true
}

// Next moves the cursor forward and returns the song it lands on.
// The ring has no end, so repeated calls cycle through the playlist.
func (p *Playlist) Next() (song.Song, bool) {
	if p.current == none {
		return song.Song{}, false
	}

	p.current = p.nodes[p.current].next
	return p.nodes[p.current].song, true
}

// Previous moves the cursor backward and returns the song it lands on.
// Nodes only link forward, so this scans the ring from the head: O(n).
func (p *Playlist) Previous() (song.Song, bool) {
	if p.current == none || p.tail == none {
		return song.Song{}, false
	}

	i := p.head()
	for p.nodes[i].next != p.current {
		i = p.nodes[i].next
	}

	p.current = i
	return p.nodes[p.current].song, true
}

// SetCurrent moves the cursor index steps forward from the head.
// Indexes past the end wrap around the ring. An empty playlist reports
// false without an error; a negative index returns ErrInvalidIndex.
func (p *Playlist) SetCurrent(index int) (song.Song, bool, error) {
	if p.tail == none {
		return song.Song{}, false, nil
	}
	if index < 0 {
		return song.Song{}, false, errors.Wrapf(ErrInvalidIndex, "index %d", index)
	}

	// a full revolution lands on the same node
	steps := index % len(p.nodes)

	i := p.head()
	for ; steps > 0; steps-- {
		i = p.nodes[i].next
	}

	p.current = i
	return p.nodes[p.current].song, true, nil
}

// ToList returns the songs in ring order starting at the head.
func (p *Playlist) ToList() []song.Song {
	songs := make([]song.Song, 0, len(p.nodes))
	if p.tail == none {
		return songs
	}

	i := p.head()
	for {
		songs = append(songs, p.nodes[i].song)
		if i == p.tail {
			break
		}
		i = p.nodes[i].next
	}
	return songs
}

// TotalDuration returns the total duration of all songs in seconds.
func (p *Playlist) TotalDuration() int64 {
	var total int64
	for _, n := range p.nodes {
		total += int64(n.song.Duration)
	}
	return total
}
