package playlist

import (
	"cmp"

	"github.com/osa030/ringplay/internal/domain/song"
)

// Sort orders the playlist by the given key.
func (p *Playlist) Sort(key SortKey) {
	p.SortFunc(key.Less)
}

// SortBy orders the playlist by the value key extracts from each song.
func SortBy[K cmp.Ordered](p *Playlist, key func(song.Song) K) {
	p.SortFunc(func(a, b song.Song) bool {
		return key(a) < key(b)
	})
}

// SortFunc orders the playlist with a stable linked-list insertion sort.
//
// The ring is cut open at the tail, each node is inserted after every
// already sorted node that is not greater than it, and the chain is closed
// again at its new last node. Equal songs keep their relative order.
// The cursor moves to the new head.
//
// Cost is O(n^2) comparisons in the worst case. A node that sorts before the
// current front of the sorted chain is placed in O(1).
func (p *Playlist) SortFunc(less func(a, b song.Song) bool) {
	if p.tail == none || p.head() == p.tail {
		return
	}

	first := p.head()
	p.nodes[p.tail].next = none

	sorted := none
	for cur := first; cur != none; {
		next := p.nodes[cur].next

		if sorted == none || less(p.nodes[cur].song, p.nodes[sorted].song) {
			p.nodes[cur].next = sorted
			sorted = cur
		} else {
			spot := sorted
			for p.nodes[spot].next != none && !less(p.nodes[cur].song, p.nodes[p.nodes[spot].next].song) {
				spot = p.nodes[spot].next
			}
			p.nodes[cur].next = p.nodes[spot].next
			p.nodes[spot].next = cur
		}

		cur = next
	}

	last := sorted
	for p.nodes[last].next != none {
		last = p.nodes[last].next
	}
	p.nodes[last].next = sorted

	p.tail = last
	p.current = sorted
}
