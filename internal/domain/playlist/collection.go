package playlist

// Collection is an ordered list of playlists.
// Names are not unique; lookups return the first match.
type Collection struct {
	playlists []*Playlist
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		playlists: make([]*Playlist, 0),
	}
}

// Add appends a playlist to the collection.
func (c *Collection) Add(p *Playlist) {
	c.playlists = append(c.playlists, p)
}

// Find returns the first playlist with the given name, or nil.
func (c *Collection) Find(name string) *Playlist {
	for _, p := range c.playlists {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// All returns the playlists in insertion order.
func (c *Collection) All() []*Playlist {
	result := make([]*Playlist, len(c.playlists))
	copy(result, c.playlists)
	return result
}

// Len returns the number of playlists.
func (c *Collection) Len() int {
	return len(c.playlists)
}
