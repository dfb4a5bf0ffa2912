package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/ringplay/internal/domain/song"
)

type recordingStream struct {
	mu     sync.Mutex
	events []Event
	err    error
	delay  time.Duration
}

func (s *recordingStream) Send(e Event) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingStream) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]Event, len(s.events))
	copy(result, s.events)
	return result
}

func TestManager_Broadcast(t *testing.T) {
	m := NewManager()
	a := &recordingStream{}
	b := &recordingStream{}
	m.Subscribe(a)
	m.Subscribe(b)
	require.Equal(t, 2, m.SubscriberCount())

	s := song.New("Alpha", "Artist C", 252, "Lo-Fi")
	m.Broadcast(Event{Type: EventSongAdded, Playlist: "Lo-Fi Chill", Song: &s})
	m.Broadcast(Event{Type: EventSorted, Playlist: "Lo-Fi Chill", SortedBy: "name"})

	for _, stream := range []*recordingStream{a, b} {
		events := stream.received()
		require.Len(t, events, 2)
		assert.Equal(t, EventSongAdded, events[0].Type)
		assert.Equal(t, uint64(1), events[0].SequenceNo)
		assert.Equal(t, "Alpha", events[0].Song.Name)
		assert.Equal(t, EventSorted, events[1].Type)
		assert.Equal(t, uint64(2), events[1].SequenceNo)
	}
}

func TestManager_Unsubscribe(t *testing.T) {
	m := NewManager()
	a := &recordingStream{}
	id := m.Subscribe(a)

	m.Unsubscribe(id)
	assert.Equal(t, 0, m.SubscriberCount())

	m.Broadcast(Event{Type: EventCursorMoved, Playlist: "Rock"})
	assert.Empty(t, a.received())
}

func TestManager_BroadcastSurvivesFailingStreams(t *testing.T) {
	m := NewManager()
	m.sendTimeout = 20 * time.Millisecond

	failing := &recordingStream{err: errors.New("closed")}
	slow := &recordingStream{delay: 200 * time.Millisecond}
	ok := &recordingStream{}
	m.Subscribe(failing)
	m.Subscribe(slow)
	m.Subscribe(ok)

	start := time.Now()
	m.Broadcast(Event{Type: EventPlaylistCreated, Playlist: "New"})

	assert.Less(t, time.Since(start), 200*time.Millisecond)
	assert.Len(t, ok.received(), 1)
	assert.Len(t, failing.received(), 1)
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	m.Subscribe(&recordingStream{})
	m.Subscribe(&recordingStream{})

	m.Close()
	assert.Equal(t, 0, m.SubscriberCount())
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "playlist_created", EventPlaylistCreated.String())
	assert.Equal(t, "song_added", EventSongAdded.String())
	assert.Equal(t, "cursor_moved", EventCursorMoved.String())
	assert.Equal(t, "sorted", EventSorted.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
