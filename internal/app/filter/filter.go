// Package filter provides the filter chain for song admission.
package filter

import (
	"context"

	"github.com/osa030/ringplay/internal/domain/playlist"
	"github.com/osa030/ringplay/internal/domain/song"
)

// Origin represents where a song being added comes from.
type Origin string

const (
	OriginUser   Origin = "USER"   // Added through the API
	OriginUpload Origin = "UPLOAD" // Created from an uploaded file
	OriginImport Origin = "IMPORT" // Imported from a CSV file by a client
	OriginSeed   Origin = "SEED"   // Loaded at startup
)

// SongRequest represents a song addition to be validated.
type SongRequest struct {
	Playlist string
	FileName string // uploaded file name, empty unless Origin is OriginUpload
	Origin   Origin
}

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "invalid_file", "duplicate_song"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for song filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// AppliesTo returns true if this filter should be applied to songs of the given origin.
	AppliesTo(origin Origin) bool
	// Check performs the filter check against the target playlist.
	Check(ctx context.Context, req SongRequest, s song.Song, p *playlist.Playlist) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}
