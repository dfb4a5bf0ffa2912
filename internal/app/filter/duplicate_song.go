package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/osa030/ringplay/internal/domain/playlist"
	"github.com/osa030/ringplay/internal/domain/song"
)

// DuplicateSongFilter rejects songs that are already in the target playlist.
// Detects:
// - Same name and artist, case-insensitive
// - Remasters and alternate versions (normalized name + same artist)
// Excludes:
// - Covers (same name but different artist)
type DuplicateSongFilter struct{}

// NewDuplicateSongFilter creates a new duplicate song filter.
func NewDuplicateSongFilter() *DuplicateSongFilter {
	return &DuplicateSongFilter{}
}

// Name returns the filter name.
func (f *DuplicateSongFilter) Name() string {
	return "duplicate_song_filter"
}

// Description returns the filter description.
func (f *DuplicateSongFilter) Description() string {
	return "Rejects songs already in the playlist, remasters included. Covers by other artists are allowed"
}

// ReturnCodes returns possible return codes.
func (f *DuplicateSongFilter) ReturnCodes() []string {
	return []string{"duplicate_song"}
}

// AppliesTo returns which origins this filter applies to.
func (f *DuplicateSongFilter) AppliesTo(origin Origin) bool {
	return origin == OriginUser || origin == OriginUpload
}

// ValidateConfig validates the filter configuration.
func (f *DuplicateSongFilter) ValidateConfig(settings map[string]any) error {
	// No configuration needed
	return nil
}

// Check checks if the song is a duplicate.
func (f *DuplicateSongFilter) Check(ctx context.Context, req SongRequest, requested song.Song, p *playlist.Playlist) Result {
	if p == nil {
		return Accept()
	}

	name := normalizeSongName(requested.Name)
	for _, existing := range p.ToList() {
		if !strings.EqualFold(existing.Artist, requested.Artist) {
			continue
		}
		if strings.EqualFold(existing.Name, requested.Name) || normalizeSongName(existing.Name) == name {
			return Reject("duplicate_song")
		}
	}

	return Accept()
}

var (
	remasterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*-?\s*\d{4}\s+remaster(ed)?`),      // "- 2011 Remaster"
		regexp.MustCompile(`\s*\(remaster(ed)?\s*\d{0,4}\)`),     // "(Remastered 2023)"
		regexp.MustCompile(`\s*\[remaster(ed)?\s*\d{0,4}\]`),     // "[Remastered]"
		regexp.MustCompile(`\s*-?\s*remaster(ed)?(\s+version)?`), // "- Remastered"
		regexp.MustCompile(`\s*\(.*?remaster.*?\)`),              // "(Any Remaster text)"
		regexp.MustCompile(`\s*\[.*?remaster.*?\]`),              // "[Any Remaster text]"
	}

	versionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*\(.*?version\)`),        // "(Single Version)"
		regexp.MustCompile(`\s*\(.*?edit\)`),           // "(Radio Edit)"
		regexp.MustCompile(`\s*-\s*live$`),             // "- Live"
		regexp.MustCompile(`\s*\(live\)`),              // "(Live)"
		regexp.MustCompile(`\s*-?\s*radio\s+edit`),     // "- Radio Edit"
		regexp.MustCompile(`\s*-?\s*single\s+version`), // "- Single Version"
	}

	spaces = regexp.MustCompile(`\s+`)
)

// normalizeSongName removes remaster information and version details.
func normalizeSongName(name string) string {
	normalized := strings.ToLower(name)

	for _, pattern := range remasterPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}
	for _, pattern := range versionPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}

	normalized = strings.TrimSpace(normalized)
	normalized = spaces.ReplaceAllString(normalized, " ")

	return strings.TrimRight(normalized, " -")
}

func init() {
	Register("duplicate_song_filter", func() Filter {
		return NewDuplicateSongFilter()
	})
}
