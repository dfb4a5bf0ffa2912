package filter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ringplay/internal/domain/playlist"
	"github.com/osa030/ringplay/internal/domain/song"
)

// FileExtensionConfig represents the configuration for FileExtensionFilter.
type FileExtensionConfig struct {
	Patterns []string `yaml:"patterns" mapstructure:"patterns" default:"[\"*.mp3\",\"*.wav\",\"*.ogg\"]" validate:"min=1,dive,required"`
}

// FileExtensionFilter checks uploaded file names against glob patterns.
// Matching is case-insensitive and ignores directories in the name.
type FileExtensionFilter struct {
	globs []glob.Glob
}

// NewFileExtensionFilter creates a filter using the default patterns.
func NewFileExtensionFilter() *FileExtensionFilter {
	f := &FileExtensionFilter{}
	if err := f.ValidateConfig(nil); err != nil {
		panic(fmt.Sprintf("invalid default file extension config: %v", err))
	}
	return f
}

func (f *FileExtensionFilter) Name() string {
	return "file_extension_filter"
}

func (f *FileExtensionFilter) Description() string {
	return "Checks that uploaded files are audio files (mp3, wav, ogg by default)"
}

func (f *FileExtensionFilter) ReturnCodes() []string {
	return []string{"invalid_file"}
}

func (f *FileExtensionFilter) ValidateConfig(settings map[string]any) error {
	var config FileExtensionConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	globs := make([]glob.Glob, 0, len(config.Patterns))
	for _, pattern := range config.Patterns {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return errors.Wrapf(err, "invalid pattern %q", pattern)
		}
		globs = append(globs, g)
	}

	f.globs = globs
	zlog.Debug().Msgf("file extension filter config: %+v", config)
	return nil
}

func (f *FileExtensionFilter) AppliesTo(origin Origin) bool {
	return origin == OriginUpload
}

func (f *FileExtensionFilter) Check(ctx context.Context, req SongRequest, s song.Song, p *playlist.Playlist) Result {
	name := strings.ToLower(filepath.Base(req.FileName))
	if req.FileName == "" || name == "." {
		return Reject("invalid_file")
	}

	for _, g := range f.globs {
		if g.Match(name) {
			return Accept()
		}
	}
	return Reject("invalid_file")
}

func init() {
	Register("file_extension_filter", func() Filter {
		return NewFileExtensionFilter()
	})
}
