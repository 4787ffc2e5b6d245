package assets

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/automoto/earshot/sound"
)

//go:embed all:audio
var audioFS embed.FS

// AudioLoader handles loading and caching of audio assets
type AudioLoader struct {
	cache   map[string][]byte // decoded PCM by asset path
	context *audio.Context
}

// NewAudioLoader creates a new audio loader with the given context
func NewAudioLoader(ctx *audio.Context) *AudioLoader {
	return &AudioLoader{
		cache:   make(map[string][]byte),
		context: ctx,
	}
}

// Preload decodes a sound and caches it without creating a player.
func (l *AudioLoader) Preload(path string) error {
	_, err := l.decode(path)
	return err
}

// LoadLoop returns a looping player for path whose output runs through a
// low-pass filter the caller controls.
func (l *AudioLoader) LoadLoop(path string) (*audio.Player, *sound.LowPassStream, error) {
	decoded, err := l.decode(path)
	if err != nil {
		return nil, nil, err
	}

	loop := audio.NewInfiniteLoop(bytes.NewReader(decoded), int64(len(decoded)))
	filter := sound.NewLowPassStream(loop, l.context.SampleRate())

	player, err := l.context.NewPlayer(filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create player for %s: %w", path, err)
	}
	return player, filter, nil
}

func (l *AudioLoader) decode(path string) ([]byte, error) {
	// Check cache first
	if cached, ok := l.cache[path]; ok {
		return cached, nil
	}

	// Load from embedded FS
	data, err := audioFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}

	// Decode based on file extension
	var stream io.Reader
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(l.context.SampleRate(), bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode ogg %s: %w", path, err)
		}
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(l.context.SampleRate(), bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode wav %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}

	decoded, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded audio %s: %w", path, err)
	}

	l.cache[path] = decoded
	return decoded, nil
}
