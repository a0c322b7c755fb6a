package preset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/1F47E/go-framereel/internal/logger"
)

type Kind string

const (
	KindCodec     Kind = "codec"
	KindFramerate Kind = "framerate"
)

var (
	ErrUnknownKind   = errors.New("unknown preset kind")
	ErrEmptyName     = errors.New("preset name is required")
	ErrEmptyValue    = errors.New("preset value is required")
	ErrUnknownPreset = errors.New("unknown preset")
)

// ParseKind maps user input to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCodec:
		return KindCodec, nil
	case KindFramerate:
		return KindFramerate, nil
	}
	return "", fmt.Errorf("%w %q (expected codec|framerate)", ErrUnknownKind, s)
}

// Store owns both preset mappings and the files behind them.
type Store struct {
	mu            sync.RWMutex
	codecPath     string
	frameratePath string
	codecs        Mapping
	framerates    Mapping
}

// Open loads both preset files. Missing files start empty.
func Open(codecPath, frameratePath string) (*Store, error) {
	codecs, err := Load(codecPath)
	if err != nil {
		return nil, err
	}
	framerates, err := Load(frameratePath)
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("scope", "presets").Debugf("loaded %d codec and %d framerate presets", len(codecs), len(framerates))
	return &Store{
		codecPath:     codecPath,
		frameratePath: frameratePath,
		codecs:        codecs,
		framerates:    framerates,
	}, nil
}

// Add inserts or overwrites a preset and persists that mapping immediately.
// ext is only meaningful for codec presets.
func (s *Store) Add(kind Kind, name, value, ext string) error {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return ErrEmptyName
	}
	if value == "" {
		return ErrEmptyValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindCodec:
		ext = normalizeExt(ext)
		next := s.codecs.Clone()
		next[name] = Value{Command: value, Extension: ext}
		if err := Save(next, s.codecPath); err != nil {
			return err
		}
		s.codecs = next
	case KindFramerate:
		if _, err := parseFPS(value); err != nil {
			return err
		}
		next := s.framerates.Clone()
		next[name] = Value{Command: value}
		if err := Save(next, s.frameratePath); err != nil {
			return err
		}
		s.framerates = next
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	logger.Log.WithField("scope", "presets").Infof("saved %s preset %q", kind, name)
	return nil
}

// Codecs returns a copy of the codec presets.
func (s *Store) Codecs() Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codecs.Clone()
}

// Framerates returns a copy of the framerate presets.
func (s *Store) Framerates() Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.framerates.Clone()
}

// Codec looks up a codec preset. An empty name selects the first preset in
// name order.
func (s *Store) Codec(name string) (string, Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == "" {
		names := s.codecs.Names()
		if len(names) == 0 {
			return "", Value{}, fmt.Errorf("%w: no codec presets defined", ErrUnknownPreset)
		}
		name = names[0]
	}
	v, ok := s.codecs[name]
	if !ok {
		return "", Value{}, fmt.Errorf("%w: codec %q", ErrUnknownPreset, name)
	}
	return name, v, nil
}

// Framerate resolves a framerate preset to fps. Unknown or empty names fall
// back to the default rate; a stored value that is not a positive integer
// is an error.
func (s *Store) Framerate(name string) (int, error) {
	s.mu.RLock()
	v, ok := s.framerates[name]
	s.mu.RUnlock()
	if !ok {
		return cfg.DefaultFramerate, nil
	}
	return parseFPS(v.Command)
}

// Seed writes the sample presets for any mapping that is still empty.
func (s *Store) Seed() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seeded := false
	if len(s.codecs) == 0 {
		next := SampleCodecs()
		if err := Save(next, s.codecPath); err != nil {
			return seeded, err
		}
		s.codecs = next
		seeded = true
	}
	if len(s.framerates) == 0 {
		next := SampleFramerates()
		if err := Save(next, s.frameratePath); err != nil {
			return seeded, err
		}
		s.framerates = next
		seeded = true
	}
	return seeded, nil
}

// SampleCodecs returns the presets written by `preset init`.
func SampleCodecs() Mapping {
	return Mapping{
		"h264":   {Command: "ffmpeg -y -i input -c:v libx264 -preset slow -crf 18 -pix_fmt yuv420p output.mp4"},
		"h265":   {Command: "ffmpeg -y -i input -c:v libx265 -crf 22 -pix_fmt yuv420p -tag:v hvc1 output.mp4"},
		"prores": {Command: "ffmpeg -y -i input -c:v prores_ks -profile:v 3 -pix_fmt yuv422p10le output.mov"},
		"vp9":    {Command: "ffmpeg -y -i input -c:v libvpx-vp9 -crf 30 -b:v 0 output.webm"},
	}
}

// SampleFramerates returns the framerate presets written by `preset init`.
func SampleFramerates() Mapping {
	return Mapping{
		"24 fps": {Command: "24"},
		"25 fps": {Command: "25"},
		"30 fps": {Command: "30"},
		"60 fps": {Command: "60"},
	}
}

func parseFPS(s string) (int, error) {
	fps, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || fps <= 0 {
		return 0, fmt.Errorf("framerate %q is not a positive integer", s)
	}
	return fps, nil
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
