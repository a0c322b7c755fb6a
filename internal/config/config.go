package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ProjectConfigName is looked up in the working directory when the per-user
// config file does not exist.
const ProjectConfigName = "framereel.toml"

var ErrConfigExists = errors.New("config file already exists")

//go:embed sample_config.toml
var sampleConfig string

// Paths holds the locations of the preset documents and the scratch directory.
type Paths struct {
	CodecPresets     string `toml:"codec_presets"`
	FrameratePresets string `toml:"framerate_presets"`
	WorkDir          string `toml:"work_dir"`
}

// Encoder configures the external encoder used for the intermediate file.
type Encoder struct {
	Binary            string `toml:"binary"`
	IntermediateCodec string `toml:"intermediate_codec"`
}

type Logging struct {
	Level string `toml:"level"`
}

type UI struct {
	Mode string `toml:"mode"`
}

// Config is the whole framereel configuration file.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Encoder Encoder `toml:"encoder"`
	Logging Logging `toml:"logging"`
	UI      UI      `toml:"ui"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Paths: Paths{
			CodecPresets:     "~/.config/framereel/presets.json",
			FrameratePresets: "~/.config/framereel/framerate_presets.json",
			WorkDir:          ".",
		},
		Encoder: Encoder{
			Binary:            "ffmpeg",
			IntermediateCodec: IntermediateFFV1,
		},
		Logging: Logging{Level: "info"},
		UI:      UI{Mode: UIAuto},
	}
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/framereel/config.toml")
}

// Load reads the config at path, or the first of the default locations that
// exists. A missing file yields the defaults; unknown keys are an error so a
// typo does not silently fall back to a default. The second return value is
// the resolved path, the third reports whether it existed.
func Load(path string) (*Config, string, bool, error) {
	c := Default()

	candidates, err := configCandidates(path)
	if err != nil {
		return nil, "", false, err
	}
	resolved, exists := candidates[0], false
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", false, fmt.Errorf("read config %s: %w", candidate, err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", candidate, err)
		}
		resolved, exists = candidate, true
		break
	}

	if err := c.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := c.Validate(); err != nil {
		return nil, "", false, fmt.Errorf("config %s: %w", resolved, err)
	}
	return &c, resolved, exists, nil
}

// configCandidates lists the files Load tries, in order. An explicit path is
// the only candidate.
func configCandidates(path string) ([]string, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		return []string{expanded}, nil
	}
	user, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	project, err := ExpandPath(ProjectConfigName)
	if err != nil {
		return nil, err
	}
	return []string{user, project}, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.CodecPresets, err = ExpandPath(strings.TrimSpace(c.Paths.CodecPresets)); err != nil {
		return err
	}
	if c.Paths.FrameratePresets, err = ExpandPath(strings.TrimSpace(c.Paths.FrameratePresets)); err != nil {
		return err
	}
	workDir := strings.TrimSpace(c.Paths.WorkDir)
	if workDir == "" {
		workDir = "."
	}
	if c.Paths.WorkDir, err = ExpandPath(workDir); err != nil {
		return err
	}

	c.Encoder.Binary = strings.TrimSpace(c.Encoder.Binary)
	if c.Encoder.Binary == "" {
		c.Encoder.Binary = "ffmpeg"
	}
	c.Encoder.IntermediateCodec = strings.ToLower(strings.TrimSpace(c.Encoder.IntermediateCodec))
	if c.Encoder.IntermediateCodec == "" {
		c.Encoder.IntermediateCodec = IntermediateFFV1
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.UI.Mode = strings.ToLower(strings.TrimSpace(c.UI.Mode))
	if c.UI.Mode == "" {
		c.UI.Mode = UIAuto
	}
	return nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Encoder.IntermediateCodec {
	case IntermediateFFV1, IntermediateMJPEG:
	default:
		return fmt.Errorf("encoder.intermediate_codec: unsupported value %q (expected %s|%s)",
			c.Encoder.IntermediateCodec, IntermediateFFV1, IntermediateMJPEG)
	}
	if err := ValidateUIMode(c.UI.Mode); err != nil {
		return fmt.Errorf("ui.mode: %w", err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ValidateUIMode reports whether mode is one of the known presentation modes.
func ValidateUIMode(mode string) error {
	switch mode {
	case UIAuto, UITUI, UIBar, UIPlain:
		return nil
	}
	return fmt.Errorf("unsupported ui mode %q (expected %s|%s|%s|%s)", mode, UIAuto, UITUI, UIBar, UIPlain)
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes the embedded sample config to path. An existing file is
// only replaced when overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
