package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the manifest, source and output locations.
type Paths struct {
	Manifest       string `toml:"manifest"`
	SourceDir      string `toml:"source_dir"`
	CompiledOutput string `toml:"compiled_output"`
	IndividualDir  string `toml:"individual_dir"`
	LogDir         string `toml:"log_dir"`
}

// Manifest describes the CSV columns holding the cut range.
// The group key is always the first column.
type Manifest struct {
	StartColumn string `toml:"start_column"`
	EndColumn   string `toml:"end_column"`
	Delimiter   string `toml:"delimiter"`
}

// Sources controls how group keys are matched against the source directory.
type Sources struct {
	Extension       string `toml:"extension"`
	CaseInsensitive bool   `toml:"case_insensitive"`
}

// Output selects the assembly strategy and naming for produced files.
type Output struct {
	// Mode is "compiled" or "individual". Empty asks interactively when possible.
	Mode string `toml:"mode"`
	// Order is "chronological" or "random"; only meaningful for compiled mode.
	Order string `toml:"order"`
	// Seed fixes the random order. Zero picks a fresh seed per run.
	Seed                int64  `toml:"seed"`
	IndividualPrefix    string `toml:"individual_prefix"`
	IndividualExtension string `toml:"individual_extension"`
	NumberWidth         int    `toml:"number_width"`
	TempAudioFile       string `toml:"temp_audio_file"`
}

// Engine configures the ffmpeg-backed media engine.
type Engine struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	VideoCodec    string `toml:"video_codec"`
	AudioCodec    string `toml:"audio_codec"`
	Preset        string `toml:"preset"`
	CRF           int    `toml:"crf"`
}

// Archive configures the optional Drapto re-encode of written outputs.
type Archive struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// History configures the SQLite run history store.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelcut.
//
// Configuration sections by subsystem:
//   - Paths: manifest, source directory, outputs and logs
//   - Manifest: CSV column names and delimiter
//   - Sources: source file extension and matching rules
//   - Output: output mode, order, seed and file naming
//   - Engine: ffmpeg binaries and codecs
//   - Archive: optional AV1 archival copies via Drapto
//   - History: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Manifest Manifest `toml:"manifest"`
	Sources  Sources  `toml:"sources"`
	Output   Output   `toml:"output"`
	Engine   Engine   `toml:"engine"`
	Archive  Archive  `toml:"archive"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelcut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Normalize expands paths and fills empty values with defaults. It is exported
// for callers that mutate a loaded config (CLI flag overrides) and must bring it
// back to canonical form before validating again.
func (c *Config) Normalize() error {
	return c.normalize()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories reelcut writes bookkeeping into.
// Output directories are created by the run itself once the mode is known.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	if c.Archive.Enabled && strings.TrimSpace(c.Archive.Dir) != "" {
		dirs = append(dirs, c.Archive.Dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
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
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
