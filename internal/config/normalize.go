package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeManifest()
	c.normalizeSources()
	c.normalizeOutput()
	c.normalizeEngine()
	if err := c.normalizeArchive(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Manifest) == "" {
		c.Paths.Manifest = defaultManifestPath
	}
	if c.Paths.Manifest, err = expandPath(strings.TrimSpace(c.Paths.Manifest)); err != nil {
		return fmt.Errorf("paths.manifest: %w", err)
	}
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		c.Paths.SourceDir = defaultSourceDir
	}
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CompiledOutput) == "" {
		c.Paths.CompiledOutput = defaultCompiledOutput
	}
	if c.Paths.CompiledOutput, err = expandPath(strings.TrimSpace(c.Paths.CompiledOutput)); err != nil {
		return fmt.Errorf("paths.compiled_output: %w", err)
	}
	if strings.TrimSpace(c.Paths.IndividualDir) == "" {
		c.Paths.IndividualDir = defaultIndividualDir
	}
	if c.Paths.IndividualDir, err = expandPath(strings.TrimSpace(c.Paths.IndividualDir)); err != nil {
		return fmt.Errorf("paths.individual_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeManifest() {
	c.Manifest.StartColumn = strings.TrimSpace(c.Manifest.StartColumn)
	if c.Manifest.StartColumn == "" {
		c.Manifest.StartColumn = defaultStartColumn
	}
	c.Manifest.EndColumn = strings.TrimSpace(c.Manifest.EndColumn)
	if c.Manifest.EndColumn == "" {
		c.Manifest.EndColumn = defaultEndColumn
	}
	if c.Manifest.Delimiter == "" {
		c.Manifest.Delimiter = defaultDelimiter
	}
	if strings.EqualFold(c.Manifest.Delimiter, "tab") || c.Manifest.Delimiter == `\t` {
		c.Manifest.Delimiter = "\t"
	}
}

func (c *Config) normalizeSources() {
	ext := strings.TrimSpace(c.Sources.Extension)
	if ext == "" {
		ext = defaultSourceExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Sources.Extension = ext
}

func (c *Config) normalizeOutput() {
	c.Output.Mode = strings.ToLower(strings.TrimSpace(c.Output.Mode))
	c.Output.Order = strings.ToLower(strings.TrimSpace(c.Output.Order))
	c.Output.IndividualPrefix = strings.TrimSpace(c.Output.IndividualPrefix)
	ext := strings.TrimSpace(c.Output.IndividualExtension)
	if ext == "" {
		ext = defaultIndividualExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Output.IndividualExtension = ext
	if c.Output.NumberWidth <= 0 {
		c.Output.NumberWidth = defaultNumberWidth
	}
	c.Output.TempAudioFile = strings.TrimSpace(c.Output.TempAudioFile)
}

func (c *Config) normalizeEngine() {
	c.Engine.FFmpegBinary = strings.TrimSpace(c.Engine.FFmpegBinary)
	if value, ok := os.LookupEnv("REELCUT_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Engine.FFmpegBinary = strings.TrimSpace(value)
	}
	if c.Engine.FFmpegBinary == "" {
		c.Engine.FFmpegBinary = defaultFFmpegBinary
	}
	c.Engine.FFprobeBinary = strings.TrimSpace(c.Engine.FFprobeBinary)
	if value, ok := os.LookupEnv("REELCUT_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Engine.FFprobeBinary = strings.TrimSpace(value)
	}
	if c.Engine.FFprobeBinary == "" {
		c.Engine.FFprobeBinary = defaultFFprobeBinary
	}
	c.Engine.VideoCodec = strings.TrimSpace(c.Engine.VideoCodec)
	if c.Engine.VideoCodec == "" {
		c.Engine.VideoCodec = defaultVideoCodec
	}
	c.Engine.AudioCodec = strings.TrimSpace(c.Engine.AudioCodec)
	if c.Engine.AudioCodec == "" {
		c.Engine.AudioCodec = defaultAudioCodec
	}
	c.Engine.Preset = strings.TrimSpace(c.Engine.Preset)
}

func (c *Config) normalizeArchive() error {
	var err error
	if strings.TrimSpace(c.Archive.Dir) == "" {
		c.Archive.Dir = defaultArchiveDir
	}
	if c.Archive.Dir, err = expandPath(strings.TrimSpace(c.Archive.Dir)); err != nil {
		return fmt.Errorf("archive.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
