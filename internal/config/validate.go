package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateManifest() error {
	if c.Manifest.StartColumn == c.Manifest.EndColumn {
		return errors.New("manifest.start_column and manifest.end_column must differ")
	}
	if utf8.RuneCountInString(c.Manifest.Delimiter) != 1 {
		return fmt.Errorf("manifest.delimiter must be a single character, got %q", c.Manifest.Delimiter)
	}
	switch c.Manifest.Delimiter {
	case "\r", "\n", "\"":
		return fmt.Errorf("manifest.delimiter %q is not allowed", c.Manifest.Delimiter)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Mode {
	case "", "compiled", "individual":
	default:
		return fmt.Errorf("output.mode must be compiled or individual, got %q", c.Output.Mode)
	}
	switch c.Output.Order {
	case "", "chronological", "random":
	default:
		return fmt.Errorf("output.order must be chronological or random, got %q", c.Output.Order)
	}
	if c.Output.NumberWidth > 9 {
		return errors.New("output.number_width must be between 1 and 9")
	}
	if strings.ContainsAny(c.Output.IndividualPrefix, `/\`) {
		return errors.New("output.individual_prefix must not contain path separators")
	}
	if strings.ContainsAny(c.Output.TempAudioFile, `/\`) {
		return errors.New("output.temp_audio_file must be a bare file name")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.CRF < 0 || c.Engine.CRF > 63 {
		return errors.New("engine.crf must be between 0 and 63 (0 leaves the encoder default)")
	}
	return nil
}

func (c *Config) validateArchive() error {
	if c.Archive.Enabled && strings.TrimSpace(c.Archive.Dir) == "" {
		return errors.New("archive.dir must be set when archive.enabled is true")
	}
	return nil
}
