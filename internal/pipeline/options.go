package pipeline

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"reelcut/internal/assembly"
	"reelcut/internal/config"
	"reelcut/internal/manifest"
	"reelcut/internal/media"
)

// LockFileName is created in the log directory while a run is active.
const LockFileName = "reelcut.lock"

// Options is the immutable run configuration threaded through every stage.
type Options struct {
	ManifestPath    string
	Manifest        manifest.Options
	SourceDir       string
	SourceExtension string
	CaseInsensitive bool

	Plan           assembly.Plan
	CompiledOutput string
	Naming         assembly.Naming
	Write          media.WriteOptions
	// TempAudioFile is the name of the audio staging file used for compiled
	// output, created beside the output.
	TempAudioFile string

	// LockPath, when set, is locked for the duration of the run.
	LockPath string
}

// OptionsFromConfig builds run options from a loaded config and a fixed plan.
func OptionsFromConfig(cfg *config.Config, plan assembly.Plan) (Options, error) {
	if cfg == nil {
		return Options{}, fmt.Errorf("config required")
	}
	comma, _ := utf8.DecodeRuneInString(cfg.Manifest.Delimiter)
	if comma == utf8.RuneError {
		comma = ','
	}
	opts := Options{
		ManifestPath: cfg.Paths.Manifest,
		Manifest: manifest.Options{
			StartColumn: cfg.Manifest.StartColumn,
			EndColumn:   cfg.Manifest.EndColumn,
			Comma:       comma,
		},
		SourceDir:       cfg.Paths.SourceDir,
		SourceExtension: cfg.Sources.Extension,
		CaseInsensitive: cfg.Sources.CaseInsensitive,
		Plan:            plan,
		CompiledOutput:  cfg.Paths.CompiledOutput,
		Naming: assembly.Naming{
			Dir:       cfg.Paths.IndividualDir,
			Prefix:    cfg.Output.IndividualPrefix,
			Extension: cfg.Output.IndividualExtension,
			Width:     cfg.Output.NumberWidth,
		},
		Write: media.WriteOptions{
			VideoCodec: cfg.Engine.VideoCodec,
			AudioCodec: cfg.Engine.AudioCodec,
		},
		TempAudioFile: cfg.Output.TempAudioFile,
	}
	if cfg.Paths.LogDir != "" {
		opts.LockPath = filepath.Join(cfg.Paths.LogDir, LockFileName)
	}
	return opts, nil
}

func (o Options) compiledWriteOptions() media.WriteOptions {
	opts := o.Write
	if o.TempAudioFile != "" {
		opts.TempAudioPath = filepath.Join(filepath.Dir(o.CompiledOutput), o.TempAudioFile)
	}
	return opts
}

// outputDirs lists the directories outputs are written to.
func (o Options) outputDirs() []string {
	dirs := make([]string, 0, 2)
	if o.CompiledOutput != "" {
		dirs = append(dirs, filepath.Dir(o.CompiledOutput))
	}
	if o.Naming.Dir != "" {
		dirs = append(dirs, o.Naming.Dir)
	}
	return dirs
}
