package config

const (
	defaultManifestPath        = "cuts.csv"
	defaultSourceDir           = "sources"
	defaultCompiledOutput      = "compiled.mp4"
	defaultIndividualDir       = "cuts"
	defaultLogDir              = "~/.local/share/reelcut/logs"
	defaultHistoryPath         = "~/.local/share/reelcut/history.db"
	defaultArchiveDir          = "~/.local/share/reelcut/archive"
	defaultStartColumn         = "COMEÇO DO CORTE"
	defaultEndColumn           = "FINAL DO CORTE"
	defaultDelimiter           = ","
	defaultSourceExtension     = ".mpg"
	defaultIndividualPrefix    = "cut"
	defaultIndividualExtension = ".mp4"
	defaultNumberWidth         = 4
	defaultTempAudioFile       = "temp-audio.m4a"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultVideoCodec          = "libx264"
	defaultAudioCodec          = "aac"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Manifest:       defaultManifestPath,
			SourceDir:      defaultSourceDir,
			CompiledOutput: defaultCompiledOutput,
			IndividualDir:  defaultIndividualDir,
			LogDir:         defaultLogDir,
		},
		Manifest: Manifest{
			StartColumn: defaultStartColumn,
			EndColumn:   defaultEndColumn,
			Delimiter:   defaultDelimiter,
		},
		Sources: Sources{
			Extension: defaultSourceExtension,
		},
		Output: Output{
			IndividualPrefix:    defaultIndividualPrefix,
			IndividualExtension: defaultIndividualExtension,
			NumberWidth:         defaultNumberWidth,
			TempAudioFile:       defaultTempAudioFile,
		},
		Engine: Engine{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VideoCodec:    defaultVideoCodec,
			AudioCodec:    defaultAudioCodec,
		},
		Archive: Archive{
			Dir: defaultArchiveDir,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
