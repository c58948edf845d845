package archive

import (
	"log/slog"

	draptolib "github.com/five82/drapto"

	"reelcut/internal/logging"
)

// logReporter forwards Drapto events to the run logger. Progress goes to
// debug; warnings and errors keep their level.
type logReporter struct {
	logger *slog.Logger
}

func newLogReporter(logger *slog.Logger) *logReporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &logReporter{logger: logger}
}

func (r *logReporter) Hardware(s draptolib.HardwareSummary) {
	r.logger.Debug("drapto hardware", logging.Any("host", s.Hostname))
}

func (r *logReporter) Initialization(s draptolib.InitializationSummary) {
	r.logger.Debug("drapto encode starting",
		logging.Any("input", s.InputFile),
		logging.Any("output", s.OutputFile),
		logging.Any("resolution", s.Resolution),
	)
}

func (r *logReporter) StageProgress(s draptolib.StageProgress) {
	r.logger.Debug("drapto stage", logging.Any("stage", s.Stage), logging.Any("message", s.Message))
}

func (r *logReporter) CropResult(s draptolib.CropSummary) {
	r.logger.Debug("drapto crop", logging.Any("crop", s.Crop), logging.Any("required", s.Required))
}

func (r *logReporter) EncodingConfig(s draptolib.EncodingConfigSummary) {
	r.logger.Debug("drapto encoder", logging.Any("encoder", s.Encoder), logging.Any("preset", s.Preset))
}

func (r *logReporter) EncodingStarted(totalFrames uint64) {
	r.logger.Debug("drapto encoding", logging.Int64("frames", int64(totalFrames)))
}

func (r *logReporter) EncodingProgress(draptolib.ProgressSnapshot) {}

func (r *logReporter) ValidationComplete(s draptolib.ValidationSummary) {
	if !s.Passed {
		logging.WarnWithContext(r.logger, "drapto validation failed", "archive_validation",
			logging.Int("steps", len(s.Steps)),
			logging.String(logging.FieldImpact, "archival copy may be unusable"),
		)
	}
}

func (r *logReporter) EncodingComplete(s draptolib.EncodingOutcome) {
	r.logger.Debug("drapto encode complete", logging.Any("output", s.OutputPath))
}

func (r *logReporter) Warning(message string) {
	logging.WarnWithContext(r.logger, "drapto warning", "archive_warning",
		logging.String("detail", message),
		logging.String(logging.FieldImpact, "archival copy continues"),
	)
}

func (r *logReporter) Error(e draptolib.ReporterError) {
	logging.ErrorWithContext(r.logger, "drapto error", "archive_error",
		logging.Any("title", e.Title),
		logging.Any("detail", e.Message),
		logging.Any(logging.FieldErrorHint, e.Suggestion),
	)
}

func (r *logReporter) OperationComplete(string) {}

func (r *logReporter) BatchStarted(draptolib.BatchStartInfo) {}

func (r *logReporter) FileProgress(draptolib.FileProgressContext) {}

func (r *logReporter) BatchComplete(draptolib.BatchSummary) {}

var _ draptolib.Reporter = (*logReporter)(nil)
