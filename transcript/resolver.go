package transcript

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/ytranscript/errors"
	"github.com/kbukum/ytranscript/logger"
	"github.com/kbukum/ytranscript/observability"
	"github.com/kbukum/ytranscript/subtitle"
	"github.com/kbukum/ytranscript/transcription"
	"github.com/kbukum/ytranscript/ytdlp"
)

// MessageCaptionsInaccessible is returned when captions were advertised but
// none could be downloaded.
const MessageCaptionsInaccessible = "Captions exist but could not be accessed programmatically"

// errEmptyTranscript is returned by the speech fallback when the provider
// produced no segments.
var errEmptyTranscript = stderrors.New("speech fallback produced no segments")

// Downloader is the subset of the yt-dlp client the resolver needs.
type Downloader interface {
	ProbeSubtitles(ctx context.Context, url string) (ytdlp.Availability, error)
	WriteSubtitles(ctx context.Context, url, language string, kind ytdlp.Kind, dir string) (string, error)
	ExtractAudio(ctx context.Context, url, dir string) (string, error)
}

// Resolver walks the fallback chain for one URL at a time. It holds no
// per-request state and is safe for concurrent use.
type Resolver struct {
	cfg        Config
	downloader Downloader
	speech     transcription.Provider
	metrics    *observability.Metrics
	log        *logger.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) { r.log = l.WithComponent("resolver") }
}

// WithMetrics sets the metric recorder.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a resolver. speech may be nil when the fallback is
// disabled.
func NewResolver(cfg Config, downloader Downloader, speech transcription.Provider, opts ...Option) (*Resolver, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if downloader == nil {
		return nil, fmt.Errorf("resolver: downloader is required")
	}
	if cfg.FallbackEnabled && speech == nil {
		return nil, fmt.Errorf("resolver: speech fallback enabled without a speech provider")
	}
	r := &Resolver{
		cfg:        cfg,
		downloader: downloader,
		speech:     speech,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns the effective configuration.
func (r *Resolver) Config() Config { return r.cfg }

// Resolve returns the first transcript the chain can produce for url.
// language overrides the configured language when non-empty. When nothing
// yields a transcript the error is a CaptionUnavailable *errors.AppError.
func (r *Resolver) Resolve(ctx context.Context, url, language string) (_ *Result, err error) {
	if language == "" {
		language = r.cfg.Language
	}
	if err := ValidateLanguage(language); err != nil {
		return nil, errors.InvalidInput("language", err.Error())
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanResolve)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrVideoURL, url)
	observability.SetSpanAttribute(ctx, observability.AttrLanguage, language)

	log := r.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldURL, url, logger.FieldLanguage, language))
	start := time.Now()
	r.metrics.RecordResolveStart(ctx)

	var result *Result
	defer func() {
		status, source := "ok", ""
		if err != nil {
			status = "error"
			observability.SetSpanError(ctx, err)
			if appErr, ok := errors.AsAppError(err); ok {
				observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
				r.metrics.RecordError(ctx, string(appErr.Code), "resolver")
			}
		} else {
			source = string(result.Source)
			observability.SetSpanAttribute(ctx, observability.AttrSource, source)
			observability.SetSpanAttribute(ctx, observability.AttrSegments, len(result.Segments))
		}
		r.metrics.RecordResolveEnd(ctx, source, status, time.Since(start))
	}()

	workDir, err := os.MkdirTemp(r.cfg.TempDir, "ytranscript-*")
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("create work dir: %w", err))
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Warn("failed to remove work dir", logger.Fields("dir", workDir, logger.FieldError, rmErr.Error()))
		}
	}()

	result, err = r.resolve(ctx, log, url, language, workDir)
	if err != nil {
		return nil, err
	}
	log.Info("transcript resolved", logger.Fields(
		logger.FieldSource, string(result.Source),
		"segments", len(result.Segments),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, log *logger.Logger, url, language, workDir string) (*Result, error) {
	avail, err := r.probe(ctx, url)
	if err = r.toolError(ctx, log, "probe", err); err != nil {
		return nil, err
	}

	if avail.Manual {
		segments, ok, err := r.captions(ctx, log, url, language, ytdlp.KindManual, workDir)
		if err != nil {
			return nil, err
		}
		if ok {
			return newResult(SourceManualCaption, segments), nil
		}
	} else {
		r.metrics.RecordStage(ctx, SourceManualCaption.Stage(), "absent")
	}

	if avail.Automatic {
		segments, ok, err := r.captions(ctx, log, url, language, ytdlp.KindAutomatic, workDir)
		if err != nil {
			return nil, err
		}
		if ok {
			return newResult(SourceAutoCaption, segments), nil
		}
	} else {
		r.metrics.RecordStage(ctx, SourceAutoCaption.Stage(), "absent")
	}

	message := ""
	if avail.Any() {
		message = MessageCaptionsInaccessible
	}

	if !r.cfg.FallbackEnabled {
		log.Info("no captions obtained and speech fallback disabled", logger.Fields(
			"manual", avail.Manual, "automatic", avail.Automatic,
		))
		return nil, errors.CaptionUnavailable(message).
			WithDetails(map[string]any{"manual": avail.Manual, "automatic": avail.Automatic})
	}

	segments, err := r.speechFallback(ctx, log, url, language, workDir)
	if err != nil {
		if isContextErr(err) || (r.cfg.StrictToolErrors && errors.HasCode(err, errors.ErrCodeToolFailed)) {
			return nil, err
		}
		outcome := "failed"
		if stderrors.Is(err, errEmptyTranscript) {
			outcome = "empty"
		}
		log.Warn("speech fallback did not produce a transcript", logger.MergeWithError(logger.Fields("fallback", outcome), err))
		return nil, errors.CaptionUnavailable(message).
			WithDetails(map[string]any{"manual": avail.Manual, "automatic": avail.Automatic, "fallback": outcome}).
			WithCause(err)
	}
	return newResult(SourceSpeechFallback, segments), nil
}

func (r *Resolver) probe(ctx context.Context, url string) (ytdlp.Availability, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanProbe)
	defer span.End()

	avail, err := r.downloader.ProbeSubtitles(ctx, url)
	observability.SetSpanAttribute(ctx, observability.AttrManual, avail.Manual)
	observability.SetSpanAttribute(ctx, observability.AttrAutomatic, avail.Automatic)
	observability.SetSpanError(ctx, err)
	return avail, err
}

// captions downloads and parses one caption kind. ok is false when the kind
// yielded no usable file; err is set only when the request must stop.
func (r *Resolver) captions(ctx context.Context, log *logger.Logger, url, language string, kind ytdlp.Kind, workDir string) ([]Segment, bool, error) {
	stage := SourceManualCaption.Stage()
	if kind == ytdlp.KindAutomatic {
		stage = SourceAutoCaption.Stage()
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanCaptions)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCaptionKind, string(kind))

	dir := filepath.Join(workDir, string(kind))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, false, errors.Internal(fmt.Errorf("create caption dir: %w", err))
	}

	path, err := r.downloader.WriteSubtitles(ctx, url, language, kind, dir)
	if err = r.toolError(ctx, log, "write_subtitles", err); err != nil {
		return nil, false, err
	}
	if path == "" {
		log.Debug("caption track advertised but not written", logger.Fields("kind", string(kind)))
		r.metrics.RecordStage(ctx, stage, "missing")
		return nil, false, nil
	}

	cues, err := subtitle.ParseFile(path)
	if err != nil {
		observability.SetSpanError(ctx, err)
		log.Warn("caption file could not be parsed", logger.Fields("kind", string(kind), logger.FieldError, err.Error()))
		r.metrics.RecordStage(ctx, stage, "unparsable")
		return nil, false, nil
	}

	segments := make([]Segment, len(cues))
	for i, c := range cues {
		segments[i] = Segment{Text: c.Text, Start: c.Start, End: c.End}
	}
	r.metrics.RecordStage(ctx, stage, "found")
	return segments, true, nil
}

func (r *Resolver) speechFallback(ctx context.Context, log *logger.Logger, url, language, workDir string) ([]Segment, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSpeech)
	defer span.End()
	stage := SourceSpeechFallback.Stage()

	dir := filepath.Join(workDir, "audio")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Internal(fmt.Errorf("create audio dir: %w", err))
	}

	audio, err := r.downloader.ExtractAudio(ctx, url, dir)
	if err != nil {
		observability.SetSpanError(ctx, err)
		r.metrics.RecordStage(ctx, stage, "audio_failed")
		return nil, err
	}

	log.Info("running speech fallback", logger.Fields("provider", r.speech.Name(), "model", r.cfg.Model))
	resp, err := r.speech.Transcribe(ctx, transcription.Request{
		AudioPath: audio,
		Language:  language,
		Model:     r.cfg.Model,
	})
	if err != nil {
		observability.SetSpanError(ctx, err)
		r.metrics.RecordStage(ctx, stage, "failed")
		return nil, err
	}
	if len(resp.Segments) == 0 {
		r.metrics.RecordStage(ctx, stage, "empty")
		return nil, errEmptyTranscript
	}

	segments := make([]Segment, len(resp.Segments))
	for i, s := range resp.Segments {
		segments[i] = Segment{Text: s.Text, Start: s.Start, End: s.End}
	}
	r.metrics.RecordStage(ctx, stage, "found")
	return segments, nil
}

// toolError decides whether a downloader error stops the request. Context
// errors always do; tool failures only in strict mode. Everything else is
// logged and the source is treated as absent.
func (r *Resolver) toolError(ctx context.Context, log *logger.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if isContextErr(err) {
		return err
	}
	observability.SetSpanError(ctx, err)
	if r.cfg.StrictToolErrors {
		return errors.Wrap(err)
	}
	fields := logger.ErrorFields(op, err)
	if appErr, ok := errors.AsAppError(err); ok {
		for k, v := range appErr.Details {
			fields[k] = v
		}
	}
	log.Warn("downloader failed, treating source as absent", fields)
	return nil
}

func isContextErr(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
