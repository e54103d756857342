// Package transcript resolves a video URL into a timestamped transcript by
// walking a fallback chain: manual captions, automatic captions, then
// optional speech recognition on the extracted audio.
package transcript

// Source identifies which step of the chain produced a transcript. The
// values are the names used on the wire.
type Source string

const (
	SourceManualCaption  Source = "youtube_manual_caption"
	SourceAutoCaption    Source = "youtube_auto_caption"
	SourceSpeechFallback Source = "whisper_fallback"
)

// Stage returns the short stage name used in logs and metrics.
func (s Source) Stage() string {
	switch s {
	case SourceManualCaption:
		return "manual_caption"
	case SourceAutoCaption:
		return "auto_caption"
	case SourceSpeechFallback:
		return "speech_fallback"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	return s.Stage() != "unknown"
}

// Segment is one timed piece of transcript text. Times are in seconds.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Result is the outcome of a successful resolution.
type Result struct {
	Source   Source    `json:"source"`
	Segments []Segment `json:"transcript"`
}

func newResult(source Source, segments []Segment) *Result {
	if segments == nil {
		segments = []Segment{}
	}
	return &Result{Source: source, Segments: segments}
}
