package transcription

import "strings"

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language constrains recognition (e.g. "en"). Empty lets the model detect.
	Language string `json:"language,omitempty"`
	// Model overrides the provider's configured model size.
	Model string `json:"model,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
}

// NewResponse builds a Response from raw engine segments. Segment text is
// trimmed and the duration is the end of the last segment.
func NewResponse(text, language string, segments []Segment) *Response {
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		out[i] = Segment{Start: seg.Start, End: seg.End, Text: strings.TrimSpace(seg.Text)}
	}
	var duration float64
	if len(out) > 0 {
		duration = out[len(out)-1].End
	}
	return &Response{
		Text:     strings.TrimSpace(text),
		Segments: out,
		Duration: duration,
		Language: language,
	}
}
