package transcription

import "testing"

func TestNewResponseTrimsAndMeasures(t *testing.T) {
	resp := NewResponse(" hello there ", "en", []Segment{
		{Start: 0, End: 1.2, Text: " hello"},
		{Start: 1.2, End: 2.75, Text: "there \n"},
	})
	if resp.Text != "hello there" {
		t.Errorf("expected trimmed text, got %q", resp.Text)
	}
	if resp.Segments[0].Text != "hello" || resp.Segments[1].Text != "there" {
		t.Errorf("expected trimmed segments, got %+v", resp.Segments)
	}
	if resp.Duration != 2.75 {
		t.Errorf("expected duration 2.75, got %v", resp.Duration)
	}
	if resp.Language != "en" {
		t.Errorf("expected language en, got %q", resp.Language)
	}
}

func TestNewResponseEmpty(t *testing.T) {
	resp := NewResponse("", "", nil)
	if len(resp.Segments) != 0 || resp.Duration != 0 {
		t.Errorf("expected empty response, got %+v", resp)
	}
}
