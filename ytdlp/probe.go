package ytdlp

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Markers printed by yt-dlp --list-subs. Matching on them is brittle: a
// change in yt-dlp's wording silently flips availability. The JSON probe
// avoids this.
const (
	markerManual         = "Available subtitles"
	markerAutomatic      = "Available automatic captions"
	markerAutomaticLoose = "automatic captions"
)

// Availability reports which caption kinds the platform advertises.
type Availability struct {
	Manual    bool
	Automatic bool
	// Languages per kind, only filled by the JSON probe.
	ManualLanguages    []string
	AutomaticLanguages []string
}

// Any reports whether any caption kind is advertised.
func (a Availability) Any() bool {
	return a.Manual || a.Automatic
}

// parseListing inspects --list-subs output for the marker strings.
func parseListing(output string) Availability {
	auto := strings.Contains(output, markerAutomatic) ||
		strings.Contains(strings.ToLower(output), markerAutomaticLoose)
	return Availability{
		Manual:    strings.Contains(output, markerManual),
		Automatic: auto,
	}
}

type videoInfo struct {
	ID                string                     `json:"id"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// parseInfo reads the subtitles and automatic_captions maps of -J output.
func parseInfo(data []byte) (Availability, error) {
	var info videoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return Availability{}, fmt.Errorf("decode yt-dlp metadata: %w", err)
	}
	manual := trackLanguages(info.Subtitles)
	auto := trackLanguages(info.AutomaticCaptions)
	return Availability{
		Manual:             len(manual) > 0,
		Automatic:          len(auto) > 0,
		ManualLanguages:    manual,
		AutomaticLanguages: auto,
	}, nil
}

// trackLanguages returns the sorted language keys that carry at least one
// format. Live chat replays are listed as subtitles but are not captions.
func trackLanguages(tracks map[string]json.RawMessage) []string {
	langs := make([]string, 0, len(tracks))
	for lang, formats := range tracks {
		if lang == "live_chat" {
			continue
		}
		var list []json.RawMessage
		if err := json.Unmarshal(formats, &list); err != nil || len(list) == 0 {
			continue
		}
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	if len(langs) == 0 {
		return nil
	}
	return langs
}
