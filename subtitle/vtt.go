// Package subtitle reads WebVTT caption files into timed cues.
package subtitle

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Cue is one timed caption block.
type Cue struct {
	Start float64 // seconds
	End   float64 // seconds
	Text  string
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// ParseFile reads and parses a WebVTT file.
func ParseFile(path string) ([]Cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vtt: %w", err)
	}
	defer f.Close()
	cues, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse vtt %s: %w", path, err)
	}
	return cues, nil
}

// Parse reads WebVTT cues in file order. Line breaks inside a cue collapse
// to single spaces, inline tags are dropped and entities decoded.
func Parse(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cues   []Cue
		block  []string
		first  = true
		header = false
	)

	flush := func() error {
		defer func() { block = block[:0] }()
		if len(block) == 0 {
			return nil
		}
		if header {
			header = false
			return nil
		}
		cue, ok, err := parseBlock(block)
		if err != nil {
			return err
		}
		if ok {
			cues = append(cues, cue)
		}
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			line = strings.TrimPrefix(line, "\ufeff")
			if !strings.HasPrefix(line, "WEBVTT") {
				return nil, fmt.Errorf("missing WEBVTT signature")
			}
			header = true
		}
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vtt: %w", err)
	}
	if first {
		return nil, fmt.Errorf("empty input")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cues, nil
}

// parseBlock turns one blank-line separated block into a cue. NOTE, STYLE
// and REGION blocks report ok=false.
func parseBlock(lines []string) (Cue, bool, error) {
	timing := -1
	for i, l := range lines {
		if strings.Contains(l, "-->") {
			timing = i
			break
		}
		// Only an optional identifier may precede the timing line.
		if i >= 1 {
			break
		}
	}
	if timing < 0 {
		return Cue{}, false, nil
	}

	start, end, err := parseTiming(lines[timing])
	if err != nil {
		return Cue{}, false, err
	}
	return Cue{
		Start: start,
		End:   end,
		Text:  cleanText(lines[timing+1:]),
	}, true, nil
}

func parseTiming(line string) (float64, float64, error) {
	left, right, _ := strings.Cut(line, "-->")
	// Cue settings (align:start position:0%) follow the end timestamp.
	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := parseTimestamp(left)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(fields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp accepts hh:mm:ss.ttt and mm:ss.ttt.
func parseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	clock, frac, ok := strings.Cut(value, ".")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var hours, minutes, seconds int
	var errH error
	if len(parts) == 3 {
		hours, errH = strconv.Atoi(parts[0])
		parts = parts[1:]
	}
	minutes, errM := strconv.Atoi(parts[0])
	seconds, errS := strconv.Atoi(parts[1])
	millis, errMS := strconv.Atoi(frac)
	if errH != nil || errM != nil || errS != nil || errMS != nil || len(frac) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

func cleanText(lines []string) string {
	text := strings.Join(lines, "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}
