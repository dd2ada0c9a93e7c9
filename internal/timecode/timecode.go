// Package timecode handles the textual timestamp tokens that anchor chapters
// and solution steps, plus the ISO 8601 durations the YouTube API reports.
package timecode

import (
	"fmt"
	"regexp"
	"strconv"
)

// tokenPattern matches h:mm:ss, mm:ss and m:ss tokens. Seconds are always
// two digits so ratios like 16:9 are not mistaken for time-codes.
var tokenPattern = regexp.MustCompile(`\b(?:(\d{1,2}):)?([0-5]?\d):([0-5]\d)\b`)

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// Match is one time-code token found in a text, with its byte offsets.
type Match struct {
	Seconds int
	Start   int
	End     int
}

// FindAll returns every time-code token in text, in encounter order.
// Tokens that fail range checks are skipped, not errors.
func FindAll(text string) []Match {
	var matches []Match

	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		seconds := 0

		// Optional hour group
		if loc[2] != -1 {
			hours, err := strconv.Atoi(text[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			seconds += hours * 3600
		}

		minutes, err := strconv.Atoi(text[loc[4]:loc[5]])
		if err != nil {
			continue
		}
		secs, err := strconv.Atoi(text[loc[6]:loc[7]])
		if err != nil {
			continue
		}
		seconds += minutes*60 + secs

		matches = append(matches, Match{
			Seconds: seconds,
			Start:   loc[0],
			End:     loc[1],
		})
	}

	return matches
}

// Format renders a second count as h:mm:ss, e.g. Format(135) = "0:02:15"
// and Format(3900) = "1:05:00".
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
}

// ParseISODuration converts an ISO 8601 duration like "PT2H15M30S" to a
// second count. Unparseable input yields 0.
func ParseISODuration(duration string) int {
	if duration == "" {
		return 0
	}

	matches := isoDurationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int

	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}

	return totalSeconds
}
