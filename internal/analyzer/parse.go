package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yutawtr1214/tubesum/internal/models"
	"github.com/yutawtr1214/tubesum/internal/timecode"
)

// ErrNoStructure means the response text carried no recognizable time-code
// tokens, so no entries could be extracted.
var ErrNoStructure = errors.New("response contained no recognizable time-codes")

// separatorCutset is the punctuation models put between a time-code and the
// text that belongs to it. trailingCutset covers the next entry's opening
// ornament (bullets, brackets) left at the end of a span.
const (
	separatorCutset = " \t\r\n-–—:|].)>*•"
	trailingCutset  = " \t\r\n-–—([<|*•"
)

// cleanResponse trims the raw text and unwraps it when the whole payload
// arrived inside a markdown code fence.
func cleanResponse(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			body := strings.TrimSpace(text[idx+1:])
			body = strings.TrimSuffix(body, "```")
			text = strings.TrimSpace(body)
		}
	}

	return text
}

// parseChapters extracts timestamp-anchored chapters from semi-structured
// text. Each time-code owns the span up to the next one; the span's first
// line is the title and the rest joins into the description. Duplicate
// timestamps are kept in encountered order.
func parseChapters(raw string) ([]models.ChapterEntry, error) {
	text := cleanResponse(raw)

	matches := timecode.FindAll(text)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w; content begins with %q", ErrNoStructure, snippet(text))
	}

	entries := make([]models.ChapterEntry, 0, len(matches))
	for i, m := range matches {
		span := spanAfter(text, matches, i)
		title, description := splitChapterSpan(span)
		entries = append(entries, models.ChapterEntry{
			Seconds:     m.Seconds,
			Title:       title,
			Description: description,
		})
	}

	return entries, nil
}

// parseSolutions extracts problem/resolution steps. The span after each
// time-code splits on the first recognized separator; without one the whole
// span becomes the problem and the resolution stays empty.
func parseSolutions(raw string) ([]models.SolutionStep, error) {
	text := cleanResponse(raw)

	matches := timecode.FindAll(text)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w; content begins with %q", ErrNoStructure, snippet(text))
	}

	steps := make([]models.SolutionStep, 0, len(matches))
	for i, m := range matches {
		span := spanAfter(text, matches, i)
		problem, resolution := splitSolutionSpan(span)
		steps = append(steps, models.SolutionStep{
			Seconds:    m.Seconds,
			Problem:    problem,
			Resolution: resolution,
		})
	}

	return steps, nil
}

// spanAfter returns the text between match i and the next match (or the end
// of the text), with leading separator punctuation removed.
func spanAfter(text string, matches []timecode.Match, i int) string {
	end := len(text)
	if i+1 < len(matches) {
		end = matches[i+1].Start
	}

	span := text[matches[i].End:end]
	span = strings.TrimLeft(span, separatorCutset)
	span = strings.TrimRight(span, trailingCutset)
	return strings.TrimSpace(span)
}

func splitChapterSpan(span string) (title, description string) {
	lines := strings.SplitN(span, "\n", 2)
	title = strings.TrimSpace(lines[0])

	if len(lines) == 2 {
		var rest []string
		for _, line := range strings.Split(lines[1], "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				rest = append(rest, line)
			}
		}
		description = strings.Join(rest, " ")
	}

	return title, description
}

// solutionSeparators in priority order; arrows are tried before dashes.
var solutionSeparators = []string{"→", "->", " - ", " – ", " — "}

func splitSolutionSpan(span string) (problem, resolution string) {
	flat := strings.Join(strings.Fields(span), " ")

	for _, sep := range solutionSeparators {
		if idx := strings.Index(flat, sep); idx != -1 {
			problem = strings.TrimSpace(flat[:idx])
			resolution = strings.TrimSpace(flat[idx+len(sep):])
			return problem, resolution
		}
	}

	return flat, ""
}

func snippet(text string) string {
	const max = 80

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
