package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yutawtr1214/tubesum/internal/models"
	"github.com/yutawtr1214/tubesum/internal/timecode"
)

// The JSON field names below are a stable contract for external tooling;
// do not rename them.

type summaryJSON struct {
	Mode     string `json:"mode"`
	Text     string `json:"text"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

type chapterItemJSON struct {
	Timestamp   string `json:"timestamp"`
	Seconds     int    `json:"seconds"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type chapterJSON struct {
	Mode         string            `json:"mode"`
	Chapters     []chapterItemJSON `json:"chapters"`
	DroppedCount int               `json:"droppedCount"`
}

type solutionItemJSON struct {
	Timestamp  string `json:"timestamp"`
	Seconds    int    `json:"seconds"`
	Problem    string `json:"problem"`
	Resolution string `json:"resolution"`
	URL        string `json:"url"`
}

type solutionJSON struct {
	Mode         string             `json:"mode"`
	Steps        []solutionItemJSON `json:"steps"`
	DroppedCount int                `json:"droppedCount"`
}

// Assemble maps a finished result and a format onto the final output
// string. It performs no network or parsing work.
func Assemble(result *models.AnalysisResult, format models.Format) (string, error) {
	switch format {
	case models.FormatJSON:
		return renderJSON(result)
	case models.FormatText:
		return renderText(result), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func renderJSON(result *models.AnalysisResult) (string, error) {
	var payload any

	switch result.Mode {
	case models.ModeSummary:
		payload = summaryJSON{
			Mode:     string(result.Mode),
			Text:     result.Summary,
			Model:    result.Model,
			Language: result.Language,
		}

	case models.ModeChapter:
		chapters := make([]chapterItemJSON, 0, len(result.Chapters))
		for _, entry := range result.Chapters {
			chapters = append(chapters, chapterItemJSON{
				Timestamp:   timecode.Format(entry.Seconds),
				Seconds:     entry.Seconds,
				Title:       entry.Title,
				Description: entry.Description,
			})
		}
		payload = chapterJSON{
			Mode:         string(result.Mode),
			Chapters:     chapters,
			DroppedCount: result.Dropped,
		}

	case models.ModeSolution:
		steps := make([]solutionItemJSON, 0, len(result.Steps))
		for _, step := range result.Steps {
			steps = append(steps, solutionItemJSON{
				Timestamp:  timecode.Format(step.Seconds),
				Seconds:    step.Seconds,
				Problem:    step.Problem,
				Resolution: step.Resolution,
				URL:        step.ReferenceURL,
			})
		}
		payload = solutionJSON{
			Mode:         string(result.Mode),
			Steps:        steps,
			DroppedCount: result.Dropped,
		}

	default:
		return "", fmt.Errorf("unknown mode %q", result.Mode)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	return string(data), nil
}

func renderText(result *models.AnalysisResult) string {
	var b strings.Builder

	writeVideoHeader(&b, result.Video)

	switch result.Mode {
	case models.ModeSummary:
		b.WriteString(result.Summary)
		b.WriteString("\n")

	case models.ModeChapter:
		for _, entry := range result.Chapters {
			fmt.Fprintf(&b, "%s  %s\n", timecode.Format(entry.Seconds), entry.Title)
			if entry.Description != "" {
				fmt.Fprintf(&b, "         %s\n", entry.Description)
			}
		}
		writeValidationNotes(&b, result)

	case models.ModeSolution:
		for _, step := range result.Steps {
			line := fmt.Sprintf("%s  %s", timecode.Format(step.Seconds), step.Problem)
			if step.Resolution != "" {
				line += " → " + step.Resolution
			}
			if step.ReferenceURL != "" {
				line += "  " + step.ReferenceURL
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		writeValidationNotes(&b, result)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeVideoHeader(b *strings.Builder, video *models.VideoReference) {
	if video == nil {
		return
	}

	if video.Title != "" {
		fmt.Fprintf(b, "Title: %s\n", video.Title)
	}
	if video.Author != "" {
		fmt.Fprintf(b, "Author: %s\n", video.Author)
	}
	if video.HasDuration() {
		fmt.Fprintf(b, "Duration: %s\n", timecode.Format(video.DurationSeconds))
	}

	if b.Len() > 0 {
		b.WriteString("\n")
	}
}

func writeValidationNotes(b *strings.Builder, result *models.AnalysisResult) {
	var notes []string

	if result.Dropped > 0 {
		notes = append(notes, fmt.Sprintf("Entries dropped during validation: %d.", result.Dropped))
	}
	if !result.DurationChecked {
		notes = append(notes, "Video duration was unknown; timestamps were not bounds-checked.")
	}

	if len(notes) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(notes, "\n"))
		b.WriteString("\n")
	}
}

// stepURL anchors the video URL at a second offset.
func stepURL(baseURL string, seconds int) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%st=%ds", baseURL, sep, seconds)
}

// assignStepURLs synthesizes each step's reference link from the resolved
// video URL. Links never come from the generative backend.
func assignStepURLs(result *models.AnalysisResult) {
	if result.Video == nil {
		return
	}
	for i := range result.Steps {
		result.Steps[i].ReferenceURL = stepURL(result.Video.URL, result.Steps[i].Seconds)
	}
}
