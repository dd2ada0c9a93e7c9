package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/yutawtr1214/tubesum/internal/models"
)

func TestAssembleSummaryJSON(t *testing.T) {
	result := &models.AnalysisResult{
		Mode:     models.ModeSummary,
		Summary:  "A video about testing.",
		Model:    "gemini-2.0-flash",
		Language: "ja",
	}

	out, err := Assemble(result, models.FormatJSON)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(payload) != 4 {
		t.Errorf("summary payload has %d fields, want 4: %v", len(payload), payload)
	}
	wantFields := map[string]string{
		"mode":     "summary",
		"text":     "A video about testing.",
		"model":    "gemini-2.0-flash",
		"language": "ja",
	}
	for key, want := range wantFields {
		if got, ok := payload[key].(string); !ok || got != want {
			t.Errorf("payload[%q] = %v, want %q", key, payload[key], want)
		}
	}
}

func TestAssembleChapterJSON(t *testing.T) {
	result := &models.AnalysisResult{
		Mode: models.ModeChapter,
		Chapters: []models.ChapterEntry{
			{Seconds: 0, Title: "Intro"},
			{Seconds: 135, Title: "Setup", Description: "Installing the tools"},
		},
		Dropped: 1,
	}

	out, err := Assemble(result, models.FormatJSON)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var payload struct {
		Mode     string `json:"mode"`
		Chapters []struct {
			Timestamp   string `json:"timestamp"`
			Seconds     int    `json:"seconds"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"chapters"`
		DroppedCount int `json:"droppedCount"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if payload.Mode != "chapter" {
		t.Errorf("mode = %q, want %q", payload.Mode, "chapter")
	}
	if payload.DroppedCount != 1 {
		t.Errorf("droppedCount = %d, want 1", payload.DroppedCount)
	}
	if len(payload.Chapters) != 2 {
		t.Fatalf("chapters count = %d, want 2", len(payload.Chapters))
	}
	if payload.Chapters[1].Timestamp != "0:02:15" || payload.Chapters[1].Seconds != 135 {
		t.Errorf("chapters[1] = %+v, want timestamp 0:02:15 at 135s", payload.Chapters[1])
	}
	if payload.Chapters[1].Description != "Installing the tools" {
		t.Errorf("chapters[1].Description = %q", payload.Chapters[1].Description)
	}
}

func TestAssembleChapterJSONEmptyList(t *testing.T) {
	result := &models.AnalysisResult{Mode: models.ModeChapter}

	out, err := Assemble(result, models.FormatJSON)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	chapters, ok := payload["chapters"].([]any)
	if !ok {
		t.Fatalf("chapters should encode as an array, got %T", payload["chapters"])
	}
	if len(chapters) != 0 {
		t.Errorf("chapters = %v, want empty array", chapters)
	}
}

func TestAssembleSolutionJSON(t *testing.T) {
	result := &models.AnalysisResult{
		Mode: models.ModeSolution,
		Steps: []models.SolutionStep{
			{
				Seconds:      30,
				Problem:      "Users can't log in",
				Resolution:   "Reset password flow added",
				ReferenceURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s",
			},
		},
	}

	out, err := Assemble(result, models.FormatJSON)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var payload struct {
		Mode  string `json:"mode"`
		Steps []struct {
			Timestamp  string `json:"timestamp"`
			Seconds    int    `json:"seconds"`
			Problem    string `json:"problem"`
			Resolution string `json:"resolution"`
			URL        string `json:"url"`
		} `json:"steps"`
		DroppedCount int `json:"droppedCount"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if payload.Mode != "solution" {
		t.Errorf("mode = %q, want %q", payload.Mode, "solution")
	}
	if len(payload.Steps) != 1 {
		t.Fatalf("steps count = %d, want 1", len(payload.Steps))
	}
	step := payload.Steps[0]
	if step.Timestamp != "0:00:30" {
		t.Errorf("timestamp = %q, want %q", step.Timestamp, "0:00:30")
	}
	if step.URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s" {
		t.Errorf("url = %q", step.URL)
	}
}

func TestAssembleSummaryText(t *testing.T) {
	result := &models.AnalysisResult{
		Mode:    models.ModeSummary,
		Summary: "A video about testing.",
		Video: &models.VideoReference{
			URL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			VideoID: "dQw4w9WgXcQ",
			Title:   "Test Video",
			Author:  "Test Channel",
		},
	}

	out, err := Assemble(result, models.FormatText)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	for _, want := range []string{"Title: Test Video", "Author: Test Channel", "A video about testing."} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.HasSuffix(out, "\n") {
		t.Errorf("text output should not end with a newline:\n%q", out)
	}
}

func TestAssembleChapterText(t *testing.T) {
	result := &models.AnalysisResult{
		Mode: models.ModeChapter,
		Chapters: []models.ChapterEntry{
			{Seconds: 0, Title: "Intro"},
			{Seconds: 135, Title: "Setup", Description: "Installing the tools"},
		},
		Dropped:         1,
		DurationChecked: false,
	}

	out, err := Assemble(result, models.FormatText)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	wantLines := []string{
		"0:00:00  Intro",
		"0:02:15  Setup",
		"Installing the tools",
		"Entries dropped during validation: 1.",
		"Video duration was unknown; timestamps were not bounds-checked.",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestAssembleChapterTextCleanRun(t *testing.T) {
	result := &models.AnalysisResult{
		Mode:            models.ModeChapter,
		Chapters:        []models.ChapterEntry{{Seconds: 0, Title: "Intro"}},
		DurationChecked: true,
	}

	out, err := Assemble(result, models.FormatText)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if strings.Contains(out, "dropped during validation") {
		t.Errorf("clean run should not mention drops:\n%s", out)
	}
	if strings.Contains(out, "duration was unknown") {
		t.Errorf("bounds-checked run should not mention unknown duration:\n%s", out)
	}
}

func TestAssembleSolutionText(t *testing.T) {
	result := &models.AnalysisResult{
		Mode: models.ModeSolution,
		Steps: []models.SolutionStep{
			{
				Seconds:      30,
				Problem:      "Users can't log in",
				Resolution:   "Reset password flow added",
				ReferenceURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s",
			},
			{Seconds: 90, Problem: "No resolution shown"},
		},
		DurationChecked: true,
	}

	out, err := Assemble(result, models.FormatText)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if !strings.Contains(out, "0:00:30  Users can't log in → Reset password flow added  https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s") {
		t.Errorf("solution line malformed:\n%s", out)
	}
	if !strings.Contains(out, "0:01:30  No resolution shown") {
		t.Errorf("resolution-less step malformed:\n%s", out)
	}
	if strings.Contains(out, "No resolution shown →") {
		t.Errorf("empty resolution should not render an arrow:\n%s", out)
	}
}

func TestAssembleUnknownFormat(t *testing.T) {
	result := &models.AnalysisResult{Mode: models.ModeSummary, Summary: "x"}

	if _, err := Assemble(result, models.Format("xml")); err == nil {
		t.Error("Assemble() should reject unknown formats")
	}
}

func TestStepURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		seconds int
		want    string
	}{
		{
			name:    "Watch URL appends with ampersand",
			baseURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			seconds: 30,
			want:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s",
		},
		{
			name:    "Bare URL appends with question mark",
			baseURL: "https://youtu.be/dQw4w9WgXcQ",
			seconds: 90,
			want:    "https://youtu.be/dQw4w9WgXcQ?t=90s",
		},
		{
			name:    "Zero offset",
			baseURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			seconds: 0,
			want:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stepURL(tt.baseURL, tt.seconds); got != tt.want {
				t.Errorf("stepURL(%q, %d) = %q, want %q", tt.baseURL, tt.seconds, got, tt.want)
			}
		})
	}
}

func TestAssignStepURLs(t *testing.T) {
	result := &models.AnalysisResult{
		Mode:  models.ModeSolution,
		Video: &models.VideoReference{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		Steps: []models.SolutionStep{
			{Seconds: 30, Problem: "a"},
			{Seconds: 90, Problem: "b"},
		},
	}

	assignStepURLs(result)

	if result.Steps[0].ReferenceURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s" {
		t.Errorf("Steps[0].ReferenceURL = %q", result.Steps[0].ReferenceURL)
	}
	if result.Steps[1].ReferenceURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=90s" {
		t.Errorf("Steps[1].ReferenceURL = %q", result.Steps[1].ReferenceURL)
	}
}

func TestAssignStepURLsNoVideo(t *testing.T) {
	result := &models.AnalysisResult{
		Mode:  models.ModeSolution,
		Steps: []models.SolutionStep{{Seconds: 30, Problem: "a"}},
	}

	assignStepURLs(result)

	if result.Steps[0].ReferenceURL != "" {
		t.Errorf("ReferenceURL = %q, want empty without a video", result.Steps[0].ReferenceURL)
	}
}
