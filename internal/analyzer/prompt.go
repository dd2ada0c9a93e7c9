package analyzer

import (
	"fmt"
	"strings"

	"github.com/yutawtr1214/tubesum/internal/models"
	"github.com/yutawtr1214/tubesum/internal/timecode"
)

// Prompt construction is deterministic: identical requests and references
// always produce identical strings.

func buildSummaryPrompt(req *models.AnalysisRequest, video *models.VideoReference) string {
	prompt := fmt.Sprintf(`You are a video analysis assistant. Watch the video and write a summary of its content.

%s
REQUIREMENTS:
- Target length: %s words.
- Respond entirely in %s.
- Write plain prose paragraphs without markdown headings or code fences.
- Cover the main points in the order the video presents them.`,
		videoContext(video),
		summaryBand(req.Length),
		languageName(req.Language),
	)

	return withExtraPrompt(prompt, req.ExtraPrompt)
}

func buildChapterPrompt(req *models.AnalysisRequest, video *models.VideoReference) string {
	prompt := fmt.Sprintf(`You are a video analysis assistant. Segment the video into chronological chapters.

%s
REQUIREMENTS:
- One chapter per line with nothing else on it.
- Each line starts with the chapter's start time-code as mm:ss or h:mm:ss, followed by a short title.
- Chapters must appear in playback order, starting at 0:00.
- Write titles in %s.%s`,
		videoContext(video),
		languageName(req.Language),
		durationConstraint(video),
	)

	return withExtraPrompt(prompt, req.ExtraPrompt)
}

func buildSolutionPrompt(req *models.AnalysisRequest, video *models.VideoReference) string {
	prompt := fmt.Sprintf(`You are a video analysis assistant. Identify each distinct problem the video addresses and the concrete step that resolves it.

%s
REQUIREMENTS:
- One step per line in the form: time-code - problem → resolution.
- The time-code (mm:ss or h:mm:ss) marks where the problem is introduced.
- Keep the problem and the resolution each to one short sentence.
- Write in %s.%s`,
		videoContext(video),
		languageName(req.Language),
		durationConstraint(video),
	)

	return withExtraPrompt(prompt, req.ExtraPrompt)
}

func videoContext(video *models.VideoReference) string {
	var b strings.Builder

	fmt.Fprintf(&b, "VIDEO:\nURL: %s\n", video.URL)
	if video.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", video.Title)
	}
	if video.Author != "" {
		fmt.Fprintf(&b, "Channel: %s\n", video.Author)
	}
	if video.HasDuration() {
		fmt.Fprintf(&b, "Total duration: %s\n", timecode.Format(video.DurationSeconds))
	}

	return b.String()
}

func durationConstraint(video *models.VideoReference) string {
	if !video.HasDuration() {
		return ""
	}
	return fmt.Sprintf("\n- The video is %s long; no time-code may exceed that.", timecode.Format(video.DurationSeconds))
}

func summaryBand(length models.Length) string {
	switch length {
	case models.LengthShort:
		return "80 to 150"
	case models.LengthDetailed:
		return "500 to 800"
	default:
		return "200 to 400"
	}
}

var languageNames = map[string]string{
	"ja": "Japanese",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"zh": "Chinese",
	"ko": "Korean",
}

// languageName turns a BCP 47 style code into a prompt-friendly name,
// passing unknown values through untouched.
func languageName(lang string) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return lang
}

func withExtraPrompt(prompt, extra string) string {
	if extra == "" {
		return prompt
	}
	return prompt + fmt.Sprintf("\n\nAdditional requirements:\n%s", extra)
}
