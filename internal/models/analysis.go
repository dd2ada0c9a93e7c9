package models

import "fmt"

type Mode string

const (
	ModeSummary  Mode = "summary"
	ModeChapter  Mode = "chapter"
	ModeSolution Mode = "solution"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSummary, ModeChapter, ModeSolution:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (valid: summary, chapter, solution)", s)
}

type Length string

const (
	LengthShort    Length = "short"
	LengthNormal   Length = "normal"
	LengthDetailed Length = "detailed"
)

func ParseLength(s string) (Length, error) {
	switch Length(s) {
	case LengthShort, LengthNormal, LengthDetailed:
		return Length(s), nil
	}
	return "", fmt.Errorf("unknown length %q (valid: short, normal, detailed)", s)
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (valid: text, json)", s)
}

// AnalysisRequest carries everything the pipeline needs for one run.
// Length only applies to summary mode; Stream only to summary text output.
type AnalysisRequest struct {
	Mode        Mode
	Length      Length
	ExtraPrompt string
	Model       string
	Language    string
	Stream      bool
}

// ChapterEntry is one chapter anchored at a point in the video.
type ChapterEntry struct {
	Seconds     int
	Title       string
	Description string
}

// SolutionStep is one problem the video addresses and how it resolves it.
// ReferenceURL is synthesized from the video URL at assembly time, never
// taken from the generative backend.
type SolutionStep struct {
	Seconds      int
	Problem      string
	Resolution   string
	ReferenceURL string
}

// AnalysisResult is the terminal artifact of one pipeline run. Mode is the
// discriminant: Summary holds prose for summary mode, Chapters or Steps hold
// the validated entries otherwise. Dropped counts entries removed by
// validation and DurationChecked records whether a known duration backed the
// bounds check.
type AnalysisResult struct {
	Mode            Mode
	Video           *VideoReference
	Summary         string
	Chapters        []ChapterEntry
	Steps           []SolutionStep
	Dropped         int
	DurationChecked bool
	Model           string
	Language        string
}
