package analyzer

import (
	"fmt"

	"github.com/yutawtr1214/tubesum/internal/gemini"
	"github.com/yutawtr1214/tubesum/internal/models"
)

// modeStrategy specializes prompt construction and response handling per
// mode. The Controller resolves it once per request; no other component
// branches on the mode.
type modeStrategy interface {
	buildPrompt(req *models.AnalysisRequest, video *models.VideoReference) string
	parseResponse(raw string, video *models.VideoReference, result *models.AnalysisResult) error
}

func strategyFor(mode models.Mode) (modeStrategy, error) {
	switch mode {
	case models.ModeSummary:
		return summaryStrategy{}, nil
	case models.ModeChapter:
		return chapterStrategy{}, nil
	case models.ModeSolution:
		return solutionStrategy{}, nil
	}
	return nil, fmt.Errorf("unknown mode %q", mode)
}

type summaryStrategy struct{}

func (summaryStrategy) buildPrompt(req *models.AnalysisRequest, video *models.VideoReference) string {
	return buildSummaryPrompt(req, video)
}

func (summaryStrategy) parseResponse(raw string, video *models.VideoReference, result *models.AnalysisResult) error {
	text := cleanResponse(raw)
	if text == "" {
		return fmt.Errorf("%w after trimming", gemini.ErrEmptyResponse)
	}

	result.Summary = text
	return nil
}

type chapterStrategy struct{}

func (chapterStrategy) buildPrompt(req *models.AnalysisRequest, video *models.VideoReference) string {
	return buildChapterPrompt(req, video)
}

func (chapterStrategy) parseResponse(raw string, video *models.VideoReference, result *models.AnalysisResult) error {
	entries, err := parseChapters(raw)
	if err != nil {
		return err
	}

	kept, dropped, err := validateChapters(entries, video.DurationSeconds)
	if err != nil {
		return err
	}

	result.Chapters = kept
	result.Dropped = dropped
	result.DurationChecked = video.HasDuration()
	return nil
}

type solutionStrategy struct{}

func (solutionStrategy) buildPrompt(req *models.AnalysisRequest, video *models.VideoReference) string {
	return buildSolutionPrompt(req, video)
}

func (solutionStrategy) parseResponse(raw string, video *models.VideoReference, result *models.AnalysisResult) error {
	steps, err := parseSolutions(raw)
	if err != nil {
		return err
	}

	kept, dropped, err := validateSteps(steps, video.DurationSeconds)
	if err != nil {
		return err
	}

	result.Steps = kept
	result.Dropped = dropped
	result.DurationChecked = video.HasDuration()
	return nil
}
