// Package analyzer runs the analysis pipeline: resolve the video
// reference, build the mode-specific prompt, invoke the generative
// backend, parse and validate the response, and assemble the final
// artifact.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"strings"

	"github.com/yutawtr1214/tubesum/internal/gemini"
	"github.com/yutawtr1214/tubesum/internal/models"
	"github.com/yutawtr1214/tubesum/internal/youtube"
)

// Generator produces model output for a prompt grounded on a video.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, video *models.VideoReference) (string, error)
	GenerateStream(ctx context.Context, model, prompt string, video *models.VideoReference) iter.Seq2[string, error]
}

// Resolver turns a raw URL into a resolved video reference.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*models.VideoReference, error)
}

// Analyzer drives one analysis request end to end.
type Analyzer struct {
	resolver  Resolver
	generator Generator
	stream    io.Writer
}

func New(resolver Resolver, generator Generator) *Analyzer {
	return &Analyzer{
		resolver:  resolver,
		generator: generator,
	}
}

// StreamTo directs summary fragments to w as they arrive. Only summary
// requests stream; other modes buffer the full response regardless.
func (a *Analyzer) StreamTo(w io.Writer) {
	a.stream = w
}

// Run executes the pipeline for a single request. The returned result is
// ready for Assemble; errors carry their package sentinels for Explain.
func (a *Analyzer) Run(ctx context.Context, rawURL string, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	strat, err := strategyFor(req.Mode)
	if err != nil {
		return nil, err
	}

	log.Printf("Resolving video reference...")
	video, err := a.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Resolved video %s (duration known: %v)", video.VideoID, video.HasDuration())

	prompt := strat.buildPrompt(req, video)

	log.Printf("Requesting %s analysis from %s...", req.Mode, req.Model)
	var raw string
	if req.Stream && req.Mode == models.ModeSummary {
		raw, err = a.consumeStream(ctx, req.Model, prompt, video)
	} else {
		raw, err = a.generator.Generate(ctx, req.Model, prompt, video)
	}
	if err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		Mode:     req.Mode,
		Video:    video,
		Model:    req.Model,
		Language: req.Language,
	}

	if err := strat.parseResponse(raw, video, result); err != nil {
		return nil, err
	}

	assignStepURLs(result)

	return result, nil
}

// consumeStream accumulates the full response while forwarding each
// fragment to the configured sink.
func (a *Analyzer) consumeStream(ctx context.Context, model, prompt string, video *models.VideoReference) (string, error) {
	var full strings.Builder

	for fragment, err := range a.generator.GenerateStream(ctx, model, prompt, video) {
		if err != nil {
			return "", err
		}
		full.WriteString(fragment)
		if a.stream != nil {
			fmt.Fprint(a.stream, fragment)
		}
	}

	if a.stream != nil {
		fmt.Fprintln(a.stream)
	}

	return full.String(), nil
}

// Explain maps pipeline errors to messages suitable for end users.
// Unrecognized errors fall back to their own text.
func Explain(err error) string {
	switch {
	case errors.Is(err, youtube.ErrInvalidURL):
		return "the URL does not look like a YouTube video (supported forms include https://www.youtube.com/watch?v=... and https://youtu.be/...)"
	case errors.Is(err, gemini.ErrRateLimited):
		return "the Gemini API is rate limiting requests; wait a moment and try again"
	case errors.Is(err, gemini.ErrUnauthorized):
		return "the Gemini API rejected the credentials; check GEMINI_API_KEY"
	case errors.Is(err, gemini.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "the analysis did not finish in time; retry with a longer --timeout"
	case errors.Is(err, gemini.ErrUnavailable):
		return "the Gemini API is unavailable right now; try again shortly"
	case errors.Is(err, gemini.ErrEmptyResponse):
		return "the model returned no usable text; try again or switch models with --model"
	case errors.Is(err, ErrNoStructure):
		return "the model response contained no time-coded entries; try again or add guidance with --prompt"
	case errors.Is(err, ErrAllDropped):
		return "every entry in the model response failed validation; try again or switch models with --model"
	}
	return err.Error()
}
