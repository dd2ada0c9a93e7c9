// Package gemini wraps the Gemini API for video analysis calls. It maps
// transport and API failures onto stable error kinds so callers can react
// without inspecting provider internals.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"google.golang.org/genai"

	"github.com/yutawtr1214/tubesum/internal/config"
	"github.com/yutawtr1214/tubesum/internal/models"
)

var (
	// ErrUnavailable covers transport failures and server-side errors.
	ErrUnavailable = errors.New("generative backend unavailable")
	// ErrRateLimited is the backend's quota/backoff signal.
	ErrRateLimited = errors.New("generative backend rate limit exceeded")
	// ErrUnauthorized means the credential was rejected.
	ErrUnauthorized = errors.New("generative backend rejected the credential")
	// ErrTimeout is raised when the caller's deadline expires mid-request.
	ErrTimeout = errors.New("generative request deadline exceeded")
	// ErrEmptyResponse means the call succeeded but produced no text.
	ErrEmptyResponse = errors.New("generative backend returned no content")
)

// Client is an explicitly constructed handle on the Gemini API.
type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, cfg *config.GeminiConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client}, nil
}

// Generate runs a single blocking generation over the video and prompt.
func (c *Client) Generate(ctx context.Context, model, prompt string, video *models.VideoReference) (string, error) {
	contents := buildContents(prompt, video)

	result, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generation failed for video %s: %w", video.VideoID, classify(err))
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w (video %s, model %s)", ErrEmptyResponse, video.VideoID, model)
	}

	return text, nil
}

// GenerateStream returns the response as a finite sequence of text
// fragments. Breaking out of the range abandons the stream; the sequence is
// not restartable.
func (c *Client) GenerateStream(ctx context.Context, model, prompt string, video *models.VideoReference) iter.Seq2[string, error] {
	contents := buildContents(prompt, video)

	return func(yield func(string, error) bool) {
		sawText := false

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, nil) {
			if err != nil {
				yield("", fmt.Errorf("stream failed for video %s: %w", video.VideoID, classify(err)))
				return
			}

			fragment := resp.Text()
			if fragment == "" {
				continue
			}
			sawText = true

			if !yield(fragment, nil) {
				return
			}
		}

		if !sawText {
			yield("", fmt.Errorf("%w (video %s, model %s)", ErrEmptyResponse, video.VideoID, model))
		}
	}
}

// KnownModels lists the model identifiers the tool is known to work with.
func KnownModels() []string {
	return []string{
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func buildContents(prompt string, video *models.VideoReference) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromURI(video.URL, "video/mp4"),
	}

	return []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
}

// classify maps provider errors onto the package's error kinds. Client-side
// errors (4xx other than auth/quota) pass through untouched.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.Message)
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
