package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yutawtr1214/tubesum/internal/config"
	"github.com/yutawtr1214/tubesum/internal/models"
	"github.com/yutawtr1214/tubesum/internal/storage"
	"github.com/yutawtr1214/tubesum/internal/timecode"
)

// ErrInvalidURL marks input that is not a recognizable YouTube video URL.
var ErrInvalidURL = errors.New("not a recognized YouTube video URL")

const (
	watchURLFormat    = "https://www.youtube.com/watch?v=%s"
	defaultOEmbedBase = "https://www.youtube.com/oembed"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Resolver turns raw URLs into VideoReferences. Metadata and duration
// lookups are best effort; only URL validation itself can fail.
type Resolver struct {
	httpClient *http.Client
	oembedBase string
	service    *youtube.Service
	cache      *storage.MetadataStore
}

func NewResolver(ctx context.Context, cfg *config.YouTubeConfig) *Resolver {
	r := &Resolver{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		oembedBase: defaultOEmbedBase,
	}

	switch {
	case cfg.AccessToken != "":
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
		service, err := youtube.NewService(ctx, option.WithTokenSource(tokenSource))
		if err != nil {
			log.Printf("Warning: failed to create YouTube service: %v", err)
		} else {
			r.service = service
		}
	case cfg.APIKey != "":
		service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
		if err != nil {
			log.Printf("Warning: failed to create YouTube service: %v", err)
		} else {
			r.service = service
		}
	default:
		log.Println("No YouTube credential configured; video durations will be unavailable")
	}

	if cfg.CacheFile != "" {
		cache, err := storage.NewMetadataStore(cfg.CacheFile)
		if err != nil {
			log.Printf("Warning: metadata cache disabled: %v", err)
		} else {
			r.cache = cache
		}
	}

	return r
}

// ExtractVideoID pulls the canonical 11-character video ID out of a URL.
func ExtractVideoID(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	host = strings.TrimPrefix(host, "m.")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = firstPathSegment(u.Path)
	case "youtube.com":
		switch {
		case u.Path == "/watch":
			candidate = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/v/"),
			strings.HasPrefix(u.Path, "/embed/"),
			strings.HasPrefix(u.Path, "/shorts/"),
			strings.HasPrefix(u.Path, "/live/"):
			candidate = secondPathSegment(u.Path)
		default:
			candidate = u.Query().Get("v")
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if !videoIDPattern.MatchString(candidate) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	return candidate, nil
}

func firstPathSegment(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func secondPathSegment(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Resolve validates the URL and builds the reference. A bad URL is fatal;
// metadata and duration lookups degrade with a logged warning instead.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*models.VideoReference, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	ref := &models.VideoReference{
		URL:     fmt.Sprintf(watchURLFormat, videoID),
		VideoID: videoID,
	}

	if r.cache != nil {
		if entry, ok := r.cache.Get(videoID); ok {
			ref.Title = entry.Title
			ref.Author = entry.Author
			ref.DurationSeconds = entry.DurationSeconds
			// A cached entry without duration is refreshed once a
			// credential is available.
			if ref.DurationSeconds > 0 || r.service == nil {
				return ref, nil
			}
		}
	}

	if meta, err := r.fetchOEmbed(ctx, ref.URL); err != nil {
		log.Printf("Warning: metadata lookup failed for %s: %v", videoID, err)
	} else {
		ref.Title = meta.Title
		ref.Author = meta.AuthorName
	}

	if r.service != nil {
		if seconds, err := r.fetchDuration(ctx, videoID); err != nil {
			log.Printf("Warning: duration lookup failed for %s, timestamp validation will be less strict: %v", videoID, err)
		} else {
			ref.DurationSeconds = seconds
		}
	}

	if r.cache != nil {
		entry := storage.CachedMetadata{
			VideoID:         ref.VideoID,
			Title:           ref.Title,
			Author:          ref.Author,
			DurationSeconds: ref.DurationSeconds,
		}
		if err := r.cache.Put(entry); err != nil {
			log.Printf("Warning: failed to update metadata cache: %v", err)
		}
	}

	return ref, nil
}

type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

func (r *Resolver) fetchOEmbed(ctx context.Context, videoURL string) (*oembedResponse, error) {
	endpoint := fmt.Sprintf("%s?url=%s&format=json", r.oembedBase, url.QueryEscape(videoURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create oEmbed request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oEmbed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oEmbed returned status %d", resp.StatusCode)
	}

	var meta oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode oEmbed response: %w", err)
	}

	return &meta, nil
}

func (r *Resolver) fetchDuration(ctx context.Context, videoID string) (int, error) {
	call := r.service.Videos.List([]string{"contentDetails"}).Id(videoID).Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch video details: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, fmt.Errorf("video %s not found", videoID)
	}

	return timecode.ParseISODuration(resp.Items[0].ContentDetails.Duration), nil
}
