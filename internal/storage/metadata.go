package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MetadataStore keeps resolved video metadata in a JSON file so repeated
// runs against the same video can skip the network lookups.
type MetadataStore struct {
	filePath string
	entries  map[string]CachedMetadata
	mu       sync.RWMutex
}

// CachedMetadata is one cached resolution result.
type CachedMetadata struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	DurationSeconds int       `json:"duration_seconds"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// NewMetadataStore opens (or starts) the cache backed by filePath.
func NewMetadataStore(filePath string) (*MetadataStore, error) {
	if dir := filepath.Dir(filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	store := &MetadataStore{
		filePath: filePath,
		entries:  make(map[string]CachedMetadata),
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load metadata cache: %w", err)
	}

	return store, nil
}

// Get returns the cached entry for a video ID, if present.
func (s *MetadataStore) Get(videoID string) (CachedMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[videoID]
	return entry, ok
}

// Put stores an entry and persists the cache. FetchedAt is stamped here.
func (s *MetadataStore) Put(entry CachedMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.FetchedAt = time.Now()
	s.entries[entry.VideoID] = entry
	return s.save()
}

// Len returns the number of cached videos.
func (s *MetadataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MetadataStore) load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No cache yet, start empty
			return nil
		}
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var entries []CachedMetadata
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode cache data: %w", err)
	}

	for _, entry := range entries {
		s.entries[entry.VideoID] = entry
	}

	return nil
}

func (s *MetadataStore) save() error {
	var entries []CachedMetadata
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}

	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}
