// Package boundary serves the district outline overlay for the map.
package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"go-monsoon/config"
)

// Store holds the most recently fetched district GeoJSON. The map page
// reads it on every load; the refresh job replaces it in the background.
type Store struct {
	url    string
	client *http.Client

	mu        sync.RWMutex
	data      []byte
	fetchedAt time.Time
}

func NewStore(url string) *Store {
	return &Store{
		url:    url,
		client: &http.Client{Timeout: config.BoundaryTimeout},
	}
}

// Refresh fetches the overlay. A failed refresh keeps the previous copy in
// place.
func (s *Store) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching boundary overlay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("boundary overlay fetch returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("reading boundary overlay: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("boundary overlay is not valid JSON")
	}

	s.mu.Lock()
	s.data = data
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	log.Printf("District boundary overlay refreshed (%d bytes)", len(data))
	return nil
}

// Current returns the cached overlay bytes. ok is false until the first
// successful refresh.
func (s *Store) Current() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.data != nil
}

// FetchedAt reports when the overlay was last replaced.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
