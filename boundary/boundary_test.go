package boundary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGeoJSON = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"district":"Dehradun"},"geometry":{"type":"Polygon","coordinates":[[[77.8,30.1],[78.2,30.1],[78.2,30.5],[77.8,30.5],[77.8,30.1]]]}}]}`

func TestRefreshAndCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleGeoJSON))
	}))
	defer srv.Close()

	s := NewStore(srv.URL)

	_, ok := s.Current()
	assert.False(t, ok, "no overlay before the first refresh")
	assert.True(t, s.FetchedAt().IsZero())

	require.NoError(t, s.Refresh(context.Background()))

	data, ok := s.Current()
	require.True(t, ok)
	assert.JSONEq(t, sampleGeoJSON, string(data))
	assert.False(t, s.FetchedAt().IsZero())
}

func TestFailedRefreshKeepsPreviousCopy(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "upstream broken", http.StatusBadGateway)
			return
		}
		w.Write([]byte(sampleGeoJSON))
	}))
	defer srv.Close()

	s := NewStore(srv.URL)
	require.NoError(t, s.Refresh(context.Background()))

	failing.Store(true)
	assert.Error(t, s.Refresh(context.Background()))

	data, ok := s.Current()
	require.True(t, ok, "stale overlay beats no overlay")
	assert.JSONEq(t, sampleGeoJSON, string(data))
}

func TestRefreshRejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	}))
	defer srv.Close()

	s := NewStore(srv.URL)
	assert.Error(t, s.Refresh(context.Background()))

	_, ok := s.Current()
	assert.False(t, ok)
}
