package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moderationServer(t *testing.T, flagged bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"flagged": flagged}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckContent(t *testing.T) {
	t.Run("clean content", func(t *testing.T) {
		cfg := testConfig()
		cfg.ModerationEndpoint = moderationServer(t, false).URL
		svc := NewModerationService(cfg)

		result, err := svc.CheckContent("a pleasant afternoon")
		require.NoError(t, err)
		assert.False(t, result.Flagged)
	})

	t.Run("flagged content", func(t *testing.T) {
		cfg := testConfig()
		cfg.ModerationEndpoint = moderationServer(t, true).URL
		svc := NewModerationService(cfg)

		result, err := svc.CheckContent("something awful")
		require.NoError(t, err)
		assert.True(t, result.Flagged)
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		cfg := testConfig()
		cfg.ModerationEndpoint = srv.URL
		svc := NewModerationService(cfg)

		_, err := svc.CheckContent("anything")
		require.Error(t, err)
	})

	t.Run("empty results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
		}))
		t.Cleanup(srv.Close)

		cfg := testConfig()
		cfg.ModerationEndpoint = srv.URL
		svc := NewModerationService(cfg)

		_, err := svc.CheckContent("anything")
		require.Error(t, err)
	})
}

func TestIsContentSafe(t *testing.T) {
	t.Run("clean passes", func(t *testing.T) {
		cfg := testConfig()
		cfg.ModerationEndpoint = moderationServer(t, false).URL
		assert.True(t, NewModerationService(cfg).IsContentSafe("hello"))
	})

	t.Run("flagged blocks", func(t *testing.T) {
		cfg := testConfig()
		cfg.ModerationEndpoint = moderationServer(t, true).URL
		assert.False(t, NewModerationService(cfg).IsContentSafe("hello"))
	})

	t.Run("endpoint failure fails open", func(t *testing.T) {
		cfg := testConfig()
		cfg.ModerationEndpoint = "http://127.0.0.1:1" // nothing listens here
		assert.True(t, NewModerationService(cfg).IsContentSafe("hello"))
	})
}
