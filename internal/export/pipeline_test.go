package export_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umamiexport/internal/auth"
	"umamiexport/internal/export"
	"umamiexport/internal/timeframe"
	"umamiexport/internal/umami"
)

// newShareServer fakes the share and metrics endpoints for a single website
func newShareServer(t *testing.T, shareID, token, websiteID string, pages [][]map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/share/" + shareID:
			json.NewEncoder(w).Encode(map[string]string{"token": token, "websiteId": websiteID})
		case "/api/websites/" + websiteID + "/metrics/expanded":
			require.Equal(t, token, r.Header.Get("x-umami-share-token"))

			limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
			require.NoError(t, err)
			offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
			require.NoError(t, err)
			require.Zero(t, offset%limit, "offset must advance in limit steps")

			pageIndex := offset / limit
			if pageIndex >= len(pages) {
				json.NewEncoder(w).Encode([]any{})
				return
			}
			json.NewEncoder(w).Encode(pages[pageIndex])
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestRunShareExportEndToEnd(t *testing.T) {
	srv := newShareServer(t, "S1", "T", "W", [][]map[string]any{
		{
			{"name": "/a", "visitors": 3},
			{"name": "/a/", "visitors": 2},
		},
	})
	defer srv.Close()

	totals, err := export.Run(context.Background(), umami.NewClient(srv.URL), discardLogger(), export.Params{
		Auth:   auth.Inputs{ShareID: "S1"},
		Window: timeframe.Window{StartAt: 1000, EndAt: 2000},
		Limit:  500,
	})
	require.NoError(t, err)

	assert.Equal(t, export.Totals{"/a/": 5}, totals)
}

func TestRunMultiPageExport(t *testing.T) {
	srv := newShareServer(t, "S1", "T", "W", [][]map[string]any{
		{
			{"name": "/a", "visitors": 1},
			{"name": "/b", "visitors": 2},
		},
		{
			{"name": "/a/", "visitors": 4},
			{"name": "/c", "visitors": "abc"},
		},
	})
	defer srv.Close()

	totals, err := export.Run(context.Background(), umami.NewClient(srv.URL), discardLogger(), export.Params{
		Auth:   auth.Inputs{ShareID: "S1"},
		Window: timeframe.Window{StartAt: 1000, EndAt: 2000},
		Limit:  2,
	})
	require.NoError(t, err)

	// The malformed /c row is skipped without aborting the export.
	assert.Equal(t, export.Totals{"/a/": 5, "/b/": 2}, totals)
}

func TestRunUserPassExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "LT"})
		case "/api/websites/W9/metrics/expanded":
			require.Equal(t, "Bearer LT", r.Header.Get("authorization"))
			if r.URL.Query().Get("offset") == "0" {
				json.NewEncoder(w).Encode([]map[string]any{{"name": "/x", "visitors": 1}})
				return
			}
			json.NewEncoder(w).Encode([]any{})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	totals, err := export.Run(context.Background(), umami.NewClient(srv.URL), discardLogger(), export.Params{
		Auth:      auth.Inputs{Username: "admin", Password: "secret"},
		WebsiteID: "W9",
		Window:    timeframe.Window{StartAt: 1, EndAt: 2},
		Limit:     100,
	})
	require.NoError(t, err)
	assert.Equal(t, export.Totals{"/x/": 1}, totals)
}

func TestRunConfigurationErrors(t *testing.T) {
	client := umami.NewClient("http://unreachable.invalid")

	t.Run("no auth", func(t *testing.T) {
		_, err := export.Run(context.Background(), client, discardLogger(), export.Params{
			Window: timeframe.Window{StartAt: 1, EndAt: 2},
			Limit:  10,
		})
		assert.ErrorIs(t, err, auth.ErrNoAuth)
	})

	t.Run("non-positive limit", func(t *testing.T) {
		_, err := export.Run(context.Background(), client, discardLogger(), export.Params{
			Auth:   auth.Inputs{Token: "T"},
			Window: timeframe.Window{StartAt: 1, EndAt: 2},
			Limit:  0,
		})
		assert.ErrorContains(t, err, "positive")
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := export.Run(context.Background(), client, discardLogger(), export.Params{
			Auth:   auth.Inputs{Token: "T"},
			Window: timeframe.Window{StartAt: 2, EndAt: 1},
			Limit:  10,
		})
		assert.ErrorContains(t, err, "not before")
	})
}

func TestRunAbortsOnMetricsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/share/S1":
			json.NewEncoder(w).Encode(map[string]string{"token": "T", "websiteId": "W"})
		default:
			http.Error(w, "server exploded", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	_, err := export.Run(context.Background(), umami.NewClient(srv.URL), discardLogger(), export.Params{
		Auth:   auth.Inputs{ShareID: "S1"},
		Window: timeframe.Window{StartAt: 1, EndAt: 2},
		Limit:  10,
	})

	var protoErr *umami.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, http.StatusInternalServerError, protoErr.StatusCode)
}
