package server_test

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmetrics/sentinel/internal/server"
	"github.com/shopmetrics/sentinel/pkg/inbox"
	"github.com/shopmetrics/sentinel/pkg/model"
)

type fakeRefresher struct {
	calls atomic.Int64
}

func (f *fakeRefresher) RefreshNow() { f.calls.Add(1) }

func seededInbox() *inbox.Inbox {
	box := inbox.New()
	box.Replace([]model.Notification{
		{
			ID:        "stock-1",
			Type:      model.TypeLowStock,
			Severity:  model.SeverityCritical,
			Title:     "Out of Stock",
			Message:   "Desk Lamp has only 0 units left",
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "churn-risk",
			Type:      model.TypeHighChurn,
			Severity:  model.SeverityWarning,
			Title:     "High Churn Risk",
			Message:   "3 customers (30.0%) haven't purchased in 30+ days",
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	})
	return box
}

func setupServer(t *testing.T, box *inbox.Inbox, refresher server.Refresher) *server.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return server.NewServer(box, refresher, logger)
}

func TestServer_Health(t *testing.T) {
	srv := setupServer(t, inbox.New(), nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp["status"])
}

func TestServer_ListNotifications(t *testing.T) {
	srv := setupServer(t, seededInbox(), nil)

	req := httptest.NewRequest("GET", "/api/v1/notifications", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var list []model.Notification
	err := json.NewDecoder(w.Body).Decode(&list)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "stock-1", list[0].ID)
}

func TestServer_ListEmptyIsArray(t *testing.T) {
	srv := setupServer(t, inbox.New(), nil)

	req := httptest.NewRequest("GET", "/api/v1/notifications", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestServer_UnreadCount(t *testing.T) {
	srv := setupServer(t, seededInbox(), nil)

	req := httptest.NewRequest("GET", "/api/v1/notifications/unread_count", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]int
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, 2, resp["unread_count"])
}

func TestServer_MarkRead(t *testing.T) {
	box := seededInbox()
	srv := setupServer(t, box, nil)

	req := httptest.NewRequest("POST", "/api/v1/notifications/stock-1/read", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, box.UnreadCount())
}

func TestServer_MarkReadUnknownID(t *testing.T) {
	box := seededInbox()
	srv := setupServer(t, box, nil)

	req := httptest.NewRequest("POST", "/api/v1/notifications/nonexistent/read", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 2, box.UnreadCount())
}

func TestServer_MarkAllRead(t *testing.T) {
	box := seededInbox()
	srv := setupServer(t, box, nil)

	req := httptest.NewRequest("POST", "/api/v1/notifications/read_all", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, box.UnreadCount())
}

func TestServer_ClearAll(t *testing.T) {
	box := seededInbox()
	srv := setupServer(t, box, nil)

	req := httptest.NewRequest("DELETE", "/api/v1/notifications", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, box.Notifications())
}

func TestServer_Refresh(t *testing.T) {
	refresher := &fakeRefresher{}
	srv := setupServer(t, inbox.New(), refresher)

	req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, int64(1), refresher.calls.Load())
}

func TestServer_RefreshUnavailable(t *testing.T) {
	srv := setupServer(t, inbox.New(), nil)

	req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_StreamDeliversStateAndMutations(t *testing.T) {
	box := seededInbox()
	srv := setupServer(t, box, nil)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/notifications/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	first := readEvent(t, reader)
	require.Len(t, first, 2)

	box.MarkAllRead()
	second := readEvent(t, reader)
	require.Len(t, second, 2)
	assert.True(t, second[0].Read)
	assert.True(t, second[1].Read)
}

// readEvent reads one SSE data event and decodes its notification list.
func readEvent(t *testing.T, reader *bufio.Reader) []model.Notification {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var list []model.Notification
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &list))
		return list
	}
}
