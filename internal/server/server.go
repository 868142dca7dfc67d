// Package server exposes the notification inbox over HTTP: JSON reads,
// read-state mutations, a fire-and-forget refresh trigger, and an SSE stream
// backed by the inbox subscription.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopmetrics/sentinel/pkg/inbox"
	"github.com/shopmetrics/sentinel/pkg/model"
)

// Refresher triggers an out-of-band computation cycle.
type Refresher interface {
	RefreshNow()
}

// Server provides the notification API.
type Server struct {
	inbox     *inbox.Inbox
	refresher Refresher
	mux       *http.ServeMux
	logger    *slog.Logger
}

// NewServer creates an API server over the given inbox. The refresher may be
// nil, in which case the refresh endpoint returns 503.
func NewServer(box *inbox.Inbox, refresher Refresher, logger *slog.Logger) *Server {
	s := &Server{
		inbox:     box,
		refresher: refresher,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/notifications", s.handleList)
	s.mux.HandleFunc("GET /api/v1/notifications/unread_count", s.handleUnreadCount)
	s.mux.HandleFunc("GET /api/v1/notifications/stream", s.handleStream)
	s.mux.HandleFunc("POST /api/v1/notifications/{id}/read", s.handleMarkRead)
	s.mux.HandleFunc("POST /api/v1/notifications/read_all", s.handleMarkAllRead)
	s.mux.HandleFunc("DELETE /api/v1/notifications", s.handleClearAll)
	s.mux.HandleFunc("POST /api/v1/refresh", s.handleRefresh)
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	notifications := s.inbox.Notifications()
	if notifications == nil {
		notifications = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": s.inbox.UnreadCount()})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	// Marking an unknown ID is not an error: the entry may have been
	// superseded by a cycle between the client's read and this request.
	s.inbox.MarkRead(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, _ *http.Request) {
	s.inbox.MarkAllRead()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearAll(w http.ResponseWriter, _ *http.Request) {
	s.inbox.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if s.refresher == nil {
		http.Error(w, "refresh unavailable", http.StatusServiceUnavailable)
		return
	}
	s.refresher.RefreshNow()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := make(chan []model.Notification, 8)
	unsubscribe := s.inbox.Subscribe(func(list []model.Notification) {
		// Drop the event if the client is too slow to drain; the next
		// mutation delivers the full list again anyway.
		select {
		case events <- list:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case list := <-events:
			data, err := json.Marshal(list)
			if err != nil {
				s.logger.Error("marshal notification stream event", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
