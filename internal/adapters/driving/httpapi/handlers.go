package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/logger"
)

// streamTerminator closes every SSE stream.
const streamTerminator = "[DONE]"

// telemetryRequest is the feedback submission payload.
type telemetryRequest struct {
	UserID   string           `json:"user_id"`
	Rating   domain.Rating    `json:"rating"`
	Messages []domain.Message `json:"messages"`
}

// telemetryResponse acknowledges a stored feedback event.
type telemetryResponse struct {
	Result string `json:"result"`
}

// healthResponse reports service liveness.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// handleChat answers a conversation request, either as one JSON
// envelope or as a server-sent event stream.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}

	if req.Stream {
		s.streamChat(w, r, req)
		return
	}

	resp, err := s.chat.Chat(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// streamChat relays generation output as SSE, one `data:` line per
// envelope, flushed immediately, terminated by the sentinel event.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, req domain.ChatRequest) {
	events, err := s.chat.ChatStream(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, fmt.Errorf("streaming unsupported by connection"))
		return
	}

	s.metrics.streamsActive.Inc()
	defer s.metrics.streamsActive.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range events {
		switch {
		case event.Done:
			fmt.Fprintf(w, "data: %s\n\n", streamTerminator)
			flusher.Flush()
			return
		case event.Err != nil:
			payload, err := json.Marshal(errorResponse{Error: *event.Err})
			if err != nil {
				logger.Error("marshal stream error event: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		case event.Chunk != nil:
			payload, err := json.Marshal(event.Chunk)
			if err != nil {
				logger.Error("marshal stream chunk: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// handleTelemetry stores one user feedback event.
func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	var req telemetryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}

	if err := s.feedback.Submit(r.Context(), req.UserID, req.Rating, req.Messages); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, telemetryResponse{Result: "ok"})
}

// handleTelemetryStats reports aggregate feedback statistics.
func (s *Server) handleTelemetryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.feedback.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   APIVersion,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encode response: %v", err)
	}
}
