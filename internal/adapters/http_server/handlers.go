// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"roomreviews/internal/app"
	"roomreviews/internal/domain"
)

// maxScrapeBody caps how much request JSON one scrape call may carry.
const maxScrapeBody = 1 << 20

// ScrapeRunner is the slice of the app layer the scrape endpoint needs.
type ScrapeRunner interface {
	Run(ctx context.Context, roomURLs []string, maxItems int) ([]domain.RoomResult, app.Report)
}

type Handlers struct {
	Runner ScrapeRunner
	// MaxRooms bounds how many URLs one request may carry; <= 0 means no cap.
	MaxRooms int
	// DefaultMaxItems applies when the request leaves maxItems unset.
	DefaultMaxItems int
}

type scrapeRequest struct {
	RoomURLs []string `json:"roomUrls"`
	MaxItems *int     `json:"maxItems"`
}

type scrapeResponse struct {
	RunID     string              `json:"runId"`
	Rooms     int                 `json:"rooms"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Reviews   int                 `json:"reviews"`
	Results   []domain.RoomResult `json:"results"`
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/scrape", h.scrape)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// scrape runs the whole pipeline on demand and returns every room's
// outcome in one response. Nothing is persisted; a failed room shows
// up as an error marker on its result, never as a non-200.
func (h *Handlers) scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	body := http.MaxBytesReader(w, r.Body, maxScrapeBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON object")
		return
	}
	if len(req.RoomURLs) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "roomUrls must not be empty")
		return
	}
	if h.MaxRooms > 0 && len(req.RoomURLs) > h.MaxRooms {
		writeProblem(w, http.StatusBadRequest, "Too Many Rooms",
			fmt.Sprintf("at most %d room URLs per request", h.MaxRooms))
		return
	}

	maxItems := h.DefaultMaxItems
	if req.MaxItems != nil {
		if *req.MaxItems < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid maxItems", "maxItems must be zero or positive")
			return
		}
		maxItems = *req.MaxItems
	}

	results, report := h.Runner.Run(r.Context(), req.RoomURLs, maxItems)

	writeJSON(w, http.StatusOK, scrapeResponse{
		RunID:     report.RunID,
		Rooms:     report.Rooms,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Reviews:   report.Reviews,
		Results:   results,
	})
}
