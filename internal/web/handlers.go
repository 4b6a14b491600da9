package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/barcodegen/internal/barcode"
	"github.com/JonMunkholm/barcodegen/internal/core"
	"github.com/JonMunkholm/barcodegen/internal/web/templates"
)

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	params := templates.IndexParams{
		Symbologies: []templates.Symbology{
			{Value: barcode.EAN13.String(), Label: "EAN-13"},
			{Value: barcode.Code128B.String(), Label: "Code 128 (B)"},
		},
		MaxFileMB: s.cfg.Upload.MaxFileSize >> 20,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(params).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}

// handleListRuns returns recent generation runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), parseIntParam(r, "limit", 0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, runs)
}

// statusResponse reports generation capacity.
type statusResponse struct {
	Uploads core.UploadLimiterStatus `json:"uploads"`
}

// handleStatus reports how many generation slots are in use.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, statusResponse{Uploads: s.service.UploadLimiterStatus()})
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
