package web

import (
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/barcodegen/internal/core"
	"github.com/JonMunkholm/barcodegen/internal/logging"
)

// handleDownloadJSON returns a posted barcode list as a pretty-printed
// barcodes.json attachment.
func (s *Server) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err))
		return
	}

	env, err := core.ParseDownload(body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", core.DownloadFileName))
	if _, err := env.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Error("write download", "error", err)
	}
}
