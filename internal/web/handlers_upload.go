package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/barcodegen/internal/core"
)

// uploadField is the multipart field carrying the spreadsheet.
const uploadField = "uploadedFile"

// handleUpload generates barcodes for an uploaded spreadsheet.
//
// The barcodeType query parameter selects the symbology for every row. An
// unrecognized value yields an empty list rather than an error.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			s.respondError(w, r, core.ErrNoFileProvided)
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.respondError(w, r, core.ErrNoFileProvided)
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	barcodes, err := s.service.Generate(ctx, core.GenerateRequest{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		File:        file,
		BarcodeType: r.URL.Query().Get("barcodeType"),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, barcodes)
}
