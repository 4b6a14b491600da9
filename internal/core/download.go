package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidPayload is returned when a download body is not valid JSON.
var ErrInvalidPayload = errors.New("invalid JSON payload")

// DownloadFileName is the attachment name of the barcode download.
const DownloadFileName = "barcodes.json"

// Envelope is the { "barcodes": [...] } document offered for download.
// Barcodes is kept raw so a posted list is returned exactly as received.
type Envelope struct {
	Barcodes json.RawMessage `json:"barcodes"`
}

// ParseDownload extracts the barcode list from a download request body.
func ParseDownload(body []byte) (Envelope, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Envelope{}, ErrNoBarcodeData
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	raw := bytes.TrimSpace(env.Barcodes)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Envelope{}, ErrNoBarcodeData
	}
	return env, nil
}

// NewEnvelope wraps generated barcodes for download.
func NewEnvelope(barcodes []RenderedBarcode) (Envelope, error) {
	if barcodes == nil {
		barcodes = []RenderedBarcode{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(barcodes); err != nil {
		return Envelope{}, fmt.Errorf("encode barcodes: %w", err)
	}
	return Envelope{Barcodes: bytes.TrimSpace(buf.Bytes())}, nil
}

// WriteTo writes the envelope pretty-printed with two-space indentation.
func (e Envelope) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return 0, fmt.Errorf("encode envelope: %w", err)
	}
	return buf.WriteTo(w)
}
