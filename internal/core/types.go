package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// RenderedBarcode is one validated row with its encoded image.
// The png field keeps its name whatever the raster format.
type RenderedBarcode struct {
	MaterialCode string `json:"materialCode"`
	MaterialName string `json:"materialName"`
	Barcode      string `json:"barcode"`
	PNG          string `json:"png"`
}

// Phase is the state of a generation request.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseReading    Phase = "reading"
	PhaseValidating Phase = "validating"
	PhaseRendering  Phase = "rendering"
	PhaseCompleted  Phase = "completed"
	PhaseAborted    Phase = "aborted"
)

// RunStatus is the recorded outcome of a generation request.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunAborted   RunStatus = "aborted"
	RunFailed    RunStatus = "failed"
)

// Run is the history record of one generation request.
type Run struct {
	ID        string    `json:"id"`
	Symbology string    `json:"symbology"`
	FileName  string    `json:"fileName"`
	Rows      int       `json:"rows"`
	Generated int       `json:"generated"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	ClientIP  string    `json:"clientIp,omitempty"`
	Duration  int64     `json:"durationMs"`
	CreatedAt time.Time `json:"createdAt"`
}
