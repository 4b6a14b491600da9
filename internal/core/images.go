package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ImageStore writes copies of rendered images to a directory in the background.
//
// Writes are fire-and-forget: Save returns immediately and a failed write is
// logged, never reported to the caller. Every file gets a unique name, so
// concurrent requests never collide.
type ImageStore struct {
	dir string
	wg  sync.WaitGroup

	written atomic.Int64
	failed  atomic.Int64
}

// NewImageStore ensures dir exists and returns a store writing into it.
// Creating an existing directory is not an error.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir %s: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save schedules data to be written as barcode_<uuid>.png and returns the name.
func (s *ImageStore) Save(data []byte) string {
	name := "barcode_" + uuid.NewString() + ".png"
	path := filepath.Join(s.dir, name)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := os.WriteFile(path, data, 0o644); err != nil {
			s.failed.Add(1)
			slog.Warn("image persist failed", "file", name, "error", err)
			return
		}
		s.written.Add(1)
	}()

	return name
}

// Wait blocks until pending writes finish or ctx is done.
// Used during shutdown.
func (s *ImageStore) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ImageStoreStats counts completed background writes.
type ImageStoreStats struct {
	Written int64 `json:"written"`
	Failed  int64 `json:"failed"`
}

// Stats returns write counters for monitoring.
func (s *ImageStore) Stats() ImageStoreStats {
	return ImageStoreStats{Written: s.written.Load(), Failed: s.failed.Load()}
}
