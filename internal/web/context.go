package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/barcodegen/internal/core"
	mw "github.com/JonMunkholm/barcodegen/internal/web/middleware"
)

// WithRequestMetadata adds the client IP to ctx for run history.
// RemoteAddr has already been resolved by TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClientIP(ctx, mw.ClientIP(r))
}
