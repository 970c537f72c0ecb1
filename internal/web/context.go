package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/framefill/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for run
// history. RemoteAddr has already been rewritten by TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return core.WithRequester(ctx, core.Requester{
		IP:        ip,
		UserAgent: r.UserAgent(),
	})
}
