package core

import "context"

type requesterKey struct{}

// Requester identifies who asked for a fill. Both fields are optional and
// end up in the run history.
type Requester struct {
	IP        string
	UserAgent string
}

// WithRequester attaches r to ctx.
func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, r)
}

// RequesterFromContext returns the requester stored by WithRequester, or the
// zero value for fills started outside a request (CLI, watch mode).
func RequesterFromContext(ctx context.Context) Requester {
	r, _ := ctx.Value(requesterKey{}).(Requester)
	return r
}
