package util

import (
	"context"
)

type contextKey string

const verboseKey contextKey = "verbose"

// WithVerbose marks the context so case runs print per-step detail.
func WithVerbose(ctx context.Context, verbose bool) context.Context {
	return context.WithValue(ctx, verboseKey, verbose)
}

// IsVerbose reports whether verbose case-run output was requested.
func IsVerbose(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, ok := ctx.Value(verboseKey).(bool)
	return ok && v
}
