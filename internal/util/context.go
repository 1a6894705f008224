package util

import (
	"context"
	"time"
)

// Context keys.
type ctxKey string

const (
	ctxKeyNavigationID ctxKey = "navigation_id"
	ctxKeyStartTime    ctxKey = "start_time"
	ctxKeyPhase        ctxKey = "phase"
)

// ContextWithNavigationID adds a navigation ID to the context.
func ContextWithNavigationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyNavigationID, id)
}

// NavigationIDFromContext extracts the navigation ID from context.
func NavigationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyNavigationID).(string); ok {
		return v
	}
	return ""
}

// ContextWithStartTime adds a start time to the context.
func ContextWithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxKeyStartTime, t)
}

// StartTimeFromContext extracts the start time from context.
func StartTimeFromContext(ctx context.Context) time.Time {
	if v, ok := ctx.Value(ctxKeyStartTime).(time.Time); ok {
		return v
	}
	return time.Time{}
}

// ContextWithPhase adds the current dispatch phase to the context.
func ContextWithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase, phase)
}

// PhaseFromContext extracts the current dispatch phase from context.
func PhaseFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyPhase).(string); ok {
		return v
	}
	return ""
}

// ElapsedTime returns the elapsed time since the start time in context.
func ElapsedTime(ctx context.Context) time.Duration {
	startTime := StartTimeFromContext(ctx)
	if startTime.IsZero() {
		return 0
	}
	return time.Since(startTime)
}
