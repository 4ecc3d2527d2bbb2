package common

import (
	"context"
	"time"
)

type ctxKey int

const (
	requestStartKey ctxKey = iota
	requestIDKey
)

// Echo context keys shared by middleware and controllers
const (
	EchoIdentityKey  = "identity"
	EchoRequestIDKey = "request_id"
)

func WithRequestStart(ctx context.Context, start time.Time) context.Context {
	return context.WithValue(ctx, requestStartKey, start)
}

// ProcessingTime returns the milliseconds elapsed since the request entered the stack, or 0
func ProcessingTime(ctx context.Context) int64 {
	start, ok := ctx.Value(requestStartKey).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start).Milliseconds()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
