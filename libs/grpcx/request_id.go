package grpcx

import (
	"context"

	"github.com/md-rashed-zaman/gymdesk/libs/httpx"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
)

// RequestIDMetadataKey carries the request id over gRPC metadata (lowercase per gRPC conventions).
const RequestIDMetadataKey = "x-request-id"

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// NewRequestID mints ids in the same format as the HTTP middleware.
func NewRequestID() string {
	return httpx.NewRequestID()
}
