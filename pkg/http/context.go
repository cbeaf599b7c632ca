package http

import "context"

type contextKey int

const (
	clientMetaContextKey contextKey = iota
	requestIDContextKey
)

type clientMetadata struct {
	Route       Route
	Destination string
}

func withClientMetadata(ctx context.Context, meta *clientMetadata) context.Context {
	return context.WithValue(ctx, clientMetaContextKey, meta)
}

func getClientMetadata(ctx context.Context) *clientMetadata {
	meta, ok := ctx.Value(clientMetaContextKey).(*clientMetadata)
	if ok {
		return meta
	}
	return &clientMetadata{}
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok && id != ""
}
