package soap

import (
	"context"

	"github.com/google/uuid"
)

// CorrelationHeader carries the correlation id on outbound requests.
const CorrelationHeader = "X-CorrelationId"

type contextKey string

const contextKeyCorrelationID contextKey = "correlation_id"

// WithCorrelationID returns a context whose SOAP calls send id in the
// X-CorrelationId header.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyCorrelationID, id)
}

// CorrelationID returns the id set by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyCorrelationID).(string)
	return id
}

func correlationIDFor(ctx context.Context) string {
	if id := CorrelationID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
