package soap

import (
	"net/http"
	"time"
)

// CallContent is one side of an exchange. Header never carries the
// Authorization value.
type CallContent struct {
	Header http.Header
	Body   string
}

type CallResult struct {
	RequestURL      string
	CorrelationID   string
	StatusCode      int
	RequestContent  CallContent
	ResponseContent CallContent
	InvokeAt        time.Time
	ReturnAt        time.Time
	DecodedAt       time.Time
}

// Elapsed is the time spent waiting on the remote.
func (c CallResult) Elapsed() time.Duration {
	if c.InvokeAt.IsZero() || c.ReturnAt.IsZero() {
		return 0
	}
	return c.ReturnAt.Sub(c.InvokeAt)
}

func redactHeader(h http.Header) http.Header {
	out := h.Clone()
	out.Del("Authorization")
	return out
}
