package soap

import (
	"fmt"
)

// Kind classifies a ClientError.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindEmptyResponse
	KindFault
	KindDomain
	KindBuild
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindEmptyResponse:
		return "empty_response"
	case KindFault:
		return "fault"
	case KindDomain:
		return "domain_error"
	case KindBuild:
		return "build"
	case KindParse:
		return "parse"
	}
	return "unknown"
}

const errorPrefix = "spire client: "

// Sentinels for errors.Is matching against a ClientError kind.
var (
	ErrTransport     = &ClientError{Kind: KindTransport}
	ErrEmptyResponse = &ClientError{Kind: KindEmptyResponse}
	ErrFault         = &ClientError{Kind: KindFault}
	ErrDomain        = &ClientError{Kind: KindDomain}
	ErrBuild         = &ClientError{Kind: KindBuild}
	ErrParse         = &ClientError{Kind: KindParse}
)

// ClientError is the only error type returned by the client. Every failure,
// whether transport, fault, domain or build, surfaces as one.
type ClientError struct {
	Kind Kind
	Info string
	Err  error
}

func (e *ClientError) Error() string {
	if e.Err != nil && e.Kind != KindFault && e.Kind != KindEmptyResponse {
		return errorPrefix + e.Info + ": " + e.Err.Error()
	}
	return errorPrefix + e.Info
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ClientError of the same kind.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, info string, err error) *ClientError {
	return &ClientError{Kind: kind, Info: info, Err: err}
}

func buildError(format string, args ...interface{}) *ClientError {
	return newError(KindBuild, "error occurred creating SOAP request", fmt.Errorf(format, args...))
}

// HTTPError is attached as the cause of an empty response whenever the
// server answered with a status code >= 400
type HTTPError struct {
	//StatusCode is the status code returned in the HTTP response
	StatusCode int
	//ResponseBody contains the body returned in the HTTP response
	ResponseBody []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Status %d: %s", e.StatusCode, string(e.ResponseBody))
}
