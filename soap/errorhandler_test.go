package soap

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaultHandler(t *testing.T) {
	err := FaultHandler{}.CheckResponse(fixtureResponse(t, "fault.xml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFault)
	assert.Equal(t, "spire client: soap:Fault: bad input", err.Error())

	var f *Fault
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "SOAP-ENV:Client", f.Code)
}

func TestFaultHandler_NoFaultString(t *testing.T) {
	err := FaultHandler{}.CheckResponse(fixtureResponse(t, "faultNoString.xml"))

	require.Error(t, err)
	assert.Equal(t, "spire client: soap:Fault: NULL", err.Error())
}

func TestFaultHandler_NoFault(t *testing.T) {
	assert.NoError(t, FaultHandler{}.CheckResponse(fixtureResponse(t, "simple.xml")))
	assert.NoError(t, FaultHandler{}.CheckResponse(fixtureResponse(t, "error.xml")))
}

func TestDefaultErrorHandler(t *testing.T) {
	err := DefaultErrorHandler().CheckResponse(fixtureResponse(t, "error.xml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDomain)
	assert.Equal(t, "spire client: ERROR: Could not process", err.Error())
}

func TestDefaultErrorHandler_NoMarker(t *testing.T) {
	h := DefaultErrorHandler()

	assert.NoError(t, h.CheckResponse(fixtureResponse(t, "simple.xml")))
	assert.NoError(t, h.CheckResponse(fixtureResponse(t, "fault.xml")))
}

func TestDefaultErrorHandler_EmptyMarker(t *testing.T) {
	for _, body := range []string{`<RESPONSE><ERROR/><REF>A</REF></RESPONSE>`, `<RESPONSE><ERROR></ERROR></RESPONSE>`} {
		resp, err := NewResponse(envelope(body))
		require.NoError(t, err)

		assert.NoError(t, DefaultErrorHandler().CheckResponse(resp), body)
	}
}

func TestDefaultErrorHandler_WhitespaceMarker(t *testing.T) {
	resp, err := NewResponse(envelope(`<RESPONSE><ERROR> </ERROR></RESPONSE>`))
	require.NoError(t, err)

	err = DefaultErrorHandler().CheckResponse(resp)
	assert.ErrorIs(t, err, ErrDomain)
	assert.Equal(t, "spire client: ERROR:  ", err.Error())
}

func TestDefaultErrorHandler_NestedMarkerIgnored(t *testing.T) {
	resp, err := NewResponse(envelope(`<RESPONSE><ITEM><ERROR>nested</ERROR></ITEM></RESPONSE>`))
	require.NoError(t, err)

	assert.NoError(t, DefaultErrorHandler().CheckResponse(resp))
}

func TestMarkerHandler_CustomMarkerAndScope(t *testing.T) {
	resp, err := NewResponse(envelope(`<RESULT><PROBLEM>Site not found</PROBLEM></RESULT>`))
	require.NoError(t, err)

	var got string
	h := NewMarkerHandler(func(text string) error {
		got = text
		return errors.New(text)
	}, WithMarker("PROBLEM"), WithScope("//RESULT"))

	assert.EqualError(t, h.CheckResponse(resp), "Site not found")
	assert.Equal(t, "Site not found", got)
}

func TestMarkerHandler_InvalidScopeKeepsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	// logger given after the scope still receives the warning
	h := DefaultErrorHandler(WithScope("//RESPONSE["), WithMarkerLogger(logger))

	assert.Error(t, h.CheckResponse(fixtureResponse(t, "error.xml")))
	assert.Contains(t, buf.String(), "invalid error marker scope")
	assert.Contains(t, buf.String(), "//RESPONSE[")
}

func TestMarkerHandler_Suppress(t *testing.T) {
	h := NewMarkerHandler(func(string) error { return nil })

	assert.NoError(t, h.CheckResponse(fixtureResponse(t, "error.xml")))
}

func TestChain(t *testing.T) {
	var calls []string
	record := func(name string, err error) ErrorHandler {
		return ErrorHandlerFunc(func(*Response) error {
			calls = append(calls, name)
			return err
		})
	}
	resp := fixtureResponse(t, "simple.xml")

	err := Chain(record("a", nil), nil, record("b", errors.New("b failed")), record("c", nil)).CheckResponse(resp)

	assert.EqualError(t, err, "b failed")
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestClientError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := newError(KindTransport, "error occurred establishing connection with SOAP client", cause)

	assert.Equal(t, "spire client: error occurred establishing connection with SOAP client: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrFault)
}

func TestClientError_EmptyResponseHidesCause(t *testing.T) {
	err := newError(KindEmptyResponse, "Empty response from SOAP client", &HTTPError{StatusCode: 502})

	assert.Equal(t, "spire client: Empty response from SOAP client", err.Error())

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 502, httpErr.StatusCode)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "domain_error", KindDomain.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
