package soap

import (
	"log/slog"

	"github.com/beevik/etree"
)

// DefaultMarker is the element looked up under RESPONSE for domain errors.
const DefaultMarker = "ERROR"

// ErrorHandler inspects a response before it is parsed. A non-nil error
// fails the call.
type ErrorHandler interface {
	CheckResponse(resp *Response) error
}

// FaultPolicy may be implemented by an ErrorHandler to turn the client's
// SOAP fault check off.
type FaultPolicy interface {
	FailOnFault() bool
}

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc func(resp *Response) error

func (f ErrorHandlerFunc) CheckResponse(resp *Response) error {
	return f(resp)
}

// FaultHandler fails on any SOAP fault in the body.
type FaultHandler struct{}

func (FaultHandler) CheckResponse(resp *Response) error {
	f, ok := resp.Fault()
	if !ok {
		return nil
	}
	return newError(KindFault, "soap:Fault: "+f.Error(), f)
}

// MarkerHandler looks for a marker element among the children of the first
// node matched by its scope and passes the marker's text to Handle.
//
// As an example:
//
//	<ns:RESPONSE>
//	  <ERROR>Could not create SAR. The error has been logged.</ERROR>
//	</ns:RESPONSE>
//
// results in Handle("Could not create SAR. The error has been logged.").
type MarkerHandler struct {
	marker   string
	selector string
	scope    etree.Path
	handle   func(text string) error
	logger   *slog.Logger
}

type MarkerOption func(*MarkerHandler)

// WithMarker changes the marker element name from DefaultMarker.
func WithMarker(name string) MarkerOption {
	return func(h *MarkerHandler) {
		h.marker = name
	}
}

// WithScope changes the node searched for the marker from
// ResponseSelector. An invalid path leaves the default in place and is
// logged.
func WithScope(selector string) MarkerOption {
	return func(h *MarkerHandler) {
		h.selector = selector
	}
}

// WithMarkerLogger sets the logger used to report an invalid scope.
func WithMarkerLogger(logger *slog.Logger) MarkerOption {
	return func(h *MarkerHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewMarkerHandler creates a MarkerHandler calling handle with the marker
// text. handle may return nil to let the call continue.
func NewMarkerHandler(handle func(text string) error, opt ...MarkerOption) *MarkerHandler {
	h := &MarkerHandler{
		marker:   DefaultMarker,
		selector: ResponseSelector,
		scope:    responsePath,
		handle:   handle,
		logger:   slog.Default(),
	}
	for _, o := range opt {
		o(h)
	}
	if h.selector != ResponseSelector {
		p, err := etree.CompilePath(h.selector)
		if err != nil {
			h.logger.Warn("invalid error marker scope",
				slog.String("scope", h.selector),
				slog.String("error", err.Error()))
			h.selector = ResponseSelector
		} else {
			h.scope = p
		}
	}
	return h
}

// DefaultErrorHandler fails the call with the text of a RESPONSE > ERROR
// element.
func DefaultErrorHandler(opt ...MarkerOption) *MarkerHandler {
	return NewMarkerHandler(func(text string) error {
		return newError(KindDomain, "ERROR: "+text, nil)
	}, opt...)
}

func (h *MarkerHandler) CheckResponse(resp *Response) error {
	text, ok := h.markerText(resp)
	if !ok {
		return nil
	}
	return h.handle(text)
}

// markerText reports a marker only when it carries text. Whitespace counts
// as text.
func (h *MarkerHandler) markerText(resp *Response) (string, bool) {
	first := resp.Body().FindElementPath(h.scope)
	if first == nil {
		return "", false
	}
	for _, c := range first.ChildElements() {
		if tagMatches(c, h.marker) {
			text := DeepText(c)
			return text, text != ""
		}
	}
	return "", false
}

type chain []ErrorHandler

// Chain runs handlers in order and returns the first error.
func Chain(handlers ...ErrorHandler) ErrorHandler {
	return chain(handlers)
}

func (c chain) CheckResponse(resp *Response) error {
	for _, h := range c {
		if h == nil {
			continue
		}
		if err := h.CheckResponse(resp); err != nil {
			return err
		}
	}
	return nil
}
