package soap

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Client calls one SPIRE SOAP operation and parses its result into T.
// A Client holds no mutable state after construction and is safe for
// concurrent use.
type Client[T any] struct {
	parser      Parser[T]
	reqCfg      RequestConfig
	requestOpts []RequestOption
	transport   *Transport
	handler     ErrorHandler
	failOnFault bool
	metrics     *metrics
	logger      *slog.Logger
}

// NewClient creates a client for the operation described by requestConfig.
// Without options the client fails on SOAP faults and uses
// DefaultErrorHandler for error markers.
func NewClient[T any](parser Parser[T], clientConfig ClientConfig, requestConfig RequestConfig, opt ...Option) *Client[T] {
	opts := defaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	t := newTransport(clientConfig, &opts)
	if opts.errorHandler == nil {
		opts.errorHandler = DefaultErrorHandler(WithMarkerLogger(t.logger))
	}
	failOnFault := opts.failOnFault
	if p, ok := opts.errorHandler.(FaultPolicy); ok && !p.FailOnFault() {
		failOnFault = false
	}

	return &Client[T]{
		parser:      parser,
		reqCfg:      requestConfig,
		requestOpts: opts.requestOpts,
		transport:   t,
		handler:     opts.errorHandler,
		failOnFault: failOnFault,
		metrics:     newMetrics(opts.registerer),
		logger:      t.logger,
	}
}

// NewRequest creates an empty request for the client's operation.
func (c *Client[T]) NewRequest() *Request {
	return NewRequest(c.reqCfg, c.requestOpts...)
}

// URL returns the endpoint the client posts to.
func (c *Client[T]) URL() string {
	return c.transport.URL(c.reqCfg.Namespace)
}

// SendRequest sends req and parses the result.
// The call is bounded by the configured connect and read timeouts.
func (c *Client[T]) SendRequest(req *Request) (T, error) {
	return c.SendRequestContext(context.Background(), req)
}

// SendRequestContext sends req with a context.
// Errors are always *ClientError; a SOAP fault is checked first, then the
// error handler, and the parser only runs when both pass.
func (c *Client[T]) SendRequestContext(ctx context.Context, req *Request) (T, error) {
	started := time.Now()
	result, err := c.call(ctx, req)
	c.metrics.observe(c.reqCfg.Namespace, started, err)
	if err != nil {
		c.logger.DebugContext(ctx, "SOAP call failed",
			slog.String("namespace", c.reqCfg.Namespace),
			slog.String("outcome", outcome(err)))
	}
	return result, err
}

func (c *Client[T]) call(ctx context.Context, req *Request) (T, error) {
	var zero T
	if req == nil {
		return zero, buildError("request is nil")
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return zero, err
	}

	if c.failOnFault {
		if err := (FaultHandler{}).CheckResponse(resp); err != nil {
			return zero, err
		}
	}
	if err := c.handler.CheckResponse(resp); err != nil {
		return zero, asClientError(KindDomain, "error marker rejected by handler", err)
	}

	result, err := c.parser.ParseResponse(resp)
	if err != nil {
		return zero, asClientError(KindParse, "error occurred parsing SOAP response", err)
	}
	return result, nil
}

func asClientError(kind Kind, info string, err error) error {
	var ce *ClientError
	if errors.As(err, &ce) {
		return err
	}
	return newError(kind, info, err)
}
