package soap

import (
	"crypto/rsa"
	"crypto/tls"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultUserAgent = "spire-soap/1.0"

type options struct {
	tlsCfg      *tls.Config
	client      HTTPClient
	userAgent   string
	httpHeaders map[string]string
	logger      *slog.Logger
	registerer  prometheus.Registerer

	failOnFault  bool
	errorHandler ErrorHandler
	requestOpts  []RequestOption

	wssPrivateKey  *rsa.PrivateKey
	wssCertBlobB64 string
}

func defaultOptions() options {
	return options{
		userAgent:   defaultUserAgent,
		failOnFault: true,
	}
}

// A Option sets options such as the HTTP client, logger, error handling, etc.
type Option func(*options)

// HTTPClient is a client which can make HTTP requests
// An example implementation is net/http.Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WithHTTPClient is an Option to set the HTTP client to use.
// The client's own dialer and transport are used as-is, so the configured
// timeouts are applied as a single deadline of connect plus read timeout.
// This cannot be used with WithTLS.
func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithTLS is an Option to set tls config
// This option cannot be used with WithHTTPClient
func WithTLS(tls *tls.Config) Option {
	return func(o *options) {
		o.tlsCfg = tls
	}
}

// WithUserAgent is an Option to set User-Agent header value
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithHTTPHeaders is an Option to set global HTTP headers for all requests.
// Authorization and Content-Type are always set by the transport.
func WithHTTPHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.httpHeaders = headers
	}
}

// WithLogger sets the logger. Envelope bodies are only logged when the
// logger has debug enabled.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics registers request counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithFailOnFault controls whether a SOAP fault in the response fails the
// call. Defaults to true.
func WithFailOnFault(fail bool) Option {
	return func(o *options) {
		o.failOnFault = fail
	}
}

// WithErrorHandler replaces DefaultErrorHandler for the domain error check.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		o.errorHandler = h
	}
}

// WithNamespacePrefix overrides the payload prefix and namespace base URI
// used by Client.NewRequest.
func WithNamespacePrefix(prefix, baseURI string) Option {
	return func(o *options) {
		o.requestOpts = append(o.requestOpts, WithRequestNamespace(prefix, baseURI))
	}
}

// WithWSSSigningKey signs every request body with WS-Security using key,
// attaching certBlobBase64 as the binary security token.
func WithWSSSigningKey(key *rsa.PrivateKey, certBlobBase64 string) Option {
	return func(o *options) {
		o.wssPrivateKey = key
		o.wssCertBlobB64 = certBlobBase64
	}
}
