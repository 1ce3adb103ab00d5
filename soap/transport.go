package soap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SOAPMIMEType is sent as the request Content-Type.
const SOAPMIMEType = "text/xml; charset=UTF-8"

const (
	infoConnect = "error occurred establishing connection with SOAP client"
	infoEmpty   = "Empty response from SOAP client"
)

// Transport posts sealed requests to the endpoint and returns the parsed
// reply. It holds no mutable state and may be shared between goroutines.
type Transport struct {
	cfg     ClientConfig
	opts    *options
	client  HTTPClient
	bounded bool
	signer  *wssSigner
	logger  *slog.Logger
}

// NewTransport creates a transport for cfg. Zero timeouts take their
// defaults.
func NewTransport(cfg ClientConfig, opt ...Option) *Transport {
	opts := defaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	return newTransport(cfg, &opts)
}

func newTransport(cfg ClientConfig, opts *options) *Transport {
	cfg = cfg.withDefaults()
	t := &Transport{
		cfg:    cfg,
		opts:   opts,
		client: opts.client,
		logger: opts.logger,
	}
	if t.client == nil {
		t.client = makeDefaultClient(cfg, opts)
	} else {
		t.bounded = true
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if opts.wssPrivateKey != nil {
		t.signer = &wssSigner{key: opts.wssPrivateKey, certB64: opts.wssCertBlobB64}
	}
	return t
}

// URL returns the endpoint a request in namespace is posted to.
func (t *Transport) URL(namespace string) string {
	return requestURL(t.cfg.URL, namespace)
}

func requestURL(base, suffix string) string {
	if strings.HasSuffix(base, "/") {
		return base + suffix
	}
	return base + "/" + suffix
}

// Send seals req, posts it and parses the reply. It does not look at faults
// or error markers; that is left to the caller's ErrorHandler.
func (t *Transport) Send(ctx context.Context, req *Request) (*Response, error) {
	doc, err := req.seal()
	if err != nil {
		return nil, err
	}
	if t.signer != nil {
		if err := t.signer.sign(doc); err != nil {
			return nil, newError(KindBuild, "error occurred signing SOAP request", err)
		}
	}
	reqBody, err := doc.WriteToBytes()
	if err != nil {
		return nil, newError(KindBuild, "error occurred creating SOAP request", err)
	}

	url := t.URL(req.cfg.Namespace)
	corrID := correlationIDFor(ctx)
	log := t.logger.With(
		slog.String("url", url),
		slog.String("namespace", req.cfg.Namespace),
		slog.String("correlation_id", corrID))

	if t.bounded {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.ConnectTimeout+t.cfg.ReadTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, newError(KindTransport, infoConnect, err)
	}
	for k, v := range t.opts.httpHeaders {
		httpReq.Header.Set(k, v)
	}
	httpReq.SetBasicAuth(t.cfg.Username, t.cfg.Password)
	httpReq.Header.Set("Content-Type", SOAPMIMEType)
	httpReq.Header.Set("User-Agent", t.opts.userAgent)
	httpReq.Header.Set(CorrelationHeader, corrID)

	result := CallResult{
		RequestURL:    url,
		CorrelationID: corrID,
		RequestContent: CallContent{
			Header: redactHeader(httpReq.Header),
			Body:   string(reqBody),
		},
	}

	log.InfoContext(ctx, "sending SOAP request")
	t.logBody(ctx, log, "SOAP request body", reqBody)

	result.InvokeAt = time.Now()
	res, err := t.client.Do(httpReq)
	if err != nil {
		return nil, newError(KindTransport, infoConnect, err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	result.ReturnAt = time.Now()
	if err != nil {
		return nil, newError(KindTransport, infoConnect, err)
	}
	result.StatusCode = res.StatusCode
	result.ResponseContent = CallContent{
		Header: res.Header.Clone(),
		Body:   string(respBody),
	}

	log.InfoContext(ctx, "SOAP response received",
		slog.Int("status", res.StatusCode),
		slog.Duration("elapsed", result.Elapsed()))
	t.logBody(ctx, log, "SOAP response body", respBody)

	if echoed := res.Header.Get(CorrelationHeader); echoed != "" && echoed != corrID {
		log.WarnContext(ctx, "correlation id on response does not match request",
			slog.String("received", echoed))
	}

	var httpErr error
	if res.StatusCode >= 400 {
		httpErr = &HTTPError{StatusCode: res.StatusCode, ResponseBody: respBody}
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, newError(KindEmptyResponse, infoEmpty, httpErr)
	}
	resp, err := NewResponse(respBody)
	if err != nil {
		if httpErr == nil {
			httpErr = err
		}
		return nil, newError(KindEmptyResponse, infoEmpty, httpErr)
	}
	result.DecodedAt = time.Now()
	resp.call = result
	return resp, nil
}

func (t *Transport) logBody(ctx context.Context, log *slog.Logger, msg string, body []byte) {
	if !t.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	log.DebugContext(ctx, msg, slog.String("body", string(body)))
}
