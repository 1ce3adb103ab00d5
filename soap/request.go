package soap

import (
	"strings"
	"sync"
	"unicode"

	"github.com/beevik/etree"
)

const (
	XmlNsSoapEnv  string = "http://schemas.xmlsoap.org/soap/envelope/"
	soapEnvPrefix string = "SOAP-ENV"

	// NamespaceURIBase is joined with RequestConfig.Namespace to form the
	// payload namespace when the prefix is in use.
	NamespaceURIBase string = "http://www.fivium.co.uk/fox/webservices/ispire/"
	NamespacePrefix  string = "spir"
)

type requestOptions struct {
	prefix  string
	baseURI string
}

// A RequestOption changes how NewRequest lays out the envelope.
type RequestOption func(*requestOptions)

// WithRequestNamespace overrides the payload prefix and namespace base URI.
func WithRequestNamespace(prefix, baseURI string) RequestOption {
	return func(o *requestOptions) {
		o.prefix = prefix
		o.baseURI = baseURI
	}
}

// Request is an outbound SOAP envelope with a single payload element in its
// body. A Request belongs to one goroutine until it is sent; after that it
// is sealed.
type Request struct {
	cfg     RequestConfig
	doc     *etree.Document
	payload *etree.Element

	mu     sync.Mutex
	sealed bool
}

// NewRequest builds an envelope whose body holds cfg.RequestChildName.
func NewRequest(cfg RequestConfig, opt ...RequestOption) *Request {
	opts := requestOptions{prefix: NamespacePrefix, baseURI: NamespaceURIBase}
	for _, o := range opt {
		o(&opts)
	}

	doc := etree.NewDocument()
	env := doc.CreateElement(soapEnvPrefix + ":Envelope")
	env.CreateAttr("xmlns:"+soapEnvPrefix, XmlNsSoapEnv)
	env.CreateElement(soapEnvPrefix + ":Header")
	body := env.CreateElement(soapEnvPrefix + ":Body")

	name := cfg.RequestChildName
	if cfg.UseNamespacePrefix {
		env.CreateAttr("xmlns:"+opts.prefix, opts.baseURI+cfg.Namespace)
		name = opts.prefix + ":" + name
	}

	return &Request{
		cfg:     cfg,
		doc:     doc,
		payload: body.CreateElement(name),
	}
}

// Config returns the RequestConfig the envelope was built from.
func (r *Request) Config() RequestConfig {
	return r.cfg
}

// AddChild adds <childName>childText</childName> to the payload element.
// Blank text is dropped without an element: an absent element only ever
// means the value was blank.
//
// Example:
//
//	<SAR_REF>SAR17371</SAR_REF>
func (r *Request) AddChild(childName, childText string) error {
	if err := checkName(childName); err != nil {
		return err
	}
	if strings.TrimSpace(childText) == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return buildError("request already sent")
	}
	r.payload.CreateElement(childName).SetText(childText)
	return nil
}

// AddChildList adds a list structure holding a single element. Unlike
// AddChild, the child is written even when childText is blank.
//
// Example:
//
//	<OGL_TYPE_LIST>
//	  <OGL_TYPE>
//	    <TYPE>OGL1</TYPE>
//	  </OGL_TYPE>
//	</OGL_TYPE_LIST>
func (r *Request) AddChildList(listName, elementName, childName, childText string) error {
	for _, n := range []string{listName, elementName, childName} {
		if err := checkName(n); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return buildError("request already sent")
	}
	list := r.payload.CreateElement(listName)
	list.CreateElement(elementName).CreateElement(childName).SetText(childText)
	return nil
}

// Bytes serializes the envelope.
func (r *Request) Bytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := r.doc.WriteToBytes()
	if err != nil {
		return nil, newError(KindBuild, "error occurred creating SOAP request", err)
	}
	return b, nil
}

// String returns the serialized envelope, or "" if it cannot be written.
func (r *Request) String() string {
	b, err := r.Bytes()
	if err != nil {
		return ""
	}
	return string(b)
}

// seal marks the request as consumed and returns a private copy of the
// document for the transport to finish (signing, serialization).
func (r *Request) seal() (*etree.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return nil, buildError("request already sent")
	}
	r.sealed = true
	return r.doc.Copy(), nil
}

func checkName(name string) error {
	if name == "" {
		return buildError("element name must not be empty")
	}
	for i, c := range name {
		switch {
		case unicode.IsLetter(c) || c == '_':
		case i > 0 && (unicode.IsDigit(c) || c == '-' || c == '.' || c == ':'):
		default:
			return buildError("invalid element name %q", name)
		}
	}
	return nil
}
