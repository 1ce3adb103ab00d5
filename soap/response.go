package soap

import (
	"errors"

	"github.com/beevik/etree"
)

// ResponseSelector finds the business payload root regardless of its
// namespace.
const ResponseSelector = "//*[local-name()='RESPONSE']"

var responsePath = etree.MustCompilePath(ResponseSelector)

var errNoEnvelope = errors.New("document is not a SOAP envelope")

// Response is a received SOAP envelope. It is read-only: callers must not
// modify the elements it hands out.
type Response struct {
	raw  []byte
	doc  *etree.Document
	body *etree.Element
	call CallResult
}

// NewResponse parses a SOAP envelope. It fails when raw is not XML or does
// not contain an Envelope with a Body.
func NewResponse(raw []byte) (*Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return nil, errNoEnvelope
	}
	var body *etree.Element
	for _, c := range root.ChildElements() {
		if c.Tag == "Body" {
			body = c
			break
		}
	}
	if body == nil {
		return nil, errNoEnvelope
	}
	return &Response{raw: raw, doc: doc, body: body}, nil
}

// Raw returns the bytes the response was parsed from.
func (r *Response) Raw() []byte {
	return r.raw
}

func (r *Response) Document() *etree.Document {
	return r.doc
}

// Body returns the SOAP Body element.
func (r *Response) Body() *etree.Element {
	return r.body
}

// Call returns the record of the HTTP exchange that produced the response.
// It is zero for responses built with NewResponse.
func (r *Response) Call() CallResult {
	return r.call
}

// Fault returns the SOAP fault carried by the body, if any.
func (r *Response) Fault() (*Fault, bool) {
	f := parseFault(r.body)
	return f, f != nil
}

// ElementContent returns the concatenated deep text of every direct child
// of the first RESPONSE element whose qualified tag is name, so "REF" does
// not match <q:REF>. It returns "" when there is no RESPONSE element or no
// such child.
func (r *Response) ElementContent(name string) string {
	var content string
	for _, n := range r.responseChildren() {
		if n.FullTag() == name {
			content += DeepText(n)
		}
	}
	return content
}

// ChildNodesOfList evaluates selector against the body and returns the
// child elements of every match, flattened in document order. The result is
// empty, never nil, when nothing matches.
func (r *Response) ChildNodesOfList(selector string) ([]*etree.Element, error) {
	path, err := etree.CompilePath(selector)
	if err != nil {
		return nil, newError(KindParse, "error occurred parsing SOAP response", err)
	}
	nodes := []*etree.Element{}
	for _, n := range r.body.FindElementsPath(path) {
		nodes = append(nodes, n.ChildElements()...)
	}
	return nodes, nil
}

func (r *Response) responseChildren() []*etree.Element {
	first := r.body.FindElementPath(responsePath)
	if first == nil {
		return nil
	}
	return first.ChildElements()
}
