package soap

// Parser turns a checked response into the caller's result type.
type Parser[T any] interface {
	ParseResponse(resp *Response) (T, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc[T any] func(resp *Response) (T, error)

func (f ParserFunc[T]) ParseResponse(resp *Response) (T, error) {
	return f(resp)
}

// ReferenceParser returns the content of a single response element, such
// as SAR_REF in
//
//	<RESPONSE><SAR_REF>SAR1</SAR_REF></RESPONSE>
type ReferenceParser struct {
	ElementName string
}

func NewReferenceParser(elementName string) ReferenceParser {
	return ReferenceParser{ElementName: elementName}
}

func (p ReferenceParser) ParseResponse(resp *Response) (string, error) {
	return resp.ElementContent(p.ElementName), nil
}
