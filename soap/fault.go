package soap

import (
	"strings"

	"github.com/beevik/etree"
)

const nullFault = "NULL"

// Fault is a SOAP fault found directly under the response body. Both the
// SOAP 1.1 (faultcode/faultstring) and SOAP 1.2 (Code/Reason) shapes are
// read.
type Fault struct {
	Code   string
	String string
	Actor  string
	Detail string
}

func (f *Fault) Error() string {
	if strings.TrimSpace(f.String) == "" {
		return nullFault
	}
	return f.String
}

func parseFault(body *etree.Element) *Fault {
	if body == nil {
		return nil
	}
	var el *etree.Element
	for _, c := range body.ChildElements() {
		if c.Tag == "Fault" {
			el = c
			break
		}
	}
	if el == nil {
		return nil
	}

	f := &Fault{}
	for _, c := range el.ChildElements() {
		switch c.Tag {
		case "faultcode":
			f.Code = strings.TrimSpace(DeepText(c))
		case "Code":
			if v, ok := NodeText(c, "Value"); ok {
				f.Code = strings.TrimSpace(v)
			}
		case "faultstring":
			f.String = DeepText(c)
		case "Reason":
			if v, ok := NodeText(c, "Text"); ok {
				f.String = v
			}
		case "faultactor", "Role":
			f.Actor = DeepText(c)
		case "detail", "Detail":
			f.Detail = DeepText(c)
		}
	}
	return f
}
