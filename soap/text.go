package soap

import (
	"strings"

	"github.com/beevik/etree"
)

// DeepText concatenates the character data beneath e in document order.
// Text and CDATA sections contribute, comments and processing instructions
// do not, and child elements are walked recursively.
func DeepText(e *etree.Element) string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	writeText(&sb, e)
	return sb.String()
}

func writeText(sb *strings.Builder, e *etree.Element) {
	for _, t := range e.Child {
		switch c := t.(type) {
		case *etree.CharData:
			sb.WriteString(c.Data)
		case *etree.Element:
			writeText(sb, c)
		}
	}
}

// NodeText returns the deep text of the first element named name at or
// below node. The second result is false when there is no such element.
func NodeText(node *etree.Element, name string) (string, bool) {
	found := findFirst(node, name)
	if found == nil {
		return "", false
	}
	return DeepText(found), true
}

// ChildrenOfChild returns the child elements of node's first direct child
// named name. It never returns nil.
func ChildrenOfChild(node *etree.Element, name string) []*etree.Element {
	if node == nil {
		return []*etree.Element{}
	}
	for _, c := range node.ChildElements() {
		if tagMatches(c, name) {
			return childElements(c)
		}
	}
	return []*etree.Element{}
}

func findFirst(e *etree.Element, name string) *etree.Element {
	if e == nil {
		return nil
	}
	if tagMatches(e, name) {
		return e
	}
	for _, c := range e.ChildElements() {
		if found := findFirst(c, name); found != nil {
			return found
		}
	}
	return nil
}

// tagMatches compares against the qualified tag, or the local tag when name
// carries no prefix.
func tagMatches(e *etree.Element, name string) bool {
	if e.FullTag() == name {
		return true
	}
	return !strings.Contains(name, ":") && e.Tag == name
}

func childElements(e *etree.Element) []*etree.Element {
	if kids := e.ChildElements(); kids != nil {
		return kids
	}
	return []*etree.Element{}
}
