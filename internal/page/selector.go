package page

import (
	"strings"

	"golang.org/x/net/html"
)

// attrMatch matches a single [name] or [name=value] attribute condition.
type attrMatch struct {
	name  string
	value string
	exact bool
}

// simple matches one element: tag, #id, .classes and [attr] conditions.
type simple struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

// selector is a descendant chain of simple selectors (left to right).
type selector []simple

// parseSelector understands the subset of CSS selectors the widget needs:
// tag, .class, #id, [attr], [attr=value] and descendant combinations.
// Comma lists are handled by callers iterating prioritized selector slices.
func parseSelector(raw string) selector {
	parts := strings.Fields(strings.TrimSpace(raw))
	sel := make(selector, 0, len(parts))
	for _, part := range parts {
		sel = append(sel, parseSimple(part))
	}
	return sel
}

func parseSimple(raw string) simple {
	var s simple
	rest := raw
	for rest != "" {
		switch rest[0] {
		case '.':
			name, tail := readToken(rest[1:])
			if name != "" {
				s.classes = append(s.classes, name)
			}
			rest = tail
		case '#':
			name, tail := readToken(rest[1:])
			s.id = name
			rest = tail
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return s
			}
			body := rest[1:end]
			rest = rest[end+1:]
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				s.attrs = append(s.attrs, attrMatch{
					name:  strings.TrimSpace(body[:eq]),
					value: strings.Trim(strings.TrimSpace(body[eq+1:]), `"'`),
					exact: true,
				})
			} else {
				s.attrs = append(s.attrs, attrMatch{name: strings.TrimSpace(body)})
			}
		default:
			name, tail := readToken(rest)
			s.tag = strings.ToLower(name)
			rest = tail
		}
	}
	return s
}

func readToken(s string) (token, rest string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '#', '[':
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func (s simple) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && s.tag != n.Data {
		return false
	}
	if s.id != "" && attrValue(n, "id") != s.id {
		return false
	}
	if len(s.classes) > 0 {
		have := strings.Fields(attrValue(n, "class"))
		for _, want := range s.classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	for _, am := range s.attrs {
		val, ok := lookupAttr(n, am.name)
		if !ok {
			return false
		}
		if am.exact && val != am.value {
			return false
		}
	}
	return true
}

// matchesChain reports whether n matches the last simple selector and its
// ancestors satisfy the preceding ones in order.
func (sel selector) matchesChain(n *html.Node) bool {
	if len(sel) == 0 {
		return false
	}
	if !sel[len(sel)-1].matches(n) {
		return false
	}
	remaining := sel[:len(sel)-1]
	cur := n.Parent
	for i := len(remaining) - 1; i >= 0; i-- {
		found := false
		for ; cur != nil; cur = cur.Parent {
			if remaining[i].matches(cur) {
				found = true
				cur = cur.Parent
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func attrValue(n *html.Node, name string) string {
	v, _ := lookupAttr(n, name)
	return v
}

func lookupAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
