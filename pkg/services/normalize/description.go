package normalize

import (
	"html"
	"sort"
	"strings"

	"github.com/softservesoftware/stig-bee/pkg/xmltree"
)

const vulnDiscussion = "VulnDiscussion"

// description resolves the polymorphic Rule/description field:
//
//   - a string is used as is, unless it embeds markup, in which case the
//     content of its VulnDiscussion element wins;
//   - an element with a VulnDiscussion child yields that child's text;
//   - an element with only text yields the text;
//   - anything else yields "".
func description(v any) string {
	switch t := v.(type) {
	case string:
		if !hasMarkup(t) {
			return t
		}
		if vd, ok := embeddedDiscussion(t); ok {
			return vd
		}
		return t
	case xmltree.Node:
		if vd, ok := findElement(t, vulnDiscussion); ok {
			return flatten(vd)
		}
		return xmltree.Text(t)
	case []any:
		if len(t) == 0 {
			return ""
		}
		return description(t[0])
	default:
		return ""
	}
}

// hasMarkup reports whether s contains a tag opening: '<' followed by a letter.
func hasMarkup(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '<' {
			continue
		}
		c := s[i+1]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			return true
		}
	}
	return false
}

// findElement searches breadth first for the named element, so a direct
// child wins over a nested one.
func findElement(v any, name string) (any, bool) {
	queue := []any{v}
	for len(queue) > 0 {
		n, ok := queue[0].(xmltree.Node)
		queue = queue[1:]
		if !ok {
			continue
		}
		if found, ok := n[name]; ok {
			return first(found), true
		}

		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			queue = append(queue, xmltree.AsSlice(n[k])...)
		}
	}
	return nil, false
}

// embeddedDiscussion extracts VulnDiscussion from markup carried in a string.
// The literal span is taken verbatim so inline placeholders like <blank> and
// stray '<' in prose survive; the lenient token scan only covers spellings
// the literal cut cannot find, such as a prefixed tag.
func embeddedDiscussion(s string) (string, bool) {
	if inner, ok := cutElement(s, vulnDiscussion); ok {
		return html.UnescapeString(inner), true
	}
	text, ok, err := xmltree.ElementText(s, vulnDiscussion)
	if err != nil || !ok {
		return "", false
	}
	return text, true
}

// cutElement returns the raw text between the first <name> (attributes
// allowed) and the following </name>.
func cutElement(s, name string) (string, bool) {
	open, closing := "<"+name, "</"+name+">"
	for from := 0; ; {
		i := strings.Index(s[from:], open)
		if i < 0 {
			return "", false
		}
		i += from + len(open)
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case '>':
			inner, _, ok := strings.Cut(s[i+1:], closing)
			return inner, ok
		case ' ', '\t', '\n', '\r', '/':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return "", false
			}
			if s[i+end-1] == '/' {
				return "", true
			}
			inner, _, ok := strings.Cut(s[i+end+1:], closing)
			return inner, ok
		}
		from = i
	}
}

// flatten joins the text of an element and its descendants. The tree does not
// keep the interleaving of mixed content, so parts are joined with a space.
func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if p := strings.TrimSpace(flatten(e)); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, " ")
	case xmltree.Node:
		keys := make([]string, 0, len(t))
		for k := range t {
			if k != xmltree.TextKey && !strings.HasPrefix(k, xmltree.AttrPrefix) {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return xmltree.Text(t)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys)+1)
		if text := strings.TrimSpace(xmltree.Text(t)); text != "" {
			parts = append(parts, text)
		}
		for _, k := range keys {
			if p := strings.TrimSpace(flatten(t[k])); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
