package checklist

import (
	"strings"
	"unicode/utf8"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"\r", "&#xD;",
)

// Escape makes s safe as XML text or attribute content. The five XML
// metacharacters become entities, carriage returns are kept as character
// references so parsers do not fold them, and characters XML 1.0 cannot carry
// at all are dropped.
func Escape(s string) string {
	if strings.IndexFunc(s, invalidXMLRune) >= 0 {
		s = strings.Map(func(r rune) rune {
			if invalidXMLRune(r) {
				return -1
			}
			return r
		}, s)
	}
	return escaper.Replace(s)
}

func invalidXMLRune(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return false
	case r < 0x20:
		return true
	case r == utf8.RuneError:
		return false
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return true
	}
	return false
}
