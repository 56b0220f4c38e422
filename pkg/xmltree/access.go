package xmltree

// AsSlice coerces a child value to a list. The codec stores a single child as
// a scalar, so every repeatable field must pass through here before use.
func AsSlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// Text returns the text of a leaf value or the TextKey of an element.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case Node:
		s, _ := t[TextKey].(string)
		return s
	default:
		return ""
	}
}

// Child returns the named child of an element, or nil.
func Child(v any, name string) any {
	n, ok := v.(Node)
	if !ok {
		return nil
	}
	return n[name]
}

// Attr returns the named attribute of an element, or "".
func Attr(v any, name string) string {
	n, ok := v.(Node)
	if !ok {
		return ""
	}
	s, _ := n[AttrPrefix+name].(string)
	return s
}

// Path walks nested single children. A list along the way is not descended.
func Path(v any, names ...string) any {
	for _, name := range names {
		v = Child(v, name)
		if v == nil {
			return nil
		}
	}
	return v
}

// Has reports whether the element has a child or attribute under key.
func Has(v any, key string) bool {
	n, ok := v.(Node)
	if !ok {
		return false
	}
	_, ok = n[key]
	return ok
}
