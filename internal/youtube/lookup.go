package youtube

// lookup descends into JSON-decoded data (map[string]any / []any) by a
// sequence of string keys and int indexes. It returns nil as soon as a
// key is missing, an index is out of bounds, or the current node is not
// a container of the expected kind. It never panics; upstream pages
// drop and move fields constantly and almost every path is optional.
func lookup(root any, path ...any) any {
	cur := root
	for _, step := range path {
		switch key := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur, ok = m[key]
			if !ok {
				return nil
			}
		case int:
			s, ok := cur.([]any)
			if !ok || key < 0 || key >= len(s) {
				return nil
			}
			cur = s[key]
		default:
			return nil
		}
	}
	return cur
}

func lookupString(root any, path ...any) string {
	s, _ := lookup(root, path...).(string)
	return s
}

func lookupMap(root any, path ...any) map[string]any {
	m, _ := lookup(root, path...).(map[string]any)
	return m
}

func lookupSlice(root any, path ...any) []any {
	s, _ := lookup(root, path...).([]any)
	return s
}

func lookupBoolPtr(root any, path ...any) *bool {
	b, ok := lookup(root, path...).(bool)
	if !ok {
		return nil
	}
	return &b
}

func lookupStringPtr(root any, path ...any) *string {
	s, ok := lookup(root, path...).(string)
	if !ok {
		return nil
	}
	return &s
}
