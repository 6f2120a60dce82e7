package document

import "strings"

// Extract collects, depth-first, the value of every object key whose
// lowercase form contains the lowercase term. A matching value is appended
// before its own children are visited, and containers are descended into
// whether or not their key matched. ok is false when nothing matched.
func Extract(v Value, term string) (found []Value, ok bool) {
	needle := strings.ToLower(term)
	found = walk(v, needle, nil)
	return found, len(found) > 0
}

func walk(v Value, needle string, found []Value) []Value {
	switch v.kind {
	case Object:
		for _, f := range v.fields {
			if strings.Contains(strings.ToLower(f.Key), needle) {
				found = append(found, f.Value)
			}
			if f.Value.IsContainer() {
				found = walk(f.Value, needle, found)
			}
		}
	case Array:
		for _, item := range v.items {
			if item.IsContainer() {
				found = walk(item, needle, found)
			}
		}
	}
	return found
}
