package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a query. Elements must be JSON-encodable; maps are
// encoded with sorted keys so equal filters hash equally.
type Key []any

// Hash returns the canonical JSON form of k.
func (k Key) Hash() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprintf("%v", []any(k))
	}
	return string(b)
}

// HasPrefix reports whether k starts with prefix, element by element.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if (Key{k[i]}).Hash() != (Key{prefix[i]}).Hash() {
			return false
		}
	}
	return true
}

// Scope returns the first element as a string for metric attributes.
func (k Key) Scope() string {
	if len(k) == 0 {
		return ""
	}
	if s, ok := k[0].(string); ok {
		return s
	}
	return strings.Trim(Key{k[0]}.Hash(), `[]"`)
}
