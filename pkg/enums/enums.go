// Package enums holds the closed string sets shared by storage, pricing and
// the HTTP layer.
package enums

import (
	"fmt"
	"slices"
	"strings"
)

func valid[T ~string](set []T, v T) bool {
	return slices.Contains(set, v)
}

// parse matches value exactly; stored rows and request bodies use the
// canonical spelling.
func parse[T ~string](set []T, kind, value string) (T, error) {
	v := T(strings.TrimSpace(value))
	if valid(set, v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, value)
}
