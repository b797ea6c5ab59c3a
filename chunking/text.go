package chunking

import (
	"fmt"
	"strings"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
)

// ResolveText returns the text carried by an element.
//
// The text field wins when it holds anything; otherwise content is used.
// Lists are flattened by joining their non-empty items with single spaces,
// and other scalars use their string form. The result is trimmed.
func ResolveText(el core.RawElement) string {
	if !isEmpty(el.Text) {
		return strings.TrimSpace(stringify(el.Text))
	}
	return strings.TrimSpace(stringify(el.Content))
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return joinNonEmpty(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringify(item))
		}
		return joinNonEmpty(parts)
	default:
		return fmt.Sprint(t)
	}
}

func joinNonEmpty(items []string) string {
	kept := items[:0:0]
	for _, s := range items {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, " ")
}
