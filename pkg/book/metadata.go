package book

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// renderMetadata renders a payload's opaque metadata as a bullet list.
// The structure is not interpreted; keys are sorted so repeated runs
// produce identical output.
func renderMetadata(metadata map[string]any) string {
	if len(metadata) == 0 {
		return "None.\n"
	}

	var b strings.Builder
	for _, key := range sortedKeys(metadata) {
		fmt.Fprintf(&b, "- `%s`: %s\n", key, renderValue(metadata[key]))
	}
	return b.String()
}

func renderValue(v any) string {
	switch t := v.(type) {
	case map[string]any:
		parts := make([]string, 0, len(t))
		for _, key := range sortedKeys(t) {
			parts = append(parts, fmt.Sprintf("%s: %s", key, renderValue(t[key])))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = renderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		s, err := cast.ToStringE(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return s
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
