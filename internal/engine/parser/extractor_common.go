package parser

import (
	"strings"
)

func normalizeRefName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "\n", "")
	value = strings.ReplaceAll(value, "\r", "")
	value = strings.ReplaceAll(value, "\t", "")
	value = strings.ReplaceAll(value, " ", "")
	return value
}

// stripTypeArguments drops generic arguments: Supplier<String> -> Supplier.
func stripTypeArguments(value string) string {
	if idx := strings.Index(value, "<"); idx >= 0 {
		return value[:idx]
	}
	return value
}

// SimpleName returns the last segment of a dotted name.
func SimpleName(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// FirstSegment returns the first segment of a dotted name.
func FirstSegment(name string) string {
	if idx := strings.Index(name, "."); idx >= 0 {
		return name[:idx]
	}
	return name
}
