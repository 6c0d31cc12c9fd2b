package openaichat

import (
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"unicode"
)

// maxForwardedTools caps the number of tool definitions sent upstream.
const maxForwardedTools = 64

// excludedToolNames are Anthropic server-side tools that an OpenAI-shaped
// upstream cannot execute. Definitions carrying these names are dropped before
// the tool count limit is applied.
var excludedToolNames = map[string]struct{}{
	"web_search":                  {},
	"computer":                    {},
	"bash":                        {},
	"code_execution":              {},
	"str_replace_editor":          {},
	"str_replace_based_edit_tool": {},
}

var toolNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]{0,63}$`)

// fromTools filters, sanitizes, and renames the inbound tool definitions.
//
// Non-object entries, entries without a name, and entries on the exclusion
// list are dropped; the first 64 survivors (in original order) are forwarded.
// Malformed definitions never abort the request.
func fromTools(toolsField any) []chatTool {
	entries, ok := toolsField.([]any)
	if !ok {
		return nil
	}

	var tools []chatTool
	for _, entry := range entries {
		def, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := def["name"].(string)
		if name == "" {
			continue
		}
		if _, excluded := excludedToolNames[name]; excluded {
			continue
		}
		if len(tools) == maxForwardedTools {
			break
		}

		description, _ := def["description"].(string)
		schema := sanitizeSchema(def["input_schema"])

		tools = append(tools, chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        sanitizeToolName(name),
				Description: description,
				Parameters:  schema,
			},
		})
	}
	return tools
}

// sanitizeToolName normalizes a tool name to the upstream's identifier rules:
// only [A-Za-z0-9_.-], starting with a letter or underscore, at most 64 runes.
func sanitizeToolName(name string) string {
	if toolNamePattern.MatchString(name) {
		return name
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	sanitized := b.String()
	if sanitized == "" {
		sanitized = "tool"
	}
	if c := sanitized[0]; !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
		sanitized = "_" + sanitized
	}
	if len(sanitized) > 64 {
		sanitized = sanitized[:64]
	}
	return sanitized
}

// sanitizeSchema reduces an arbitrary schema value to JSON-representable data.
//
// Keys with non-serializable values are removed, non-serializable array
// elements are dropped, cycles are broken (first occurrence wins, later
// occurrences dropped), and string values that are stringification artifacts
// of non-serializable objects ("[object Object]", "[Object]") are removed on
// the theory that they indicate an upstream serialization bug rather than real
// content. The reserved key "$schema" is deleted afterwards because the
// upstream rejects it. Malformed input never aborts the caller; the worst case
// result is an empty object.
func sanitizeSchema(schema any) any {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("tool schema sanitization failed", "panic", fmt.Sprint(r))
		}
	}()

	sanitized, ok := sanitizeValue(schema, make(map[uintptr]struct{}))
	if !ok {
		return map[string]any{}
	}
	obj, isObject := sanitized.(map[string]any)
	if !isObject {
		return map[string]any{}
	}
	delete(obj, "$schema")
	return obj
}

// stringificationArtifacts are string values produced by serializing a
// non-serializable object upstream of this proxy.
var stringificationArtifacts = map[string]struct{}{
	"[object Object]": {},
	"[Object]":        {},
}

// sanitizeValue walks a JSON-like value and returns its serializable subset.
// The second return value is false when the value itself must be dropped.
// seen tracks container identities across the whole walk: any container
// reachable a second time is treated as absent, which both breaks cycles and
// deduplicates shared sub-objects (first occurrence wins).
func sanitizeValue(v any, seen map[uintptr]struct{}) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case bool, float64, float32, int, int32, int64, uint, uint32, uint64:
		return val, true
	case string:
		if _, artifact := stringificationArtifacts[val]; artifact {
			return nil, false
		}
		return val, true
	case map[string]any:
		ptr := reflect.ValueOf(val).Pointer()
		if _, revisited := seen[ptr]; revisited {
			return nil, false
		}
		seen[ptr] = struct{}{}

		out := make(map[string]any, len(val))
		for key, elem := range val {
			if cleaned, keep := sanitizeValue(elem, seen); keep {
				out[key] = cleaned
			}
		}
		return out, true
	case []any:
		// Empty slices share a backing pointer and cannot form cycles; skip
		// identity tracking for them.
		if len(val) == 0 {
			return []any{}, true
		}
		ptr := reflect.ValueOf(val).Pointer()
		if _, revisited := seen[ptr]; revisited {
			return nil, false
		}
		seen[ptr] = struct{}{}

		out := make([]any, 0, len(val))
		for _, elem := range val {
			if cleaned, keep := sanitizeValue(elem, seen); keep {
				out = append(out, cleaned)
			}
		}
		return out, true
	default:
		// Functions, channels, and other non-JSON values are dropped.
		return nil, false
	}
}
