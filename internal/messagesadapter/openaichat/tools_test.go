package openaichat

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestFromTools(t *testing.T) {
	toolsField := []any{
		"not an object",
		map[string]any{"description": "no name"},
		map[string]any{"name": "web_search", "description": "server tool"},
		map[string]any{
			"name":        "get_weather",
			"description": "Current weather for a city",
			"input_schema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"city": map[string]any{"type": "string"},
				},
			},
		},
	}

	tools := fromTools(toolsField)

	if len(tools) != 1 {
		t.Fatalf("Expected 1 forwarded tool, got %d", len(tools))
	}
	tool := tools[0]
	if tool.Type != "function" {
		t.Errorf("Expected type function, got %q", tool.Type)
	}
	if tool.Function.Name != "get_weather" {
		t.Errorf("Expected name get_weather, got %q", tool.Function.Name)
	}
	if tool.Function.Description != "Current weather for a city" {
		t.Errorf("Unexpected description %q", tool.Function.Description)
	}
	schema, ok := tool.Function.Parameters.(map[string]any)
	if !ok {
		t.Fatalf("Expected object schema, got %T", tool.Function.Parameters)
	}
	if schema["type"] != "object" {
		t.Errorf("Expected schema type object, got %v", schema["type"])
	}
}

func TestFromTools_NonListInput(t *testing.T) {
	for _, field := range []any{nil, "tools", map[string]any{"name": "x"}, 42} {
		if tools := fromTools(field); tools != nil {
			t.Errorf("Expected nil for %T input, got %v", field, tools)
		}
	}
}

func TestFromTools_CapAppliesAfterExclusion(t *testing.T) {
	var toolsField []any
	// Excluded entries interleaved with more valid tools than the cap allows.
	toolsField = append(toolsField, map[string]any{"name": "computer"})
	for i := 0; i < maxForwardedTools+5; i++ {
		toolsField = append(toolsField, map[string]any{"name": fmt.Sprintf("tool_%d", i)})
	}

	tools := fromTools(toolsField)

	if len(tools) != maxForwardedTools {
		t.Fatalf("Expected %d tools, got %d", maxForwardedTools, len(tools))
	}
	if tools[0].Function.Name != "tool_0" {
		t.Errorf("Expected first survivor tool_0, got %q", tools[0].Function.Name)
	}
	if last := tools[len(tools)-1].Function.Name; last != fmt.Sprintf("tool_%d", maxForwardedTools-1) {
		t.Errorf("Expected original order preserved, last tool is %q", last)
	}
}

func TestSanitizeToolName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "valid name passes through",
			input:    "get_weather",
			expected: "get_weather",
		},
		{
			name:     "dots and dashes allowed",
			input:    "mcp.server-tool",
			expected: "mcp.server-tool",
		},
		{
			name:     "spaces replaced",
			input:    "my cool tool",
			expected: "my_cool_tool",
		},
		{
			name:     "special characters replaced",
			input:    "tool!@#name",
			expected: "tool___name",
		},
		{
			name:     "leading digit prefixed",
			input:    "9tool",
			expected: "_9tool",
		},
		{
			name:     "non-ascii replaced",
			input:    "héllo",
			expected: "h_llo",
		},
		{
			name:     "empty becomes fallback",
			input:    "",
			expected: "tool",
		},
		{
			name:     "overlong name truncated",
			input:    strings.Repeat("a", 80),
			expected: strings.Repeat("a", 64),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeToolName(tt.input); got != tt.expected {
				t.Errorf("sanitizeToolName(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeSchema(t *testing.T) {
	t.Run("removes reserved schema key", func(t *testing.T) {
		schema := sanitizeSchema(map[string]any{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"type":    "object",
		})
		obj := schema.(map[string]any)
		if _, present := obj["$schema"]; present {
			t.Error("Expected $schema to be removed")
		}
		if obj["type"] != "object" {
			t.Errorf("Expected type to survive, got %v", obj["type"])
		}
	})

	t.Run("non-object input becomes empty object", func(t *testing.T) {
		for _, input := range []any{nil, "string", 42, []any{"list"}} {
			schema := sanitizeSchema(input)
			obj, ok := schema.(map[string]any)
			if !ok || len(obj) != 0 {
				t.Errorf("Expected empty object for %T input, got %v", input, schema)
			}
		}
	})

	t.Run("breaks self cycle", func(t *testing.T) {
		cyclic := map[string]any{"type": "object"}
		cyclic["self"] = cyclic

		schema := sanitizeSchema(cyclic)

		obj := schema.(map[string]any)
		if _, present := obj["self"]; present {
			t.Error("Expected cyclic key to be dropped")
		}
		if obj["type"] != "object" {
			t.Errorf("Expected non-cyclic key to survive, got %v", obj["type"])
		}
	})

	t.Run("shared container kept at first occurrence only", func(t *testing.T) {
		shared := map[string]any{"type": "string"}
		schema := sanitizeSchema(map[string]any{
			"list": []any{shared, shared},
		})

		obj := schema.(map[string]any)
		list := obj["list"].([]any)
		if len(list) != 1 {
			t.Fatalf("Expected second occurrence dropped, got %d elements", len(list))
		}
		if !reflect.DeepEqual(list[0], map[string]any{"type": "string"}) {
			t.Errorf("Unexpected surviving element %v", list[0])
		}
	})

	t.Run("distinct empty arrays both survive", func(t *testing.T) {
		schema := sanitizeSchema(map[string]any{
			"required": []any{},
			"enum":     []any{},
		})

		obj := schema.(map[string]any)
		if len(obj) != 2 {
			t.Fatalf("Expected both empty arrays to survive, got %v", obj)
		}
	})

	t.Run("removes stringification artifacts", func(t *testing.T) {
		schema := sanitizeSchema(map[string]any{
			"description": "[object Object]",
			"title":       "[Object]",
			"type":        "object",
		})

		obj := schema.(map[string]any)
		if _, present := obj["description"]; present {
			t.Error("Expected [object Object] value to be removed")
		}
		if _, present := obj["title"]; present {
			t.Error("Expected [Object] value to be removed")
		}
		if obj["type"] != "object" {
			t.Errorf("Expected regular string to survive, got %v", obj["type"])
		}
	})

	t.Run("drops non-serializable values", func(t *testing.T) {
		schema := sanitizeSchema(map[string]any{
			"type":     "object",
			"callback": func() {},
			"items":    []any{"ok", make(chan int), "also ok"},
		})

		obj := schema.(map[string]any)
		if _, present := obj["callback"]; present {
			t.Error("Expected function value to be dropped")
		}
		items := obj["items"].([]any)
		if !reflect.DeepEqual(items, []any{"ok", "also ok"}) {
			t.Errorf("Expected channel element dropped, got %v", items)
		}
	})
}
