package openaichat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Placeholder texts emitted when an image item cannot be forwarded upstream.
const (
	placeholderImageMissing     = "[Image could not be located in the request]"
	placeholderImageLocalFile   = "[Local file images cannot be forwarded to the upstream provider]"
	placeholderImageUnsupported = "[Unsupported image format]"
)

// fromContentItem maps one inbound content item to upstream shape.
//
// Image items follow the URL extraction rules documented on imageURLFromItem;
// everything else (tool_use, tool_result, unknown types) degrades to a text
// part whose body is the JSON-serialized structured payload, the item's plain
// text, or an empty string. The second return value reports whether the part
// is an image, so the caller can request vision capability before dispatch.
func fromContentItem(item map[string]any) (chatContentPart, bool) {
	itemType, _ := item["type"].(string)

	switch itemType {
	case "text":
		text, _ := item["text"].(string)
		return chatContentPart{Type: "text", Text: text}, false

	case "image":
		return fromImageItem(item)

	case "tool_use":
		return chatContentPart{Type: "text", Text: stringifyPayload(item["input"], item)}, false

	case "tool_result":
		return chatContentPart{Type: "text", Text: stringifyPayload(item["content"], item)}, false

	default:
		return chatContentPart{Type: "text", Text: stringifyPayload(nil, item)}, false
	}
}

// fromImageItem applies the image mapping rules in priority order: no URL →
// placeholder, file:// → placeholder, data:/http(s) → image part with auto
// detail, any other scheme → placeholder.
func fromImageItem(item map[string]any) (chatContentPart, bool) {
	url := imageURLFromItem(item)
	if url == "" {
		return chatContentPart{Type: "text", Text: placeholderImageMissing}, false
	}

	switch {
	case strings.HasPrefix(url, "file://"):
		return chatContentPart{Type: "text", Text: placeholderImageLocalFile}, false
	case strings.HasPrefix(url, "data:"), strings.HasPrefix(url, "http"):
		return chatContentPart{
			Type:     "image_url",
			ImageURL: &chatImageURL{URL: url, Detail: "auto"},
		}, true
	default:
		return chatContentPart{Type: "text", Text: placeholderImageUnsupported}, false
	}
}

// imageURLFromItem extracts an image URL from the supported source shapes:
// a Claude-style source object (base64 → synthesized data URL, other data
// used verbatim), an image_url.url field, or a bare url field.
func imageURLFromItem(item map[string]any) string {
	if source, ok := item["source"].(map[string]any); ok {
		data, _ := source["data"].(string)
		if sourceType, _ := source["type"].(string); sourceType == "base64" {
			mediaType, _ := source["media_type"].(string)
			if data != "" {
				return fmt.Sprintf("data:%s;base64,%s", mediaType, data)
			}
		}
		if data != "" {
			return data
		}
		if url, ok := source["url"].(string); ok && url != "" {
			return url
		}
	}

	if imageURL, ok := item["image_url"].(map[string]any); ok {
		if url, ok := imageURL["url"].(string); ok && url != "" {
			return url
		}
	}

	if url, ok := item["url"].(string); ok {
		return url
	}

	return ""
}

// stringifyPayload JSON-serializes the item's structured payload. When the
// payload is absent it falls back to the item's plain text field, then to an
// empty string. The original structured field is dropped either way.
func stringifyPayload(payload any, item map[string]any) string {
	if payload != nil {
		if encoded, err := json.Marshal(payload); err == nil {
			return string(encoded)
		}
	}
	if text, ok := item["text"].(string); ok {
		return text
	}
	return ""
}
