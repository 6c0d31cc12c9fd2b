package openaichat

import (
	"claude-openai-bridge/internal/messagesadapter/types"
)

// fromCreateMessageRequest assembles the upstream request from the inbound
// payload.
//
// Normalization is total: absent or mis-typed messages/system/tools degrade
// to empty sequences, system entries are prepended as system messages, list
// content is mapped item by item, scalar content passes through unchanged,
// and stream is always forced to true. The vision flag is set when any mapped
// item is an image.
func fromCreateMessageRequest(clientReq types.CreateMessageRequest) chatCompletionRequest {
	messages := make([]chatMessage, 0, 8)
	vision := false

	for _, text := range systemEntries(clientReq.System) {
		messages = append(messages, chatMessage{Role: "system", Content: text})
	}

	for _, entry := range listOf(clientReq.Messages) {
		msg, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		role, _ := msg["role"].(string)
		if role == "" {
			role = "user"
		}

		switch content := msg["content"].(type) {
		case []any:
			parts := make([]chatContentPart, 0, len(content))
			for _, rawItem := range content {
				item, ok := rawItem.(map[string]any)
				if !ok {
					continue
				}
				part, isImage := fromContentItem(item)
				vision = vision || isImage
				parts = append(parts, part)
			}
			messages = append(messages, chatMessage{Role: role, Content: parts})
		case nil:
			messages = append(messages, chatMessage{Role: role, Content: ""})
		default:
			// Scalar content passes through unchanged.
			messages = append(messages, chatMessage{Role: role, Content: content})
		}
	}

	return chatCompletionRequest{
		Model:       clientReq.Model,
		Messages:    messages,
		MaxTokens:   clientReq.MaxTokens,
		Temperature: clientReq.Temperature,
		Stream:      true,
		Tools:       fromTools(clientReq.Tools),
		vision:      vision,
	}
}

// systemEntries coerces the system field into its text entries. Both the
// plain-string form and the [{type:"text",text:...}] form are accepted;
// anything else yields no entries.
func systemEntries(system any) []string {
	switch v := system.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		var entries []string
		for _, raw := range v {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := entry["text"].(string); ok && text != "" {
				entries = append(entries, text)
			}
		}
		return entries
	default:
		return nil
	}
}

// listOf coerces a tolerant `any` field into a list, defaulting to empty.
func listOf(v any) []any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	return list
}
