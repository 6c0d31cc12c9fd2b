// Package openaichat adapts Anthropic Messages requests to an OpenAI-compatible
// chat-completions upstream, enabling Anthropic SDK clients to work with any
// OpenAI-shaped provider without code changes.
//
// The adapter handles:
//
//   - Request normalization: System entries are prepended as system messages,
//     content blocks are mapped into the narrower OpenAI content vocabulary
//     (tool_use/tool_result degrade to JSON-serialized text), and images are
//     re-expressed as image_url parts with data-URL synthesis for base64
//     sources.
//
//   - Tool sanitization: Parameter schemas are reduced to JSON-representable
//     data with cycle breaking, tool names are normalized to the upstream's
//     identifier rules, reserved names are dropped, and at most 64 definitions
//     are forwarded.
//
//   - Streaming: Re-frames the upstream's incremental token/tool-call delta
//     stream into ordered Messages content-block events, with at most one open
//     block at a time and strictly increasing block indices.
//
// # Adapters
//
// CreateMessageAdapter: Anthropic CreateMessage → OpenAI ChatCompletion
package openaichat
