// Package types provides Anthropic Messages API types for server-side
// request/response handling.
//
// The types are hand-written rather than taken from anthropic-sdk-go:
//
//  1. SERVER-SIDE vs CLIENT-SIDE: The Anthropic SDK is designed for making
//     outbound API calls TO Anthropic. This adapter receives inbound requests
//     FROM clients and translates them to an OpenAI-compatible upstream. The
//     SDK's param.Opt wrappers and union constructors add friction for plain
//     server-side JSON decoding.
//
//  2. TOLERANT DECODING: Inbound payloads are allowed to carry absent or
//     mis-typed messages/system/tools fields, which must degrade to empty
//     sequences instead of failing. Fields with flexible shapes are therefore
//     declared as `any` and coerced during normalization.
//
//  3. STANDARD JSON: These types work with encoding/json directly, with no
//     custom marshaling logic.
package types
