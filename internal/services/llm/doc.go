// Package llm provides an OpenAI-compatible chat-completions client used by
// the estimation and cleanup stages.
//
// This package is used by:
//   - Estimate stage: send the guardrail system prompt plus the assembled
//     transcript/pricing/scan prompt and collect the model's estimate text
//   - Cleanup stage: optional JSON-mode duplicate merging of line items
//   - check command: verify API key and model availability
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send system/user prompts, receive free-form text.
// Client.CompleteJSON: same, with response_format json_object.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: tolerant JSON decoding for model output.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, network timeouts and empty
// completions with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default). A Retry-After header overrides the computed delay. Context
// cancellation aborts retries immediately.
package llm
