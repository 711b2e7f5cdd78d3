// Package openrouter implements interpretation.Interpreter on the
// OpenAI-compatible chat completions API served by OpenRouter (or any other
// endpoint configured through llm.base_url).
package openrouter
