// Package llm wraps the chat completion API used for dialogue generation,
// structured intake extraction, lesson script generation, and QA analysis.
//
// Two completion modes are exposed: CompleteJSON for calls whose response
// contract is a JSON object, and CompleteText for the section-delimited
// lesson script format. DecodeJSON tolerates the fenced-code-block wrapping
// some models emit around JSON payloads.
package llm
