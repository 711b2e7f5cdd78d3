// Package interpretation is the boundary between a drawn reading and the
// language model that interprets it.
//
// BuildPrompt turns a deck, spread, drawn cards and question into an ordered
// list of role-tagged messages. An Interpreter sends those messages to a
// provider (see internal/platform/gemini and internal/platform/openrouter) and
// returns plain text. Every failure can be turned into a displayable sentence
// with UserMessage, so a reading stays usable when interpretation fails.
package interpretation
