// Package adapter maps format-specific column names, XML tags, and JSON
// keys onto the canonical financial vocabulary.
//
// Matching is case-insensitive substring matching in both directions against
// a static synonym table; the first match wins and unmatched source columns
// are dropped. Currency-formatted strings are coerced to numbers with
// graceful fallback to zero plus a warning. Every adapted record carries a
// source_format marker so downstream stages can apply format-specific
// fallbacks.
package adapter
