// Package ingest classifies raw inputs and reconstructs usable tables from
// malformed spreadsheet exports.
//
// The detector inspects the runtime shape of an input value (tabular object,
// XML/JSON string, extracted document text) and is always overridable by a
// caller-supplied format hint. The repairers handle the two failure modes
// seen in the wild: CSV exports collapsed into one quoted column, and Excel
// sheets with decorative or blank rows above the real header. Both are
// best-effort; when no header candidate is found they report failure instead
// of guessing.
package ingest
