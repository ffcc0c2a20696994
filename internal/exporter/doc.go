// Package exporter writes analysis results to disk.
//
// Three writers are provided:
//
// CSVWriter: entity-level results and jurisdiction summaries as CSV, with an
// optional UTF-8 BOM for Excel compatibility.
//
// ExcelWriter: a multi-sheet workbook with entity results, jurisdiction
// rollups and the consolidated group summary.
//
// GIRWriter: a GloBE Information Return style XML document suitable as a
// starting point for filing preparation.
package exporter
