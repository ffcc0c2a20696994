// Package pipeline wires the ingestion stages together: format detection,
// repair, adaptation to the canonical record, validation and the Pillar Two
// calculations. Each invocation is independent and touches no shared mutable
// state, so callers may run pipelines concurrently without coordination.
package pipeline
