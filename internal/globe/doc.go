// Package globe implements the Pillar Two minimum tax calculations:
// effective tax rate, top-up tax, substance-based income exclusion,
// QDMTT, safe harbours and the IIR/UTPR charging rules. The engine
// operates on canonical records produced by the adapter package and is
// configured through config.GloBEConfig so thresholds and rates can be
// adjusted without code changes.
package globe
