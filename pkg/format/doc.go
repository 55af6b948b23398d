// Package format reads the two text formats pbcheck consumes: OPB/CNF
// input formulas and the cutting-planes proof text that references
// them. Everything here is pure parsing — it builds pbcheck.Inequality,
// pbcheck.Objective, and pbcheck.TokenLine values but never itself
// decides whether a proof step is valid; that is pkg/pbcheck's job.
package format
