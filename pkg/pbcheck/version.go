package pbcheck

// Version is the checker's semantic version, bumped on release. It is
// surfaced by `pbcheck --version`.
const Version = "0.1.0"

// ProofFormatVersion is the highest proof-text format revision this
// build understands; cmd/pbcheck rejects a proof declaring a newer
// version with the unimplemented-rule exit code rather than silently
// mis-parsing it.
const ProofFormatVersion = 2
