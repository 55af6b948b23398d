package pbcheck

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// CheckerConfig bundles the verifier's tunable behavior. cmd/pbcheck
// populates one from kong-parsed CLI flags; tests typically use
// DefaultCheckerConfig with individual fields overridden.
type CheckerConfig struct {
	// FreeFormNames selects the variable registry's naming mode: true
	// accepts arbitrary identifiers, false requires the numeric x<N>
	// form (the default, matching OPB input's x1, x2, ... names).
	FreeFormNames bool

	// StrictCoreOnlyRUP makes RUP checks usable only against core
	// constraints, a stricter (and slower) mode some proof formats
	// opt into; the default follows the common case of allowing RUP to
	// use every attached constraint.
	StrictCoreOnlyRUP bool

	// Warnings receives non-fatal diagnostics instead of aborting the
	// proof, e.g. when a rule's assumptions were not independently
	// justified. A nil sink discards warnings.
	Warnings io.Writer

	// Logger is the structured logger the verifier and cmd/pbcheck both
	// derive component loggers from.
	Logger *logrus.Logger
}

// DefaultCheckerConfig returns the configuration a bare `pbcheck formula
// proof` invocation uses: x<N> variable names, RUP over every
// attached constraint, warnings discarded, logging at Info level to
// stderr (logrus's own default).
func DefaultCheckerConfig() *CheckerConfig {
	return &CheckerConfig{
		FreeFormNames:     false,
		StrictCoreOnlyRUP: false,
		Warnings:          io.Discard,
		Logger:            logrus.StandardLogger(),
	}
}

// Warnf writes a formatted warning to Warnings if one is configured.
func (c *CheckerConfig) Warnf(format string, args ...interface{}) {
	if c.Warnings == nil {
		return
	}
	fmt.Fprintf(c.Warnings, format+"\n", args...)
}
