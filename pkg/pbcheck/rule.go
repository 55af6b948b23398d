package pbcheck

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenLine is one already-lexed proof step: a line number (for error
// messages), the rule identifier token, and every token that followed
// it, unsplit from punctuation like ";" and ">=" which arrive as their
// own tokens. pkg/pbcheck never tokenizes text itself; pkg/format's
// ProofScanner produces TokenLines and the caller (cmd/pbcheck, or a
// test) feeds them to Verifier.Step.
type TokenLine struct {
	LineNo int
	Rule   string
	Args   []string
}

// RuleFunc implements one proof rule: given the verifier state and the
// line's arguments, it performs whatever database/propagation/sub-context
// mutation the rule specifies and returns an error if the step is
// malformed or fails its proof obligation. Most rules additionally
// attach a newly derived constraint themselves (via v.attach) rather
// than returning one, since some rules attach zero, one, or many
// (the `e`/`i` equality/implication checks attach nothing; `j` and `pol`
// attach exactly one; future multi-constraint rules could attach several).
type RuleFunc func(v *Verifier, line TokenLine) error

var ruleTable = map[string]RuleFunc{}

// registerRule adds fn under every alias in names; rules_*.go files call
// this from a package-level init() so the catalogue is assembled before
// any Verifier is constructed.
func registerRule(fn RuleFunc, names ...string) {
	for _, n := range names {
		ruleTable[n] = fn
	}
}

// defaultAllowedRules returns a fresh allow-all set sized to the current
// catalogue, the starting point for a sub-context's allowedRules
// override.
func defaultAllowedRules() map[string]bool {
	out := make(map[string]bool, len(ruleTable))
	for name := range ruleTable {
		out[name] = true
	}
	return out
}

// --- shared argument-parsing helpers for the rule catalogue ---

// parseDegree parses a bare integer token as a constraint degree or
// RHS bound.
func parseDegree(tok string) (*bigInt, error) {
	n, ok := new(bigInt).SetString(tok, 10)
	if !ok {
		return nil, fmt.Errorf("expected integer, got %q", tok)
	}
	return n, nil
}

// parseLiteralToken resolves a surface literal token (e.g. "x4", "~x4",
// a free-form name, or "~name") against reg.
func parseLiteralToken(reg *VariableRegistry, tok string) (Literal, error) {
	negated := false
	if strings.HasPrefix(tok, "~") {
		negated = true
		tok = tok[1:]
	}
	v, err := reg.Lookup(tok)
	if err != nil {
		return 0, err
	}
	return Lit(v, negated), nil
}

// parseSum reads a whitespace-tokenized "coeff lit coeff lit ... >= degree"
// sequence (the `;`-terminated constraint-body grammar OPB-style proof
// lines use) starting at args[0], stopping at the ">="
// token. It returns the parsed terms, the degree, and the index just
// past the trailing ";" (or just past the degree if no ";" follows it).
func parseSum(reg *VariableRegistry, args []string) ([]Term, *bigInt, int, error) {
	var terms []Term
	i := 0
	for i < len(args) && args[i] != ">=" {
		coeffTok := args[i]
		if coeffTok == "" {
			return nil, nil, 0, fmt.Errorf("empty coefficient token")
		}
		coeff, ok := new(bigInt).SetString(coeffTok, 10)
		if !ok {
			return nil, nil, 0, fmt.Errorf("expected integer coefficient, got %q", coeffTok)
		}
		i++
		if i >= len(args) {
			return nil, nil, 0, fmt.Errorf("missing literal after coefficient %q", coeffTok)
		}
		lit, err := parseLiteralToken(reg, args[i])
		if err != nil {
			return nil, nil, 0, err
		}
		terms = append(terms, Term{Coeff: coeff, Literal: lit})
		i++
	}
	if i >= len(args) || args[i] != ">=" {
		return nil, nil, 0, fmt.Errorf("expected >=, got end of line")
	}
	i++
	if i >= len(args) {
		return nil, nil, 0, fmt.Errorf("missing degree after >=")
	}
	degree, err := parseDegree(strings.TrimSuffix(args[i], ";"))
	if err != nil {
		return nil, nil, 0, err
	}
	i++
	if i < len(args) && args[i] == ";" {
		i++
	}
	return terms, degree, i, nil
}

// parseConstraintRef parses a bare integer constraint ID token, used by
// rules that name antecedents directly (`pol`'s stack-free operand
// form, `del`'s ID list, and so on).
func parseConstraintRef(tok string) (ConstraintID, error) {
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected constraint id, got %q", tok)
	}
	return ConstraintID(n), nil
}
