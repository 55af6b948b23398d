package format

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/gitrdm/pbcheck/pkg/pbcheck"
)

// ParseCNF reads a DIMACS CNF formula and lifts every clause into its
// pseudo-Boolean equivalent: a clause ℓ1 ∨ ... ∨ ℓk becomes the PB
// constraint Σ ℓᵢ >= 1. The "p cnf nvars nclauses" header is validated
// against what is actually read but otherwise carries no semantic
// weight of its own.
func ParseCNF(r io.Reader, reg *pbcheck.VariableRegistry) (*Formula, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	f := &Formula{}
	lineNo := 0
	declaredClauses := -1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[1] != "cnf" {
				return nil, pbcheck.NewParseError("", lineNo, 0, "malformed DIMACS header %q", line)
			}
			n, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, pbcheck.NewParseError("", lineNo, 0, "malformed clause count in header")
			}
			declaredClauses = n
			continue
		}
		ineq, err := parseClauseLine(reg, line)
		if err != nil {
			return nil, pbcheck.NewParseError("", lineNo, 0, "%v", err)
		}
		if ineq != nil {
			f.Constraints = append(f.Constraints, ineq)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if declaredClauses >= 0 && len(f.Constraints) != declaredClauses {
		return nil, fmt.Errorf("DIMACS header declares %d clauses but %d were read", declaredClauses, len(f.Constraints))
	}
	return f, nil
}

func parseClauseLine(reg *pbcheck.VariableRegistry, line string) (*pbcheck.Inequality, error) {
	fields := strings.Fields(line)
	var terms []pbcheck.Term
	one := big.NewInt(1)
	for _, tok := range fields {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("expected integer literal, got %q", tok)
		}
		if n == 0 {
			break
		}
		negated := n < 0
		if negated {
			n = -n
		}
		v, err := reg.Lookup(fmt.Sprintf("x%d", n))
		if err != nil {
			return nil, err
		}
		terms = append(terms, pbcheck.Term{Coeff: new(big.Int).Set(one), Literal: pbcheck.Lit(v, negated)})
	}
	if len(terms) == 0 {
		return nil, nil
	}
	return pbcheck.NewInequality(terms, big.NewInt(1)), nil
}
