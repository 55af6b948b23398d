package format

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/gitrdm/pbcheck/pkg/pbcheck"
)

// Formula is a fully parsed input: every constraint, in file order (the
// order pbcheck.Verifier.LoadFormulaData needs to back the `f`/`l`
// rules' positional references), plus the optional objective.
type Formula struct {
	Constraints []*pbcheck.Inequality
	Objective   *pbcheck.Objective
}

// ParseOPB reads an OPB-format pseudo-Boolean formula: an optional
// comment header, an optional `min: ... ;` objective line, and one
// constraint per remaining non-comment line of the form
// `c1 x1 c2 x2 ... >= D ;` (or `= D ;` for an equality, which is stored
// as two constraints: the ">=" half, then the "<=" half).
func ParseOPB(r io.Reader, reg *pbcheck.VariableRegistry) (*Formula, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	f := &Formula{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "min:" {
			obj, err := parseObjectiveLine(reg, line)
			if err != nil {
				return nil, pbcheck.NewParseError("", lineNo, 0, "%v", err)
			}
			f.Objective = obj
			continue
		}
		ineq, err := parseConstraintLine(reg, fields)
		if err != nil {
			return nil, pbcheck.NewParseError("", lineNo, 0, "%v", err)
		}
		f.Constraints = append(f.Constraints, ineq)
		for _, tok := range fields {
			if tok == ">=" {
				break
			}
			if tok == "=" {
				// An equality also contributes its "<=" half, written as
				// Σ c·¬ℓ >= Σ c - D over the normalized terms.
				terms := ineq.Terms()
				sum := new(big.Int)
				for i := range terms {
					sum.Add(sum, terms[i].Coeff)
					terms[i].Literal = terms[i].Literal.Negate()
				}
				f.Constraints = append(f.Constraints, pbcheck.NewInequality(terms, sum.Sub(sum, ineq.Degree())))
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseObjectiveLine(reg *pbcheck.VariableRegistry, line string) (*pbcheck.Objective, error) {
	body := strings.TrimPrefix(strings.TrimSpace(line), "min:")
	body = strings.TrimSuffix(strings.TrimSpace(body), ";")
	terms, err := parseTermList(reg, strings.Fields(body))
	if err != nil {
		return nil, err
	}
	return pbcheck.NewObjective(terms), nil
}

// parseTermList reads a flat "coeff lit coeff lit ..." token list with
// no trailing relational operator.
func parseTermList(reg *pbcheck.VariableRegistry, fields []string) ([]pbcheck.Term, error) {
	var terms []pbcheck.Term
	for i := 0; i+1 < len(fields); i += 2 {
		coeff, ok := new(big.Int).SetString(fields[i], 10)
		if !ok {
			return nil, fmt.Errorf("expected integer coefficient, got %q", fields[i])
		}
		lit, err := parseOPBLiteral(reg, fields[i+1])
		if err != nil {
			return nil, err
		}
		terms = append(terms, pbcheck.Term{Coeff: coeff, Literal: lit})
	}
	return terms, nil
}

// parseConstraintLine reads a full "coeff lit ... (>=|=) degree ;" line.
func parseConstraintLine(reg *pbcheck.VariableRegistry, fields []string) (*pbcheck.Inequality, error) {
	opIdx := -1
	for i, tok := range fields {
		if tok == ">=" || tok == "=" {
			opIdx = i
			break
		}
	}
	if opIdx < 0 {
		return nil, fmt.Errorf("constraint line has no relational operator: %q", strings.Join(fields, " "))
	}
	terms, err := parseTermList(reg, fields[:opIdx])
	if err != nil {
		return nil, err
	}
	if opIdx+1 >= len(fields) {
		return nil, fmt.Errorf("missing degree")
	}
	degreeTok := strings.TrimSuffix(fields[opIdx+1], ";")
	degree, ok := new(big.Int).SetString(degreeTok, 10)
	if !ok {
		return nil, fmt.Errorf("expected integer degree, got %q", degreeTok)
	}
	return pbcheck.NewInequality(terms, degree), nil
}

func parseOPBLiteral(reg *pbcheck.VariableRegistry, tok string) (pbcheck.Literal, error) {
	negated := false
	if strings.HasPrefix(tok, "~") {
		negated = true
		tok = tok[1:]
	}
	v, err := reg.Lookup(tok)
	if err != nil {
		return 0, err
	}
	return pbcheck.Lit(v, negated), nil
}
