package pbcheck

import "strings"

func init() {
	registerRule(rulePolImpl, "pol", "p")
}

// rulePolImpl is kept in its own file, separate from rules_core.go,
// because it is by far the largest single rule: a small reverse-polish
// arithmetic interpreter rather than a one-shot check.
//
// Grammar: a sequence of tokens, each either
//
//   - a bare integer: push the attached constraint with that ID;
//   - "+": pop two, push their sum;
//   - "*" <k>: pop one, push it scaled by non-negative integer k;
//   - "d" <k>: pop one, push it divided by positive integer k (ceiling);
//   - "s": pop one, push its saturation;
//   - "w" <var>: pop one, push it with var's term weakened away;
//   - a bare literal (e.g. "x4" or "~x4"): push the trusted unit axiom
//     "literal >= 1" for that literal, DRAT-style, without requiring a
//     separate `a` line first;
//
// and the final stack top, once every token is consumed, is the
// constraint the `pol` step derives and attaches.
func rulePolImpl(v *Verifier, line TokenLine) error {
	var stack []*Inequality
	pop := func() (*Inequality, error) {
		if len(stack) == 0 {
			return nil, &simpleErr{"pol: operator on empty stack"}
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, nil
	}

	args := line.Args
	for i := 0; i < len(args); i++ {
		tok := strings.TrimSuffix(args[i], ";")
		if tok == "" {
			continue
		}
		switch tok {
		case "+":
			b, err := pop()
			if err != nil {
				return wrapPolErr(line, err)
			}
			a, err := pop()
			if err != nil {
				return wrapPolErr(line, err)
			}
			stack = append(stack, a.Add(b))
		case "*":
			i++
			if i >= len(args) {
				return wrapPolErr(line, &simpleErr{"pol: * missing multiplier"})
			}
			k, err := parseDegree(strings.TrimSuffix(args[i], ";"))
			if err != nil {
				return wrapPolErr(line, err)
			}
			a, err := pop()
			if err != nil {
				return wrapPolErr(line, err)
			}
			res, err := a.Multiply(k)
			if err != nil {
				return wrapPolErr(line, err)
			}
			stack = append(stack, res)
		case "d":
			i++
			if i >= len(args) {
				return wrapPolErr(line, &simpleErr{"pol: d missing divisor"})
			}
			d, err := parseDegree(strings.TrimSuffix(args[i], ";"))
			if err != nil {
				return wrapPolErr(line, err)
			}
			a, err := pop()
			if err != nil {
				return wrapPolErr(line, err)
			}
			res, err := a.Divide(d)
			if err != nil {
				return wrapPolErr(line, err)
			}
			stack = append(stack, res)
		case "s":
			a, err := pop()
			if err != nil {
				return wrapPolErr(line, err)
			}
			stack = append(stack, a.Saturate())
		case "w":
			i++
			if i >= len(args) {
				return wrapPolErr(line, &simpleErr{"pol: w missing variable"})
			}
			vlit, err := parseLiteralToken(v.Registry, strings.TrimSuffix(args[i], ";"))
			if err != nil {
				return wrapPolErr(line, err)
			}
			a, err := pop()
			if err != nil {
				return wrapPolErr(line, err)
			}
			stack = append(stack, a.Weaken(vlit.Var()))
		default:
			id, err := parseConstraintRef(tok)
			if err == nil {
				rec, ok := v.DB.Get(id)
				if !ok {
					return wrapPolErr(line, &simpleErr{"pol: constraint " + tok + " is not attached"})
				}
				stack = append(stack, rec.Ineq)
				continue
			}
			lit, litErr := parseLiteralToken(v.Registry, tok)
			if litErr != nil {
				return wrapPolErr(line, err)
			}
			stack = append(stack, NewInequality([]Term{{Coeff: bigOne, Literal: lit}}, bigOne))
		}
	}

	if len(stack) != 1 {
		return NewInvalidProofError(line.LineNo, line.Rule, "",
			"pol left %d constraints on the stack, expected exactly 1", len(stack))
	}
	v.attach(stack[0], false)
	return nil
}

func wrapPolErr(line TokenLine, err error) error {
	return NewInvalidProofError(line.LineNo, line.Rule, "", "%v", err)
}
