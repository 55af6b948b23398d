package format

import (
	"bufio"
	"io"
	"strings"

	"github.com/gitrdm/pbcheck/pkg/pbcheck"
)

// ProofScanner tokenizes a proof text file into pbcheck.TokenLine values,
// one per non-comment, non-blank line. It is deliberately thin: it knows
// nothing about any particular rule's argument grammar, leaving that to
// pkg/pbcheck's rule catalogue — a clean split between lexing and
// grammar.
type ProofScanner struct {
	scanner *bufio.Scanner
	lineNo  int
	version int
}

// NewProofScanner wraps r. It expects (but does not require) a leading
// "pseudo-Boolean proof version <n>" line, recording the declared
// version for the caller to check against pbcheck.ProofFormatVersion.
func NewProofScanner(r io.Reader) *ProofScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &ProofScanner{scanner: s}
}

// Version returns the proof format version declared by the header line,
// or 0 if none was seen yet (only meaningful after the first
// successful Next call that consumed it).
func (p *ProofScanner) Version() int { return p.version }

// Next reads the next proof step. When the input is exhausted it returns
// a zero TokenLine with ok=false and err=nil, matching bufio.Scanner's
// own "no more, no error" convention rather than returning io.EOF.
func (p *ProofScanner) Next() (pbcheck.TokenLine, bool, error) {
	for p.scanner.Scan() {
		p.lineNo++
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "pseudo-Boolean" {
			if v, ok := parseVersionHeader(fields); ok {
				p.version = v
				continue
			}
		}
		return pbcheck.TokenLine{LineNo: p.lineNo, Rule: fields[0], Args: fields[1:]}, true, nil
	}
	if err := p.scanner.Err(); err != nil {
		return pbcheck.TokenLine{}, false, err
	}
	return pbcheck.TokenLine{}, false, nil
}

func parseVersionHeader(fields []string) (int, bool) {
	// "pseudo-Boolean proof version <n>"
	for i, tok := range fields {
		if tok == "version" && i+1 < len(fields) {
			n := 0
			for _, c := range fields[i+1] {
				if c < '0' || c > '9' {
					return 0, false
				}
				n = n*10 + int(c-'0')
			}
			return n, true
		}
	}
	return 0, false
}
