package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/pbcheck/pkg/pbcheck"
)

func TestParseOPBBasicFormula(t *testing.T) {
	src := `* a tiny formula
1 x1 1 x2 >= 1 ;
1 ~x1 1 ~x2 >= 1 ;
`
	reg := pbcheck.NewVariableRegistry(false)
	f, err := ParseOPB(strings.NewReader(src), reg)
	require.NoError(t, err)
	require.Len(t, f.Constraints, 2)
	require.Nil(t, f.Objective)
}

func TestParseOPBObjective(t *testing.T) {
	src := `min: 2 x1 1 x2 ;
1 x1 1 x2 >= 1 ;
`
	reg := pbcheck.NewVariableRegistry(false)
	f, err := ParseOPB(strings.NewReader(src), reg)
	require.NoError(t, err)
	require.NotNil(t, f.Objective)
	require.Len(t, f.Constraints, 1)
}

func TestParseOPBRejectsMissingOperator(t *testing.T) {
	src := "1 x1 1 x2 1 ;\n"
	reg := pbcheck.NewVariableRegistry(false)
	_, err := ParseOPB(strings.NewReader(src), reg)
	require.Error(t, err)
}

func TestParseCNFLiftsClausesToUnitPB(t *testing.T) {
	src := `c a tiny cnf
p cnf 2 2
1 2 0
-1 -2 0
`
	reg := pbcheck.NewVariableRegistry(false)
	f, err := ParseCNF(strings.NewReader(src), reg)
	require.NoError(t, err)
	require.Len(t, f.Constraints, 2)
	for _, c := range f.Constraints {
		require.Equal(t, int64(1), c.Degree().Int64())
	}
}

func TestParseCNFRejectsClauseCountMismatch(t *testing.T) {
	src := "p cnf 2 2\n1 2 0\n"
	reg := pbcheck.NewVariableRegistry(false)
	_, err := ParseCNF(strings.NewReader(src), reg)
	require.Error(t, err)
}
