package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckUniqueNumber(t *testing.T) {
	cases := []struct {
		formula string
		flagged bool
		result  float64
	}{
		{"7", false, 7},
		{"( 3 )", false, 0},
		{"( ( 3 ) )", false, 0},
		{"( 3", true, 3},
		{"3 )", true, 3},
		{"3 +", true, 3},
		{"- 3", true, 3},
		{"+ ( 4 ) -", false, 0},
		{"* 4 ) (", true, 4},
		{"3 + 4", false, 0},
		{"3 + A1", false, 0},
		{"A1", false, 0},
		{"( + )", false, 0},
		{"x", false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.formula, func(t *testing.T) {
			p := &parse{formula: tokens(tc.formula)}
			p.checkUniqueNumber()
			if tc.flagged {
				assert.Equal(t, ErrInvalidFormula, p.err)
			} else {
				assert.True(t, p.err.IsZero())
			}
			assert.Equal(t, tc.result, p.result)
		})
	}
}

func TestCheckUniqueNumber_ScansWholeFormula(t *testing.T) {
	p := &parse{formula: tokens("( 3 + )"), pos: 3}
	p.checkUniqueNumber()
	assert.Equal(t, ErrInvalidFormula, p.err)
	assert.Equal(t, 3.0, p.result)
}
