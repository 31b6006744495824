package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"calcsheet/internal/formula"
)

// CycleDetected is the error stored in cells that take part in a reference
// cycle. Cells referring to them inherit it.
const CycleDetected = "cycleDetected"

// Cell is a snapshot of one sheet cell.
type Cell struct {
	label   string
	text    string
	formula formula.Formula
	value   float64
	err     string
}

func (c Cell) Label() string { return c.label }

// Text is the raw text the cell was set to.
func (c Cell) Text() string { return c.text }

func (c Cell) Formula() formula.Formula { return c.formula }

func (c Cell) Value() float64 { return c.value }

// ErrorMessage is the message left by the last evaluation of the cell.
func (c Cell) ErrorMessage() string { return c.err }

// Display renders the cell for a grid: its value, or a short error code.
func (c Cell) Display() string {
	if c.err != "" {
		return ErrorCode(c.err)
	}
	if len(c.formula) == 0 {
		return ""
	}
	return FormatValue(c.value)
}

// ErrorCode maps an error message to the code shown in place of a value.
func ErrorCode(msg string) string {
	if msg == CycleDetected {
		return "#CYCLE"
	}
	switch formula.ErrorFromMessage(msg).Kind {
	case formula.KindNone:
		return ""
	case formula.KindEmptyFormula:
		return "#EMPTY"
	case formula.KindDivideByZero:
		return "#DIV/0"
	case formula.KindMissingParentheses:
		return "#PAREN"
	case formula.KindInvalidCell:
		return "#REF"
	default:
		return "#ERR"
	}
}

// FormatValue prints integral values without decimals and everything else
// with at most six.
func FormatValue(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return "#ERR"
	}
	if math.Abs(val-math.Round(val)) < 1e-9 {
		r := math.Round(val)
		if r == 0 {
			// no "-0"
			return "0"
		}
		return fmt.Sprintf("%.0f", r)
	}
	s := strconv.FormatFloat(val, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
