// Package formula evaluates tokenized arithmetic formulas.
//
// Grammar (left associative, no unary operators):
//
//	expression = term { ("+" | "-") term }
//	term       = factor { ("*" | "/") factor }
//	factor     = number | cell | "(" expression ")"
//
// Evaluation produces an Outcome holding a numeric result and an error. The
// two are not exclusive: several failure paths keep the partial result that
// was computed before the problem was detected.
package formula

import (
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"

	"calcsheet/internal/grid"
)

// Formula is an ordered sequence of tokens: numbers, + - * /, parentheses
// and cell labels.
type Formula []string

// String joins the tokens with single spaces.
func (f Formula) String() string {
	return strings.Join(f, " ")
}

// Cell is what the evaluator reads from a referenced cell.
type Cell interface {
	Formula() Formula
	ErrorMessage() string
	Value() float64
}

// CellStore looks cells up by label. Lookups of valid labels never fail;
// unknown cells come back empty.
type CellStore interface {
	CellByLabel(label string) Cell
}

// Outcome is the state left behind by one evaluation.
type Outcome struct {
	Result float64
	Err    Error
}

// Message returns "" on success, otherwise the error message.
func (o Outcome) Message() string {
	if o.Err.IsZero() {
		return ""
	}
	return o.Err.Error()
}

type options struct {
	isLabel func(string) bool
	logger  *slog.Logger
}

// Option configures an evaluation.
type Option func(*options)

// WithLabelValidator replaces the predicate that decides whether a token is
// a cell reference.
func WithLabelValidator(fn func(string) bool) Option {
	return func(o *options) {
		o.isLabel = fn
	}
}

// WithLogger sets the logger used for debug records of failed evaluations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		isLabel: grid.IsValidCellLabel,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Evaluate computes f against cells. All scratch state is local to the
// call, so Evaluate may run concurrently as long as cells allows it.
func Evaluate(cells CellStore, f Formula, opts ...Option) Outcome {
	return evaluate(cells, f, newOptions(opts))
}

// Evaluator keeps the outcome of the last evaluation for callers that read
// result and error separately. It is reusable but not safe for concurrent
// use; use Evaluate for that.
type Evaluator struct {
	cells CellStore
	opts  options
	last  Outcome
}

func New(cells CellStore, opts ...Option) *Evaluator {
	return &Evaluator{
		cells: cells,
		opts:  newOptions(opts),
	}
}

// Evaluate replaces the stored outcome with the outcome of f.
func (e *Evaluator) Evaluate(f Formula) {
	e.last = evaluate(e.cells, f, e.opts)
}

func (e *Evaluator) Result() float64 {
	return e.last.Result
}

// ErrorMessage is "" after a fully successful evaluation.
func (e *Evaluator) ErrorMessage() string {
	return e.last.Message()
}

func (e *Evaluator) Outcome() Outcome {
	return e.last
}

// parse is the per-call state threaded through the grammar functions.
// Grammar functions report hard failures through their error return;
// soft failures are recorded in err and parsing carries on.
type parse struct {
	formula Formula
	pos     int
	result  float64
	err     Error
	cells   CellStore
	isLabel func(string) bool
}

func evaluate(cells CellStore, f Formula, o options) Outcome {
	if len(f) == 0 {
		return Outcome{Err: ErrEmptyFormula}
	}

	p := &parse{
		formula: slices.Clone(f),
		cells:   cells,
		isLabel: o.isLabel,
	}

	value, err := p.expression()
	if err != nil {
		var fe Error
		if !errors.As(err, &fe) || fe.IsZero() {
			fe = ErrInvalidFormula
		}
		p.err = fe
		o.logger.Debug("formula evaluation failed",
			"formula", f.String(), "error", fe.Error(), "result", p.result)
		return Outcome{Result: p.result, Err: p.err}
	}

	p.result = value
	if p.pos < len(p.formula) {
		p.err = ErrInvalidFormula
	}
	return Outcome{Result: p.result, Err: p.err}
}

func (p *parse) atEnd() bool {
	return p.pos >= len(p.formula)
}

func (p *parse) peekIs(ops ...string) bool {
	return !p.atEnd() && slices.Contains(ops, p.formula[p.pos])
}

func (p *parse) next() string {
	tok := p.formula[p.pos]
	p.pos++
	return tok
}

func (p *parse) expression() (float64, error) {
	value, err := p.term()
	if err != nil {
		return value, err
	}
	for p.peekIs("+", "-") {
		op := p.next()
		if p.atEnd() {
			p.err = ErrInvalidFormula
			return value, nil
		}
		right, err := p.term()
		if err != nil {
			return value, err
		}
		if op == "+" {
			value += right
		} else {
			value -= right
		}
	}
	return value, nil
}

func (p *parse) term() (float64, error) {
	value, err := p.factor()
	if err != nil {
		return value, err
	}
	for p.peekIs("*", "/") {
		op := p.next()
		if p.atEnd() {
			p.err = ErrInvalidFormula
			return value, nil
		}
		right, err := p.factor()
		if err != nil {
			return value, err
		}
		if op == "*" {
			value *= right
			continue
		}
		if right == 0 {
			// result must read +Inf alongside divideByZero
			p.result = math.Inf(1)
			return value, ErrDivideByZero
		}
		value /= right
	}
	return value, nil
}

func (p *parse) factor() (float64, error) {
	if p.atEnd() {
		return 0, ErrInvalidFormula
	}

	p.checkUniqueNumber()

	token := p.next()
	if n, ok := ParseNumber(token); ok {
		return n, nil
	}
	if p.isLabel(token) {
		return p.resolve(token)
	}
	if token == "(" {
		value, err := p.expression()
		if err != nil {
			return value, err
		}
		if p.atEnd() || p.next() != ")" {
			return value, ErrMissingParentheses
		}
		return value, nil
	}
	return 0, ErrInvalidFormula
}
