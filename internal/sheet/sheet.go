// Package sheet stores cells and keeps their values current.
package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"calcsheet/internal/formula"
	"calcsheet/internal/grid"
	"calcsheet/internal/tokenize"
)

var (
	ErrInvalidLabel = errors.New("invalid cell label")
	ErrCellNotFound = errors.New("cell not found")
)

// Sheet owns the cells of one spreadsheet. Every change recalculates the
// sheet so cached values and errors are always up to date.
type Sheet struct {
	mu     sync.Mutex
	memory *Memory
	logger *slog.Logger
}

type Option func(*Sheet)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sheet) {
		s.logger = logger
	}
}

func New(opts ...Option) *Sheet {
	s := &Sheet{
		memory: NewMemory(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores text in the cell and recalculates. Blank text clears the cell.
func (s *Sheet) Set(label, text string) error {
	if !grid.IsValidCellLabel(label) {
		return fmt.Errorf("%q: %w", label, ErrInvalidLabel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store(label, text)
	s.recalculate()
	return nil
}

// Load replaces the whole sheet with cells (label -> text) and recalculates
// once. Cells with invalid labels are skipped and reported.
func (s *Sheet) Load(cells map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memory.reset()
	var errs []error
	for label, text := range cells {
		if !grid.IsValidCellLabel(label) {
			errs = append(errs, fmt.Errorf("%q: %w", label, ErrInvalidLabel))
			continue
		}
		s.store(label, text)
	}
	s.recalculate()
	return errors.Join(errs...)
}

func (s *Sheet) store(label, text string) {
	if strings.TrimSpace(text) == "" {
		s.memory.remove(label)
		return
	}
	s.memory.put(Cell{
		label:   label,
		text:    text,
		formula: tokenize.Tokenize(text),
	})
}

// Clear empties the cell.
func (s *Sheet) Clear(label string) error {
	return s.Set(label, "")
}

// Get returns the cell, or ErrCellNotFound if it was never set.
func (s *Sheet) Get(label string) (Cell, error) {
	if !grid.IsValidCellLabel(label) {
		return Cell{}, fmt.Errorf("%q: %w", label, ErrInvalidLabel)
	}
	c, ok := s.memory.lookup(label)
	if !ok {
		return c, fmt.Errorf("%s: %w", label, ErrCellNotFound)
	}
	return c, nil
}

// Cell returns the cell at 0-based row and col; unset cells are empty.
func (s *Sheet) Cell(row, col int) Cell {
	c, _ := s.memory.lookup(grid.ColRowToName(col, row))
	return c
}

// Cells returns all set cells in row-major order.
func (s *Sheet) Cells() []Cell {
	return s.memory.snapshot()
}

// Texts returns the raw text of every set cell keyed by label.
func (s *Sheet) Texts() map[string]string {
	out := map[string]string{}
	for _, c := range s.memory.snapshot() {
		out[c.label] = c.text
	}
	return out
}

// Bounds returns the number of rows and columns spanned by set cells.
func (s *Sheet) Bounds() (rows, cols int) {
	for _, c := range s.memory.snapshot() {
		r, col, _ := grid.ParseLabel(c.label)
		rows = max(rows, r+1)
		cols = max(cols, col+1)
	}
	return rows, cols
}

// Evaluate evaluates text against the current cells without storing it.
func (s *Sheet) Evaluate(text string) formula.Outcome {
	return formula.Evaluate(s.memory, tokenize.Tokenize(text), formula.WithLogger(s.logger))
}

// Recalculate re-evaluates every cell.
func (s *Sheet) Recalculate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalculate()
}

type visit uint8

const (
	unvisited visit = iota
	visiting
	visited
)

type recalc struct {
	sheet  *Sheet
	state  map[string]visit
	cyclic map[string]bool
}

// recalculate evaluates cells depth first so every reference is fresh
// before the cells that use it. Cells on a cycle are not evaluated.
func (s *Sheet) recalculate() {
	r := &recalc{
		sheet:  s,
		state:  map[string]visit{},
		cyclic: map[string]bool{},
	}
	for _, c := range s.memory.snapshot() {
		r.visit(c.label, nil)
	}
}

func (r *recalc) visit(label string, path []string) {
	switch r.state[label] {
	case visited:
		return
	case visiting:
		i := slices.Index(path, label)
		for _, l := range path[i:] {
			r.cyclic[l] = true
		}
		return
	}

	s := r.sheet
	cell, ok := s.memory.lookup(label)
	if !ok {
		r.state[label] = visited
		return
	}

	r.state[label] = visiting
	path = append(path, label)
	for _, ref := range tokenize.References(cell.formula) {
		r.visit(ref, path)
	}
	r.state[label] = visited

	if r.cyclic[label] {
		s.memory.setResult(label, 0, CycleDetected)
		s.logger.Debug("cell on reference cycle", "cell", label)
		return
	}

	out := formula.Evaluate(s.memory, cell.formula, formula.WithLogger(s.logger))
	s.memory.setResult(label, out.Result, out.Message())
	s.logger.Debug("cell recalculated",
		"cell", label, "formula", cell.formula.String(), "result", out.Result, "error", out.Message())
}
