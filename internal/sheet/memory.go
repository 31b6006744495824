package sheet

import (
	"slices"
	"sync"

	"calcsheet/internal/formula"
	"calcsheet/internal/grid"
)

// Memory holds the cells of one sheet and serves them to the evaluator.
type Memory struct {
	mu    sync.RWMutex
	cells map[string]Cell
}

func NewMemory() *Memory {
	return &Memory{cells: map[string]Cell{}}
}

// CellByLabel never fails: a label that was never set yields an empty cell.
func (m *Memory) CellByLabel(label string) formula.Cell {
	c, _ := m.lookup(label)
	return c
}

func (m *Memory) lookup(label string) (Cell, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cells[label]
	if !ok {
		return Cell{label: label}, false
	}
	return c, true
}

func (m *Memory) put(c Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells[c.label] = c
}

func (m *Memory) remove(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cells, label)
}

func (m *Memory) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells = map[string]Cell{}
}

func (m *Memory) setResult(label string, value float64, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cells[label]
	if !ok {
		return
	}
	c.value, c.err = value, msg
	m.cells[label] = c
}

// snapshot returns copies of all cells in row-major order.
func (m *Memory) snapshot() []Cell {
	m.mu.RLock()
	out := make([]Cell, 0, len(m.cells))
	for _, c := range m.cells {
		out = append(out, c)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Cell) int {
		ra, ca, _ := grid.ParseLabel(a.label)
		rb, cb, _ := grid.ParseLabel(b.label)
		if ra != rb {
			return ra - rb
		}
		return ca - cb
	})
	return out
}
