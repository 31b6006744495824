package sheet

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcsheet/internal/formula"
	"calcsheet/internal/tokenize"
)

func newTestSheet(t *testing.T, cells map[string]string) *Sheet {
	t.Helper()
	s := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, s.Load(cells))
	return s
}

func mustGet(t *testing.T, s *Sheet, label string) Cell {
	t.Helper()
	c, err := s.Get(label)
	require.NoError(t, err)
	return c
}

func TestSheet_Set(t *testing.T) {
	t.Run("numbers and references", func(t *testing.T) {
		s := newTestSheet(t, nil)
		require.NoError(t, s.Set("A1", "5"))
		require.NoError(t, s.Set("A2", "=A1*2"))

		a2 := mustGet(t, s, "A2")
		assert.Equal(t, 10.0, a2.Value())
		assert.Equal(t, "", a2.ErrorMessage())
		assert.Equal(t, "=A1*2", a2.Text())
		assert.Equal(t, "10", a2.Display())
	})

	t.Run("updates flow to dependants", func(t *testing.T) {
		s := newTestSheet(t, map[string]string{"A1": "5", "A2": "=A1*2", "A3": "=A2+A1"})
		require.NoError(t, s.Set("A1", "7"))

		assert.Equal(t, 14.0, mustGet(t, s, "A2").Value())
		assert.Equal(t, 21.0, mustGet(t, s, "A3").Value())
	})

	t.Run("references are evaluated first regardless of label order", func(t *testing.T) {
		s := newTestSheet(t, map[string]string{"A1": "=Z9+1", "Z9": "=B3*2", "B3": "4"})
		assert.Equal(t, 9.0, mustGet(t, s, "A1").Value())
	})

	t.Run("invalid label", func(t *testing.T) {
		s := newTestSheet(t, nil)
		assert.ErrorIs(t, s.Set("a1", "1"), ErrInvalidLabel)
		assert.ErrorIs(t, s.Set("A0", "1"), ErrInvalidLabel)
	})

	t.Run("blank text clears", func(t *testing.T) {
		s := newTestSheet(t, map[string]string{"A1": "5"})
		require.NoError(t, s.Clear("A1"))
		_, err := s.Get("A1")
		assert.ErrorIs(t, err, ErrCellNotFound)
	})
}

func TestSheet_Errors(t *testing.T) {
	s := newTestSheet(t, map[string]string{
		"A1": "=",
		"A2": "=A1+1",
		"A3": "=Q7*2",
		"B1": "=1/0",
		"B2": "=B1+1",
		"C1": "=(1+2",
		"C2": "=3+",
	})

	a1 := mustGet(t, s, "A1")
	assert.Equal(t, "emptyFormula", a1.ErrorMessage())
	assert.Equal(t, "#EMPTY", a1.Display())

	assert.Equal(t, "invalidCell", mustGet(t, s, "A2").ErrorMessage())
	assert.Equal(t, "#REF", mustGet(t, s, "A3").Display())

	b1 := mustGet(t, s, "B1")
	assert.Equal(t, "divideByZero", b1.ErrorMessage())
	assert.True(t, math.IsInf(b1.Value(), 1))
	assert.Equal(t, "#DIV/0", b1.Display())

	b2 := mustGet(t, s, "B2")
	assert.Equal(t, "divideByZero", b2.ErrorMessage())
	assert.Equal(t, 0.0, b2.Value())

	assert.Equal(t, "#PAREN", mustGet(t, s, "C1").Display())

	c2 := mustGet(t, s, "C2")
	assert.Equal(t, "invalidFormula", c2.ErrorMessage())
	assert.Equal(t, 3.0, c2.Value())
	assert.Equal(t, "#ERR", c2.Display())
}

func TestSheet_Cycles(t *testing.T) {
	t.Run("two cells", func(t *testing.T) {
		s := newTestSheet(t, map[string]string{"A1": "=B1+1", "B1": "=A1*2", "C1": "=A1+1", "D1": "4"})

		for _, label := range []string{"A1", "B1", "C1"} {
			c := mustGet(t, s, label)
			assert.Equal(t, CycleDetected, c.ErrorMessage(), label)
			assert.Equal(t, "#CYCLE", c.Display(), label)
		}
		assert.Equal(t, "", mustGet(t, s, "D1").ErrorMessage())
	})

	t.Run("self reference", func(t *testing.T) {
		s := newTestSheet(t, map[string]string{"A1": "=A1+1"})
		assert.Equal(t, CycleDetected, mustGet(t, s, "A1").ErrorMessage())
	})

	t.Run("breaking the cycle", func(t *testing.T) {
		s := newTestSheet(t, map[string]string{"A1": "=B1+1", "B1": "=A1*2"})
		require.NoError(t, s.Set("B1", "3"))

		a1 := mustGet(t, s, "A1")
		assert.Equal(t, "", a1.ErrorMessage())
		assert.Equal(t, 4.0, a1.Value())
	})
}

func TestSheet_Load(t *testing.T) {
	s := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, s.Set("Z1", "1"))

	err := s.Load(map[string]string{"A1": "2", "bad": "3", "B1": "=A1*3"})
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = s.Get("Z1")
	assert.ErrorIs(t, err, ErrCellNotFound)
	assert.Equal(t, 6.0, mustGet(t, s, "B1").Value())
}

func TestSheet_Accessors(t *testing.T) {
	s := newTestSheet(t, map[string]string{"B2": "1", "A1": "2", "C1": "3", "A2": "=A1"})

	var labels []string
	for _, c := range s.Cells() {
		labels = append(labels, c.Label())
	}
	assert.Equal(t, []string{"A1", "C1", "A2", "B2"}, labels)

	rows, cols := s.Bounds()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)

	assert.Equal(t, map[string]string{"A1": "2", "A2": "=A1", "B2": "1", "C1": "3"}, s.Texts())

	assert.Equal(t, "B2", s.Cell(1, 1).Label())
	assert.Equal(t, "", s.Cell(5, 5).Display())

	out := s.Evaluate("=A1+C1")
	assert.Equal(t, 5.0, out.Result)
	assert.Equal(t, "", out.Message())
}

func TestSheet_NegativeZero(t *testing.T) {
	s := newTestSheet(t, map[string]string{"A1": "=(0-1)*0"})
	assert.Equal(t, "0", mustGet(t, s, "A1").Display())
}

func TestEvaluate_Concurrent(t *testing.T) {
	s := newTestSheet(t, map[string]string{"A1": "6", "A2": "=A1*7", "B1": "=1/0"})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				out := formula.Evaluate(s.memory, tokenize.Tokenize("=(A1+A2)/2"))
				assert.Equal(t, 24.0, out.Result)
				assert.Equal(t, "", out.Message())

				out = formula.Evaluate(s.memory, tokenize.Tokenize("B1+1"))
				assert.Equal(t, "divideByZero", out.Message())
			}
		}()
		// writers touch other cells while readers run
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				assert.NoError(t, s.Set(fmt.Sprintf("C%d", i+1), fmt.Sprintf("=A2+%d", j)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 91.0, mustGet(t, s, "C1").Value())
}

func TestMemory_CellByLabel(t *testing.T) {
	m := NewMemory()
	c := m.CellByLabel("A1")
	assert.Empty(t, c.Formula())
	assert.Equal(t, "", c.ErrorMessage())
	assert.Equal(t, 0.0, c.Value())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "3", FormatValue(3))
	assert.Equal(t, "-12", FormatValue(-12))
	assert.Equal(t, "0", FormatValue(math.Copysign(0, -1)))
	assert.Equal(t, "0", FormatValue(-1e-12))
	assert.Equal(t, "2.5", FormatValue(2.5))
	assert.Equal(t, "0.333333", FormatValue(1.0/3))
	assert.Equal(t, "#ERR", FormatValue(math.Inf(1)))
	assert.Equal(t, "#ERR", FormatValue(math.NaN()))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(""))
	assert.Equal(t, "#ERR", ErrorCode("invalidFormula"))
	assert.Equal(t, "#ERR", ErrorCode("something else"))
	assert.Equal(t, "#CYCLE", ErrorCode(CycleDetected))
}
