// Package storage persists sheets as raw cell text, keyed by label.
package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"calcsheet/internal/grid"
)

// SaveCSV writes cells (label -> text) to filename as a rectangular grid.
// Labels that are not valid cell labels are ignored.
func SaveCSV(cells map[string]string, filename string) error {
	maxR, maxC := -1, -1
	pos := map[[2]int]string{}
	for label, text := range cells {
		r, c, ok := grid.ParseLabel(label)
		if !ok || text == "" {
			continue
		}
		pos[[2]int{r, c}] = text
		maxR = max(maxR, r)
		maxC = max(maxC, c)
	}

	out := make([][]string, maxR+1)
	for r := 0; r <= maxR; r++ {
		row := make([]string, maxC+1)
		for c := 0; c <= maxC; c++ {
			row[c] = pos[[2]int{r, c}]
		}
		out[r] = row
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return f.Close()
}

// LoadCSV reads a grid written by SaveCSV. Empty fields are skipped.
func LoadCSV(filename string) (map[string]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	cells := map[string]string{}
	for rIdx, row := range records {
		for cIdx, val := range row {
			if val != "" {
				cells[grid.ColRowToName(cIdx, rIdx)] = val
			}
		}
	}
	return cells, nil
}
