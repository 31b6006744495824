package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// ColToName: 0 -> A, 25 -> Z, 26 -> AA and so on
func ColToName(col int) string {
	if col < 0 {
		return "?"
	}
	result := ""
	n := col + 1
	for n > 0 {
		n--
		result = string(rune('A'+(n%26))) + result
		n /= 26
	}
	return result
}

// ColRowToName builds cell name from 0-based col,row -> e.g., col 0,row0 -> "A1"
func ColRowToName(col, row int) string {
	return fmt.Sprintf("%s%d", ColToName(col), row+1)
}

// ParseCellRef parses names like A1, aa10 returning 0-based (row, col).
// Accepts sheet prefixes like Sheet!A1 and removes $ signs.
func ParseCellRef(name string) (int, int, bool) {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndex(name, "!"); idx != -1 {
		name = strings.TrimSpace(name[idx+1:])
	}
	name = strings.ReplaceAll(name, "$", "")
	return ParseLabel(strings.ToUpper(name))
}

// ParseLabel is the strict form of ParseCellRef: only canonical labels
// accepted by IsValidCellLabel parse.
func ParseLabel(label string) (int, int, bool) {
	i := 0
	for i < len(label) && isUpper(label[i]) {
		i++
	}
	if i == 0 || i >= len(label) || label[i] == '0' {
		return 0, 0, false
	}
	for j := i; j < len(label); j++ {
		if !isDigit(label[j]) {
			return 0, 0, false
		}
	}
	col := 0
	for j := 0; j < i; j++ {
		col = col*26 + int(label[j]-'A') + 1
	}
	rowNum, err := strconv.Atoi(label[i:])
	if err != nil {
		return 0, 0, false
	}
	return rowNum - 1, col - 1, true
}

// IsValidCellLabel reports whether token names a cell: upper-case column
// letters followed by a 1-based row number, e.g. A1 or AB12.
func IsValidCellLabel(token string) bool {
	_, _, ok := ParseLabel(token)
	return ok
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
