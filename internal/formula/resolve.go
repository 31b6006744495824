package formula

// resolve reads a referenced cell. Errors travel unchanged from cell to
// cell, except that a blank cell is reported as invalidCell rather than
// emptyFormula.
func (p *parse) resolve(label string) (float64, error) {
	if p.cells == nil {
		return 0, ErrInvalidCell
	}
	cell := p.cells.CellByLabel(label)
	if cell == nil {
		return 0, ErrInvalidCell
	}
	if msg := cell.ErrorMessage(); msg != "" && msg != KindEmptyFormula.String() {
		return 0, ErrorFromMessage(msg)
	}
	if len(cell.Formula()) == 0 {
		return 0, ErrInvalidCell
	}
	return cell.Value(), nil
}
