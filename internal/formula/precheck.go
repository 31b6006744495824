package formula

func isStructural(token string) bool {
	switch token {
	case "(", ")", "+", "-", "*", "/":
		return true
	}
	return false
}

// checkUniqueNumber rescans the whole formula before every factor. A formula
// whose only operand is a single number, surrounded by nothing but operators
// and parentheses, is malformed unless the number is written as "(n)". When
// flagged, result becomes the number and err becomes invalidFormula; parsing
// is not interrupted.
func (p *parse) checkUniqueNumber() {
	f := p.formula
	if len(f) == 1 {
		if n, ok := ParseNumber(f[0]); ok {
			p.result = n
			return
		}
	}

	candidate := -1
	var value float64
	for i, token := range f {
		if n, ok := ParseNumber(token); ok {
			if candidate >= 0 {
				return
			}
			candidate, value = i, n
			continue
		}
		if !isStructural(token) {
			return
		}
	}
	if candidate < 0 {
		return
	}

	opened := candidate > 0 && f[candidate-1] == "("
	closed := candidate < len(f)-1 && f[candidate+1] == ")"
	if opened && closed {
		return
	}
	p.result = value
	p.err = ErrInvalidFormula
}
