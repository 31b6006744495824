package formula

// Kind classifies why a formula could not be evaluated cleanly.
type Kind uint8

const (
	KindNone Kind = iota
	KindEmptyFormula
	KindInvalidFormula
	KindDivideByZero
	KindMissingParentheses
	KindInvalidCell
	// KindPropagated is an error message inherited from a referenced cell
	// that does not belong to the evaluator's own taxonomy.
	KindPropagated
)

var kindMessages = [...]string{
	KindNone:               "",
	KindEmptyFormula:       "emptyFormula",
	KindInvalidFormula:     "invalidFormula",
	KindDivideByZero:       "divideByZero",
	KindMissingParentheses: "missingParentheses",
	KindInvalidCell:        "invalidCell",
	KindPropagated:         "propagated",
}

// String returns the user visible message for k.
func (k Kind) String() string {
	if int(k) < len(kindMessages) {
		return kindMessages[k]
	}
	return kindMessages[KindInvalidFormula]
}

// Error is a formula error. The zero value means "no error".
type Error struct {
	Kind    Kind
	message string
}

var (
	ErrEmptyFormula       = Error{Kind: KindEmptyFormula}
	ErrInvalidFormula     = Error{Kind: KindInvalidFormula}
	ErrDivideByZero       = Error{Kind: KindDivideByZero}
	ErrMissingParentheses = Error{Kind: KindMissingParentheses}
	ErrInvalidCell        = Error{Kind: KindInvalidCell}
)

// ErrorFromMessage maps a message back to its Error. Messages outside the
// taxonomy become KindPropagated errors carrying the text unchanged.
func ErrorFromMessage(msg string) Error {
	if msg == "" {
		return Error{}
	}
	for k := KindEmptyFormula; k < KindPropagated; k++ {
		if kindMessages[k] == msg {
			return Error{Kind: k}
		}
	}
	return Error{Kind: KindPropagated, message: msg}
}

func (e Error) Error() string {
	if e.Kind == KindPropagated {
		return e.message
	}
	return e.Kind.String()
}

// IsZero reports whether e carries no error.
func (e Error) IsZero() bool {
	return e.Kind == KindNone
}
