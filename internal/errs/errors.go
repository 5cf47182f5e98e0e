package errs

import (
	"errors"
	"strings"
)

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrInvalid  = errors.New("invalid")
	// ErrUnknownLedgerKind is returned when a kind is outside the fixed ledger set.
	ErrUnknownLedgerKind = errors.New("unknown_ledger_kind")
	// ErrUnclassified means no transaction type could be determined; nothing was appended.
	ErrUnclassified = errors.New("unclassified")
	// ErrFieldParse marks malformed numeric/date input on a form field.
	ErrFieldParse = errors.New("field_parse")
	// ErrNoPersistence is returned when a save is requested without a configured adapter.
	ErrNoPersistence = errors.New("no_persistence")
)

// FieldError reports a single malformed form field.
type FieldError struct {
	Field string
	Value string
	Msg   string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Msg + " (" + e.Value + ")"
}

// Unwrap lets errors.Is(err, ErrFieldParse) match any field error.
func (e FieldError) Unwrap() error { return ErrFieldParse }

// FieldErrors collects every malformed field of one form submission.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() []error {
	out := make([]error, 0, len(fe))
	for _, e := range fe {
		out = append(out, e)
	}
	return out
}

// OrNil returns nil when no field failed, so callers can `return fe.OrNil()`.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
