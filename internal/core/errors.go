package core

import (
	"errors"
	"fmt"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAmbiguousID       = errors.New("ambiguous id")
)

// KitError carries one of the error kinds above together with the operation
// and the id it concerned. Match it with errors.Is against the kind.
type KitError struct {
	Kind error
	Op   string
	ID   string
	Msg  string
}

func (e *KitError) Error() string {
	if e == nil {
		return ""
	}
	prefix := e.Op
	if e.ID != "" {
		prefix = fmt.Sprintf("%s %s", e.Op, e.ID)
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", prefix, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", prefix, e.Kind, e.Msg)
}

func (e *KitError) Unwrap() error { return e.Kind }

func validationf(op, format string, args ...any) error {
	return &KitError{Kind: ErrValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func notFound(op, id string) error {
	return &KitError{Kind: ErrNotFound, Op: op, ID: id}
}

func invalidTransition(op, id string, from, to models.KitStatus) error {
	return &KitError{
		Kind: ErrInvalidTransition,
		Op:   op,
		ID:   id,
		Msg:  fmt.Sprintf("%s -> %s", from, to),
	}
}
