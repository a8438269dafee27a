package store

import "errors"

// Kind classifies a data-access failure so the HTTP layer can pick a status
// code without inspecting messages.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
)

// Error is a classified failure with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func notFound(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func conflict(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }

var (
	// ErrResetBusy is returned when a reset is requested while another one
	// is still running. Contenders are rejected, never queued.
	ErrResetBusy = errors.New("database reset already in progress")

	// ErrResetTimeout is returned when a reset exceeds its time bound. The
	// in-database work of a timed-out reset is not guaranteed rolled back.
	ErrResetTimeout = errors.New("database reset timed out")
)
