package parsehelper

import (
	"cmp"
	"errors"
	"fmt"
)

// Eoi is implemented by payload types that have a variant meaning the input
// ended unexpectedly. Eoi is called on the zero value of the payload type.
type Eoi[E any] interface {
	Eoi() E
}

// Customizer is implemented by payload types that can carry a free-form
// message, for decoders that report failures without knowing a position.
type Customizer[E any] interface {
	Custom(msg string) E
}

// Error tags an arbitrary payload with the input position it occurred at.
type Error[E any] struct {
	Position int
	E        E
}

// New creates an error. Parsers usually get one from a Cursor instead.
func New[E any](position int, e E) Error[E] {
	return Error[E]{Position: position, E: e}
}

// Custom creates an error at position 0 from a message.
func Custom[E Customizer[E]](msg any) Error[E] {
	var zero E
	return New(0, zero.Custom(fmt.Sprint(msg)))
}

func (e Error[E]) Error() string {
	return fmt.Sprintf("parse error at position %d: %v", e.Position, e.E)
}

func (e Error[E]) Unwrap() error {
	if err, ok := any(e.E).(error); ok {
		return err
	}
	return nil
}

// Compare orders errors by position, then by payload.
func Compare[E cmp.Ordered](a, b Error[E]) int {
	if c := cmp.Compare(a.Position, b.Position); c != 0 {
		return c
	}
	return cmp.Compare(a.E, b.E)
}

// As extracts the position-tagged error with payload type E from err's chain.
func As[E any](err error) (Error[E], bool) {
	var target Error[E]
	ok := errors.As(err, &target)
	return target, ok
}

// Message is a string payload for parsers that do not define their own.
type Message string

const endOfInput Message = "unexpected end of input"

func (Message) Eoi() Message {
	return endOfInput
}

func (Message) Custom(msg string) Message {
	return Message(msg)
}

func (m Message) String() string {
	return string(m)
}
