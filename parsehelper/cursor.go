package parsehelper

import (
	"bytes"
	"math"
)

// Cursor walks forward over an input buffer, tracking the current position
// and producing position-tagged errors with payload type E.
//
// The buffer is never modified or copied; every view a Cursor returns aliases
// it. A Cursor must not be advanced from several goroutines at once, but any
// number of cursors may share a buffer. Copying the Cursor value saves its
// state.
type Cursor[E Eoi[E]] struct {
	input    []byte
	position int
}

func NewCursor[E Eoi[E]](input []byte) *Cursor[E] {
	return &Cursor[E]{input: input}
}

// Len returns the total length of the input.
func (c *Cursor[E]) Len() int {
	return len(c.input)
}

// Slice returns input[start:end] regardless of the current position.
// It panics if the range is out of bounds.
func (c *Cursor[E]) Slice(start, end int) []byte {
	return c.input[start:end:end]
}

// At returns the byte at index i. It panics if i is out of bounds.
func (c *Cursor[E]) At(i int) byte {
	return c.input[i]
}

// Rest returns the part of the input not consumed yet.
func (c *Cursor[E]) Rest() []byte {
	if c.position >= len(c.input) {
		return c.Slice(len(c.input), len(c.input))
	}
	return c.Slice(c.position, len(c.input))
}

func (c *Cursor[E]) Position() int {
	return c.position
}

// Fail returns an error at the current position.
func (c *Cursor[E]) Fail(e E) error {
	return c.FailAt(e, c.position)
}

// FailAt returns an error at the given position.
func (c *Cursor[E]) FailAt(e E, position int) error {
	return New(position, e)
}

func (c *Cursor[E]) UnexpectedEndOfInput() error {
	var zero E
	return c.Fail(zero.Eoi())
}

// Advance moves the position forward by n bytes, possibly past the end.
// The position saturates at math.MaxInt.
func (c *Cursor[E]) Advance(n int) {
	if n < 0 {
		panic("parsehelper: negative advance")
	}
	if n > math.MaxInt-c.position {
		c.position = math.MaxInt
		return
	}
	c.position += n
}

// AdvanceOver consumes expected if the remaining input starts with it and
// reports whether it did.
func (c *Cursor[E]) AdvanceOver(expected []byte) bool {
	if !bytes.HasPrefix(c.Rest(), expected) {
		return false
	}
	c.Advance(len(expected))
	return true
}

// AdvanceOr moves the position forward by n bytes and fails with e, tagged at
// the position before the move, when that runs past the end of the input.
// The position is not restored on failure.
func (c *Cursor[E]) AdvanceOr(n int, e E) error {
	start := c.position
	overrun := n > len(c.input)-c.position
	c.Advance(n)
	if overrun {
		return c.FailAt(e, start)
	}
	return nil
}

// Take consumes n bytes and returns them, failing like AdvanceOr.
func (c *Cursor[E]) Take(n int, e E) ([]byte, error) {
	start := c.position
	if err := c.AdvanceOr(n, e); err != nil {
		return nil, err
	}
	return c.Slice(start, c.position), nil
}

// Next consumes and returns the next byte.
func (c *Cursor[E]) Next() (byte, error) {
	b, ok := c.NextOrEnd()
	if !ok {
		return 0, c.UnexpectedEndOfInput()
	}
	return b, nil
}

// NextOrEnd consumes and returns the next byte, or false at the end of input.
func (c *Cursor[E]) NextOrEnd() (byte, bool) {
	b, ok := c.PeekOrEnd()
	if ok {
		c.position++
	}
	return b, ok
}

// Expect consumes the next byte and fails with e if it is not expected.
// The byte is consumed even when it does not match.
func (c *Cursor[E]) Expect(expected byte, e E) error {
	return c.ExpectPred(func(b byte) bool { return b == expected }, e)
}

// ExpectBytes consumes expected, or fails with e without consuming anything.
func (c *Cursor[E]) ExpectBytes(expected []byte, e E) error {
	if !c.AdvanceOver(expected) {
		return c.Fail(e)
	}
	return nil
}

// ExpectPred consumes the next byte and fails with e if pred rejects it.
func (c *Cursor[E]) ExpectPred(pred func(byte) bool, e E) error {
	start := c.position
	b, err := c.Next()
	if err != nil {
		return err
	}
	if !pred(b) {
		return c.FailAt(e, start)
	}
	return nil
}

// Peek returns the next byte without consuming it.
func (c *Cursor[E]) Peek() (byte, error) {
	b, ok := c.PeekOrEnd()
	if !ok {
		return 0, c.UnexpectedEndOfInput()
	}
	return b, nil
}

func (c *Cursor[E]) PeekOrEnd() (byte, bool) {
	if c.position >= len(c.input) {
		return 0, false
	}
	return c.input[c.position], true
}

// Skip consumes bytes while pred accepts them.
func (c *Cursor[E]) Skip(pred func(byte) bool) {
	for {
		b, ok := c.PeekOrEnd()
		if !ok || !pred(b) {
			return
		}
		c.position++
	}
}

// TakeWhile consumes bytes while pred accepts them and returns them.
func (c *Cursor[E]) TakeWhile(pred func(byte) bool) []byte {
	start := c.position
	c.Skip(pred)
	if start >= len(c.input) {
		return c.Slice(len(c.input), len(c.input))
	}
	return c.Slice(start, c.position)
}
