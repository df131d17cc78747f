package parsehelper

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

type testErr int

const (
	errEOI testErr = iota
	errA
	errB
	errOverrun
)

func (testErr) Eoi() testErr {
	return errEOI
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func TestExpectConsumesOnMismatch(t *testing.T) {
	c := NewCursor[testErr]([]byte("ab12"))

	if err := c.Expect('a', errA); err != nil {
		t.Fatalf("Expect('a') = %v, want nil", err)
	}
	if got := c.Position(); got != 1 {
		t.Fatalf("Position() = %d, want 1", got)
	}

	err := c.Expect('x', errB)
	want := Error[testErr]{Position: 1, E: errB}
	if err != want {
		t.Fatalf("Expect('x') = %v, want %v", err, want)
	}
	if got := c.Position(); got != 2 {
		t.Errorf("Position() after mismatch = %d, want 2", got)
	}

	b, ok := c.PeekOrEnd()
	if !ok || b != '1' {
		t.Errorf("PeekOrEnd() = %q, %v, want '1', true", b, ok)
	}
	if got := c.Position(); got != 2 {
		t.Errorf("Position() after peek = %d, want 2", got)
	}
}

func TestNextOnEmptyInput(t *testing.T) {
	c := NewCursor[testErr](nil)

	_, err := c.Next()
	want := Error[testErr]{Position: 0, E: errEOI}
	if err != want {
		t.Fatalf("Next() = %v, want %v", err, want)
	}

	if _, err := c.Peek(); err != want {
		t.Errorf("Peek() = %v, want %v", err, want)
	}
	if _, ok := c.NextOrEnd(); ok {
		t.Error("NextOrEnd() reported a byte on empty input")
	}
	if _, ok := c.PeekOrEnd(); ok {
		t.Error("PeekOrEnd() reported a byte on empty input")
	}
}

func TestAdvanceOrOverrun(t *testing.T) {
	c := NewCursor[testErr]([]byte("abc"))

	err := c.AdvanceOr(5, errOverrun)
	want := Error[testErr]{Position: 0, E: errOverrun}
	if err != want {
		t.Fatalf("AdvanceOr(5) = %v, want %v", err, want)
	}
	if got := c.Position(); got != 5 {
		t.Errorf("Position() = %d, want 5", got)
	}
	if got := c.Rest(); len(got) != 0 {
		t.Errorf("Rest() = %q, want empty", got)
	}
	if c.AdvanceOver([]byte("a")) {
		t.Error("AdvanceOver() matched past the end")
	}
}

func TestAdvanceOrHugeOffset(t *testing.T) {
	c := NewCursor[testErr]([]byte("abc"))
	c.Advance(1)

	err := c.AdvanceOr(math.MaxInt, errOverrun)
	want := Error[testErr]{Position: 1, E: errOverrun}
	if err != want {
		t.Fatalf("AdvanceOr(MaxInt) = %v, want %v", err, want)
	}
	if got := c.Position(); got != math.MaxInt {
		t.Errorf("Position() = %d, want %d", got, math.MaxInt)
	}
	if _, ok := c.PeekOrEnd(); ok {
		t.Error("PeekOrEnd() reported a byte after an overrun")
	}
	if _, ok := c.NextOrEnd(); ok {
		t.Error("NextOrEnd() reported a byte after an overrun")
	}
	if got := c.Rest(); len(got) != 0 {
		t.Errorf("Rest() = %q, want empty", got)
	}

	c.Advance(math.MaxInt)
	if got := c.Position(); got != math.MaxInt {
		t.Errorf("Position() after second advance = %d, want %d", got, math.MaxInt)
	}
}

func TestTakeHugeLength(t *testing.T) {
	c := NewCursor[testErr]([]byte("abc"))
	c.Advance(2)

	b, err := c.Take(math.MaxInt-1, errOverrun)
	want := Error[testErr]{Position: 2, E: errOverrun}
	if err != want || b != nil {
		t.Errorf("Take(MaxInt-1) = %q, %v, want nil, %v", b, err, want)
	}
}

func TestAdvanceOrExact(t *testing.T) {
	c := NewCursor[testErr]([]byte("abc"))
	if err := c.AdvanceOr(3, errOverrun); err != nil {
		t.Fatalf("AdvanceOr(3) = %v, want nil", err)
	}
	if _, ok := c.PeekOrEnd(); ok {
		t.Error("PeekOrEnd() reported a byte at the end")
	}
}

func TestAdvanceOver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
		position int
	}{
		{"match", "REDIS0009", "REDIS", true, 5},
		{"mismatch", "REDIS0009", "REDIX", false, 0},
		{"partial", "RED", "REDIS", false, 0},
		{"empty", "abc", "", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor[testErr]([]byte(tt.input))
			if got := c.AdvanceOver([]byte(tt.expected)); got != tt.ok {
				t.Errorf("AdvanceOver(%q) = %v, want %v", tt.expected, got, tt.ok)
			}
			if got := c.Position(); got != tt.position {
				t.Errorf("Position() = %d, want %d", got, tt.position)
			}
		})
	}
}

func TestExpectBytesDoesNotConsume(t *testing.T) {
	c := NewCursor[testErr]([]byte("*2\r\n"))
	c.Advance(1)

	err := c.ExpectBytes([]byte("3\r\n"), errA)
	want := Error[testErr]{Position: 1, E: errA}
	if err != want {
		t.Fatalf("ExpectBytes() = %v, want %v", err, want)
	}
	if got := c.Position(); got != 1 {
		t.Errorf("Position() = %d, want 1", got)
	}

	if err := c.ExpectBytes([]byte("2\r\n"), errA); err != nil {
		t.Fatalf("ExpectBytes() = %v, want nil", err)
	}
	if got := c.Position(); got != 4 {
		t.Errorf("Position() = %d, want 4", got)
	}
}

func TestExpectPred(t *testing.T) {
	c := NewCursor[testErr]([]byte("7x"))

	if err := c.ExpectPred(isDigit, errA); err != nil {
		t.Fatalf("ExpectPred() = %v, want nil", err)
	}
	err := c.ExpectPred(isDigit, errA)
	if want := (Error[testErr]{Position: 1, E: errA}); err != want {
		t.Fatalf("ExpectPred() = %v, want %v", err, want)
	}
	if got := c.Position(); got != 2 {
		t.Errorf("Position() = %d, want 2", got)
	}
	err = c.ExpectPred(isDigit, errA)
	if want := (Error[testErr]{Position: 2, E: errEOI}); err != want {
		t.Errorf("ExpectPred() at end = %v, want %v", err, want)
	}
}

func TestExpectAtEnd(t *testing.T) {
	c := NewCursor[testErr]([]byte("a"))
	c.Advance(1)
	err := c.Expect('a', errA)
	if want := (Error[testErr]{Position: 1, E: errEOI}); err != want {
		t.Errorf("Expect() at end = %v, want %v", err, want)
	}
}

func TestSkipIsIdempotent(t *testing.T) {
	c := NewCursor[testErr]([]byte("  \tGET"))

	c.Skip(isSpace)
	if got := c.Position(); got != 3 {
		t.Fatalf("Position() = %d, want 3", got)
	}
	c.Skip(isSpace)
	if got := c.Position(); got != 3 {
		t.Errorf("Position() after second Skip = %d, want 3", got)
	}

	c.Skip(func(byte) bool { return true })
	if got := c.Position(); got != c.Len() {
		t.Errorf("Position() = %d, want %d", got, c.Len())
	}
}

func TestTakeWhile(t *testing.T) {
	c := NewCursor[testErr]([]byte("1024\r\n"))
	if got := c.TakeWhile(isDigit); string(got) != "1024" {
		t.Errorf("TakeWhile() = %q, want %q", got, "1024")
	}
	if got := c.TakeWhile(isDigit); len(got) != 0 {
		t.Errorf("TakeWhile() = %q, want empty", got)
	}
	c.Advance(2)
	if got := c.TakeWhile(isDigit); len(got) != 0 {
		t.Errorf("TakeWhile() at end = %q, want empty", got)
	}
}

func TestTake(t *testing.T) {
	c := NewCursor[testErr]([]byte("abcdef"))
	got, err := c.Take(4, errOverrun)
	if err != nil || string(got) != "abcd" {
		t.Fatalf("Take(4) = %q, %v, want %q, nil", got, err, "abcd")
	}
	if _, err := c.Take(4, errOverrun); err != (Error[testErr]{Position: 4, E: errOverrun}) {
		t.Errorf("Take(4) = %v, want overrun at 4", err)
	}
}

func TestViewsAliasInput(t *testing.T) {
	input := []byte("hello world")
	c := NewCursor[testErr](input)
	c.Advance(6)

	if got := c.Slice(0, c.Len()); !bytes.Equal(got, input) {
		t.Errorf("Slice(0, Len()) = %q, want %q", got, input)
	}
	if got := c.At(4); got != 'o' {
		t.Errorf("At(4) = %q, want 'o'", got)
	}

	rest := c.Rest()
	if string(rest) != "world" {
		t.Fatalf("Rest() = %q, want %q", rest, "world")
	}
	if &rest[0] != &input[6] {
		t.Error("Rest() copied the input")
	}

	head := c.Slice(0, 5)
	_ = append(head, '!')
	if input[5] != ' ' {
		t.Error("appending to a view wrote into the input")
	}
}

func TestSliceOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Slice() out of range did not panic")
		}
	}()
	c := NewCursor[testErr]([]byte("abc"))
	c.Slice(1, 10)
}

func TestAdvanceNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Advance(-1) did not panic")
		}
	}()
	c := NewCursor[testErr]([]byte("abc"))
	c.Advance(-1)
}

func TestPositionIsAdditive(t *testing.T) {
	c := NewCursor[testErr]([]byte("*1\r\n$4\r\nPING\r\n"))
	steps := []struct {
		name string
		run  func() error
		size int
	}{
		{"expect", func() error { return c.Expect('*', errA) }, 1},
		{"pred", func() error { return c.ExpectPred(isDigit, errA) }, 1},
		{"bytes", func() error { return c.ExpectBytes([]byte("\r\n"), errA) }, 2},
		{"next", func() error { _, err := c.Next(); return err }, 1},
		{"advance", func() error { c.Advance(3); return nil }, 3},
		{"take", func() error { _, err := c.Take(4, errA); return err }, 4},
		{"over", func() error { c.AdvanceOver([]byte("\r\n")); return nil }, 2},
	}
	want := 0
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		want += step.size
		if got := c.Position(); got != want {
			t.Fatalf("%s: Position() = %d, want %d", step.name, got, want)
		}
	}
	if want != c.Len() {
		t.Errorf("consumed %d bytes, want %d", want, c.Len())
	}
}

func TestCopyRestoresState(t *testing.T) {
	c := NewCursor[testErr]([]byte("abc"))
	saved := *c
	c.Advance(2)
	*c = saved
	if got := c.Position(); got != 0 {
		t.Errorf("Position() after restore = %d, want 0", got)
	}
}

func TestErrorsFromCursorUnwrap(t *testing.T) {
	c := NewCursor[Message]([]byte{})
	_, err := c.Next()

	perr, ok := As[Message](err)
	if !ok {
		t.Fatalf("As() failed for %T", err)
	}
	if perr.E != endOfInput {
		t.Errorf("payload = %q, want %q", perr.E, endOfInput)
	}
	if errors.Unwrap(err) != nil {
		t.Errorf("Unwrap() = %v, want nil for a non-error payload", errors.Unwrap(err))
	}
}
