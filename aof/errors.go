package aof

import (
	"fmt"

	"github.com/8090Lambert/go-parsehelper/parsehelper"
)

// Kind is the payload of every parse error produced by this package.
type Kind int

const (
	ErrUnexpectedEOF Kind = iota
	ErrExpectedArray
	ErrExpectedBulk
	ErrInvalidLength
	ErrMissingCRLF
	ErrEmptyCommand
)

var kindText = map[Kind]string{
	ErrUnexpectedEOF: "unexpected end of AOF file",
	ErrExpectedArray: "expected '*'",
	ErrExpectedBulk:  "expected '$'",
	ErrInvalidLength: "invalid length",
	ErrMissingCRLF:   "expected CRLF",
	ErrEmptyCommand:  "command without arguments",
}

func (Kind) Eoi() Kind {
	return ErrUnexpectedEOF
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("aof error %d", int(k))
}

type cursor = parsehelper.Cursor[Kind]
