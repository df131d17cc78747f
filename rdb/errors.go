package rdb

import (
	"errors"
	"fmt"

	"github.com/8090Lambert/go-parsehelper/parsehelper"
)

// Kind is the payload of every parse error produced by this package.
type Kind int

const (
	ErrUnexpectedEOF Kind = iota
	ErrBadMagic
	ErrBadVersion
	ErrUnknownLengthEncoding
	ErrUnknownStringEncoding
	ErrLengthOverflow
	ErrInvalidFloat
	ErrUnsupportedType
	ErrUnsupportedOpcode
	ErrInvalidZiplist
	ErrInvalidIntset
	ErrInvalidZipmap
	ErrInvalidLZF
	ErrInvalidListpack
	ErrInvalidStream
)

var kindText = map[Kind]string{
	ErrUnexpectedEOF:         "unexpected end of RDB file",
	ErrBadMagic:              "missing REDIS magic string",
	ErrBadVersion:            "RDB file version is wrong",
	ErrUnknownLengthEncoding: "unknown length encoding",
	ErrUnknownStringEncoding: "unknown string encoding",
	ErrLengthOverflow:        "length exceeds file size",
	ErrInvalidFloat:          "invalid float value",
	ErrUnsupportedType:       "unsupported value type",
	ErrUnsupportedOpcode:     "unsupported opcode",
	ErrInvalidZiplist:        "invalid ziplist",
	ErrInvalidIntset:         "invalid intset",
	ErrInvalidZipmap:         "invalid zipmap",
	ErrInvalidLZF:            "invalid LZF compressed string",
	ErrInvalidListpack:       "invalid listpack",
	ErrInvalidStream:         "invalid stream",
}

func (Kind) Eoi() Kind {
	return ErrUnexpectedEOF
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("rdb error %d", int(k))
}

type cursor = parsehelper.Cursor[Kind]

func newCursor(b []byte) *cursor {
	return parsehelper.NewCursor[Kind](b)
}

// retag reports an error found inside an encoded blob at the blob's offset
// in the file. Positions inside a decoded blob mean nothing to the caller.
func retag(err error, at int) error {
	var perr parsehelper.Error[Kind]
	if errors.As(err, &perr) {
		return parsehelper.New(at, perr.E)
	}
	return err
}
