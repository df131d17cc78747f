package aof

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/8090Lambert/go-parsehelper/parsehelper"
	"github.com/8090Lambert/go-parsehelper/protocol"
	"github.com/8090Lambert/go-parsehelper/rdb"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("go-redis-parser.aof")

type ParserAOF struct {
	// AllowTruncated drops an incomplete last command instead of failing,
	// like Redis does with aof-load-truncated.
	AllowTruncated bool

	cur       *cursor
	truncated bool
	entries   []protocol.TypeObject
}

func NewAof(file string) (protocol.Parser, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read aof file: %w", err)
	}
	return NewAofFromBytes(data), nil
}

func NewAofFromBytes(data []byte) *ParserAOF {
	return &ParserAOF{cur: parsehelper.NewCursor[Kind](data)}
}

func (a *ParserAOF) Entries() []protocol.TypeObject {
	return a.entries
}

// Truncated reports whether an incomplete last command was dropped.
func (a *ParserAOF) Truncated() bool {
	return a.truncated
}

func (a *ParserAOF) Parse() error {
	if bytes.HasPrefix(a.cur.Rest(), []byte(rdb.REDIS)) {
		if err := a.loadPreamble(); err != nil {
			return err
		}
	}

	for {
		a.cur.Skip(isBlank)
		if _, ok := a.cur.PeekOrEnd(); !ok {
			return nil
		}
		cmd, err := a.readCommand()
		if err != nil {
			if a.AllowTruncated && isEOF(err) {
				log.Warningf("dropping truncated command: %s", err)
				a.truncated = true
				return nil
			}
			return err
		}
		log.Debugf("command %s at %d", cmd.Name, cmd.Offset)
		a.entries = append(a.entries, cmd)
	}
}

// Since Redis 4 an AOF may start with an RDB dump of the dataset.
func (a *ParserAOF) loadPreamble() error {
	preamble := rdb.NewRDBFromBytes(a.cur.Rest())
	if err := preamble.Parse(); err != nil {
		return fmt.Errorf("rdb preamble: %w", err)
	}
	a.entries = append(a.entries, preamble.Entries()...)
	a.cur.Advance(preamble.Consumed())
	log.Debugf("rdb preamble of %d bytes", preamble.Consumed())
	return nil
}

// *<argc>\r\n followed by argc times $<len>\r\n<bytes>\r\n
func (a *ParserAOF) readCommand() (Command, error) {
	start := a.cur.Position()
	if err := a.cur.Expect('*', ErrExpectedArray); err != nil {
		return Command{}, err
	}
	argc, err := a.readLength()
	if err != nil {
		return Command{}, err
	}
	if argc == 0 {
		return Command{}, a.cur.FailAt(ErrEmptyCommand, start)
	}
	if argc > len(a.cur.Rest()) {
		return Command{}, a.cur.FailAt(ErrInvalidLength, start+1)
	}

	args := make([]string, 0, argc)
	for i := 0; i < argc; i++ {
		if err := a.cur.Expect('$', ErrExpectedBulk); err != nil {
			return Command{}, err
		}
		size, err := a.readLength()
		if err != nil {
			return Command{}, err
		}
		if size > len(a.cur.Rest()) {
			return Command{}, a.cur.Fail(ErrUnexpectedEOF)
		}
		arg, err := a.cur.Take(size, ErrUnexpectedEOF)
		if err != nil {
			return Command{}, err
		}
		if err := a.crlf(); err != nil {
			return Command{}, err
		}
		args = append(args, string(arg))
	}

	return Command{Offset: start, Name: strings.ToUpper(args[0]), Args: args[1:]}, nil
}

func (a *ParserAOF) readLength() (int, error) {
	at := a.cur.Position()
	if err := a.cur.ExpectPred(isDigit, ErrInvalidLength); err != nil {
		return 0, err
	}
	a.cur.Skip(isDigit)
	n, err := strconv.Atoi(string(a.cur.Slice(at, a.cur.Position())))
	if err != nil {
		return 0, a.cur.FailAt(ErrInvalidLength, at)
	}
	if err := a.crlf(); err != nil {
		return 0, err
	}
	return n, nil
}

func (a *ParserAOF) crlf() error {
	if err := a.cur.Expect('\r', ErrMissingCRLF); err != nil {
		return err
	}
	return a.cur.Expect('\n', ErrMissingCRLF)
}

func isEOF(err error) bool {
	perr, ok := parsehelper.As[Kind](err)
	return ok && perr.E == ErrUnexpectedEOF
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isBlank(b byte) bool {
	return b == '\r' || b == '\n' || b == ' '
}
