package parse

import (
	"github.com/8090Lambert/go-parsehelper/aof"
	"github.com/8090Lambert/go-parsehelper/constants"
	"github.com/8090Lambert/go-parsehelper/protocol"
	"github.com/8090Lambert/go-parsehelper/rdb"
)

type Options struct {
	// AllowTruncated tolerates an incomplete last AOF command.
	AllowTruncated bool
}

type Factory func(file string) (protocol.Parser, error)

func NewParserFactory(mod int, opts Options) Factory {
	switch mod {
	case constants.RDBMOD:
		return rdb.NewRDB
	case constants.AOFMOD:
		return func(file string) (protocol.Parser, error) {
			p, err := aof.NewAof(file)
			if err != nil {
				return nil, err
			}
			p.(*aof.ParserAOF).AllowTruncated = opts.AllowTruncated
			return p, nil
		}
	}
	return nil
}
