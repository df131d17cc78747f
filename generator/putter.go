package generator

import (
	"fmt"
	"io"

	"github.com/8090Lambert/go-parsehelper/constants"
	"github.com/8090Lambert/go-parsehelper/protocol"
)

// Putter writes entities in the chosen format.
type Putter struct {
	writer Gen
}

func NewPutter(w io.Writer, format int) (*Putter, error) {
	var gen Gen
	switch format {
	case constants.FORMAT_JSON:
		gen = NewJson(w)
	case constants.FORMAT_CSV:
		gen = NewCsv(w)
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
	return &Putter{writer: gen}, nil
}

func (p *Putter) Put(entities ...protocol.TypeObject) error {
	for _, entity := range entities {
		if err := p.writer.Put(entity); err != nil {
			return fmt.Errorf("write %s %q: %w", entity.Type(), entity.Key(), err)
		}
	}
	return nil
}

func (p *Putter) Flush() error {
	return p.writer.Flush()
}
