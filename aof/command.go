package aof

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/8090Lambert/go-parsehelper/parsehelper"
	"github.com/8090Lambert/go-parsehelper/protocol"
)

// Command is one write command replayed from the append only file.
type Command struct {
	Offset int
	Name   string
	Args   []string
}

func (c Command) Type() protocol.DataType {
	return protocol.Command
}

func (c Command) Key() string {
	return c.Name
}

func (c Command) Value() string {
	return strings.Join(c.Args, " ")
}

func (c Command) String() string {
	return fmt.Sprintf("{Command: {Offset: %d, Name: %s, Args: %q}}", c.Offset, c.Name, c.Args)
}

func (c Command) ConcreteSize() uint64 {
	size := uint64(len(c.Name))
	for _, arg := range c.Args {
		size += uint64(len(arg))
	}
	return size
}

// Int parses argument i as a base 10 integer. A detached command has no
// input position, so failures are reported at position 0.
func (c Command) Int(i int) (int64, error) {
	if i < 0 || i >= len(c.Args) {
		return 0, parsehelper.Custom[parsehelper.Message](fmt.Sprintf("%s: missing argument %d", c.Name, i))
	}
	v, err := strconv.ParseInt(c.Args[i], 10, 64)
	if err != nil {
		return 0, parsehelper.Custom[parsehelper.Message](fmt.Sprintf("%s: argument %d: %v", c.Name, i, err))
	}
	return v, nil
}
