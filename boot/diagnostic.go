package boot

import (
	"fmt"
	"io"
	"strings"

	"github.com/8090Lambert/go-parsehelper/aof"
	"github.com/8090Lambert/go-parsehelper/parsehelper"
	"github.com/8090Lambert/go-parsehelper/rdb"
	"github.com/fatih/color"
)

const rowWidth = 16

// Position extracts the input offset carried by a parse error.
func Position(err error) (int, bool) {
	if perr, ok := parsehelper.As[rdb.Kind](err); ok {
		return perr.Position, true
	}
	if perr, ok := parsehelper.As[aof.Kind](err); ok {
		return perr.Position, true
	}
	if perr, ok := parsehelper.As[parsehelper.Message](err); ok {
		return perr.Position, true
	}
	return 0, false
}

// Diagnose prints the hex row of data around the offset of err with a caret
// under the failing byte. The error itself is left to the caller. It reports
// false when err carries no offset.
func Diagnose(w io.Writer, data []byte, err error) bool {
	pos, ok := Position(err)
	if !ok {
		return false
	}
	cur := parsehelper.NewCursor[parsehelper.Message](data)

	row := pos &^ (rowWidth - 1)
	if row > cur.Len() {
		row = cur.Len() &^ (rowWidth - 1)
	}
	end := min(row+rowWidth, cur.Len())
	line := cur.Slice(row, end)

	var hex, ascii strings.Builder
	for i := 0; i < rowWidth; i++ {
		if i < len(line) {
			fmt.Fprintf(&hex, "%02x ", line[i])
			if b := line[i]; b >= 0x20 && b < 0x7f {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		} else {
			hex.WriteString("   ")
		}
	}

	fmt.Fprintf(w, "%08x  %s |%s|\n", row, hex.String(), ascii.String())

	if pos > cur.Len() {
		fmt.Fprintf(w, "%s\n", color.YellowString("offset %d is past the end of input (%d bytes)", pos, cur.Len()))
		return true
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", 10+3*(pos-row)), color.YellowString("^^ offset %d", pos))
	return true
}
