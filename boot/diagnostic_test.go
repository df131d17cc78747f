package boot

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/8090Lambert/go-parsehelper/aof"
	"github.com/8090Lambert/go-parsehelper/parsehelper"
	"github.com/8090Lambert/go-parsehelper/rdb"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		ok   bool
	}{
		{"rdb", parsehelper.New(7, rdb.ErrBadVersion), 7, true},
		{"aof", parsehelper.New(3, aof.ErrMissingCRLF), 3, true},
		{"wrapped", fmt.Errorf("rdb preamble: %w", parsehelper.New(12, rdb.ErrInvalidLZF)), 12, true},
		{"message", parsehelper.New(2, parsehelper.Message("boom")), 2, true},
		{"plain", errors.New("boom"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Position(tt.err)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Position() = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDiagnoseMarksOffset(t *testing.T) {
	data := []byte("REDIS0009\xfa\x09redis-ver\x00\x01\x02\x03\x04\x05")
	var buf bytes.Buffer
	if !Diagnose(&buf, data, parsehelper.New(18, rdb.ErrUnexpectedEOF)) {
		t.Fatal("Diagnose() = false")
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q, want a row and a caret line", buf.String())
	}
	if !strings.HasPrefix(lines[0], "00000010  ") {
		t.Errorf("row line = %q, want offset 00000010", lines[0])
	}
	if !strings.Contains(lines[0], "|-ver.") {
		t.Errorf("row line = %q, want ascii column", lines[0])
	}
	if got := strings.Index(lines[1], "^^ offset 18"); got != 10+3*2 {
		t.Errorf("caret at column %d, want %d", got, 10+3*2)
	}
	if strings.Contains(buf.String(), "error") {
		t.Errorf("output = %q, want no error message", buf.String())
	}
}

func TestDiagnosePastEnd(t *testing.T) {
	var buf bytes.Buffer
	Diagnose(&buf, []byte("abc"), parsehelper.New(9, aof.ErrUnexpectedEOF))
	if !strings.Contains(buf.String(), "offset 9 is past the end of input (3 bytes)") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestDiagnoseWithoutOffset(t *testing.T) {
	var buf bytes.Buffer
	if Diagnose(&buf, []byte("abc"), errors.New("boom")) {
		t.Error("Diagnose() = true for an error without offset")
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing", buf.String())
	}
}
