package parse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/8090Lambert/go-parsehelper/aof"
	"github.com/8090Lambert/go-parsehelper/constants"
	"github.com/8090Lambert/go-parsehelper/rdb"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	return path
}

func TestNewParserFactory(t *testing.T) {
	if NewParserFactory(constants.UNKNOWN, Options{}) != nil {
		t.Error("NewParserFactory(UNKNOWN) returned a factory")
	}

	t.Run("rdb", func(t *testing.T) {
		file := writeFile(t, "dump.rdb", "REDIS0003\x00\x01k\x01v\xff")
		p, err := NewParserFactory(constants.RDBMOD, Options{})(file)
		if err != nil {
			t.Fatalf("factory() = %v", err)
		}
		if _, ok := p.(*rdb.ParseRdb); !ok {
			t.Fatalf("factory() = %T, want *rdb.ParseRdb", p)
		}
		if err := p.Parse(); err != nil {
			t.Fatalf("Parse() = %v", err)
		}
		if got := len(p.Entries()); got != 1 {
			t.Errorf("len(Entries()) = %d, want 1", got)
		}
	})

	t.Run("aof", func(t *testing.T) {
		file := writeFile(t, "appendonly.aof", "*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPI")
		p, err := NewParserFactory(constants.AOFMOD, Options{AllowTruncated: true})(file)
		if err != nil {
			t.Fatalf("factory() = %v", err)
		}
		if !p.(*aof.ParserAOF).AllowTruncated {
			t.Error("AllowTruncated was not passed on")
		}
		if err := p.Parse(); err != nil {
			t.Fatalf("Parse() = %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewParserFactory(constants.RDBMOD, Options{})(filepath.Join(t.TempDir(), "nope.rdb"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("factory() = %v, want a not-exist error", err)
		}
	})
}
