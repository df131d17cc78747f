package rdb

import (
	"fmt"
	"strconv"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

type SelectionDB struct {
	Index uint64
}

type ResizeDB struct {
	DBSize     uint64
	ExpireSize uint64
}

// Resize hints speed up loading: the sizes of the main and expires hash
// tables, so the loader can avoid rehashing.
func (r *ParseRdb) readResize() error {
	dbSize, _, err := r.loadLen()
	if err != nil {
		return err
	}
	expireSize, _, err := r.loadLen()
	if err != nil {
		return err
	}
	r.entries = append(r.entries, ResizeDB{DBSize: dbSize, ExpireSize: expireSize})
	return nil
}

func (r ResizeDB) String() string {
	return fmt.Sprintf("{ResizeDB: %s}", r.Value())
}

func (r ResizeDB) Key() string {
	return "resize db"
}

func (r ResizeDB) Value() string {
	return fmt.Sprintf("{DBSize: %d, ExpireSize: %d}", r.DBSize, r.ExpireSize)
}

func (r ResizeDB) ConcreteSize() uint64 {
	return 0
}

func (r ResizeDB) Type() protocol.DataType {
	return protocol.ResizeDB
}

func (r *ParseRdb) readSelection() error {
	index, _, err := r.loadLen()
	if err != nil {
		return err
	}
	r.db = index
	r.entries = append(r.entries, SelectionDB{Index: index})
	return nil
}

func (s SelectionDB) Type() protocol.DataType {
	return protocol.SelectDB
}

func (s SelectionDB) String() string {
	return fmt.Sprintf("{Select: %d}", s.Index)
}

func (s SelectionDB) Key() string {
	return "select"
}

func (s SelectionDB) Value() string {
	return strconv.FormatUint(s.Index, 10)
}

func (s SelectionDB) ConcreteSize() uint64 {
	return 0
}
