package rdb

import (
	"fmt"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

// AuxField is metadata written since RDB 7: redis-ver, redis-bits, ctime,
// used-mem, repl-stream-db, repl-id, repl-offset, lua scripts.
type AuxField struct {
	Field string
	Val   string
}

func (r *ParseRdb) readAux() error {
	key, err := r.loadString()
	if err != nil {
		return err
	}
	val, err := r.loadString()
	if err != nil {
		return err
	}
	r.entries = append(r.entries, AuxField{Field: string(key), Val: string(val)})
	return nil
}

func (af AuxField) String() string {
	return fmt.Sprintf("{Aux: {Key: %s, Value: %s}}", af.Field, af.Val)
}

func (af AuxField) Type() protocol.DataType {
	return protocol.Aux
}

func (af AuxField) Key() string {
	return af.Field
}

func (af AuxField) Value() string {
	return af.Val
}

func (af AuxField) ConcreteSize() uint64 {
	return 0
}
