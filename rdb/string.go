package rdb

import (
	"fmt"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

type StringObject struct {
	Field KeyObject
	Val   string
}

func (r *ParseRdb) readString(key KeyObject) error {
	valBytes, err := r.loadString()
	if err != nil {
		return err
	}
	r.entries = append(r.entries, NewStringObject(key, valBytes))
	return nil
}

func NewStringObject(key KeyObject, val []byte) StringObject {
	return StringObject{Field: key, Val: string(val)}
}

func (s StringObject) String() string {
	return fmt.Sprintf("{String: {Key: %s, Value:'%s'}}", s.Field, s.Val)
}

func (s StringObject) Type() protocol.DataType {
	return protocol.String
}

func (s StringObject) Key() string {
	return s.Field.Key
}

func (s StringObject) Value() string {
	return s.Val
}

func (s StringObject) ConcreteSize() uint64 {
	return uint64(len(s.Val))
}
