package rdb

import (
	"fmt"
	"strings"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

type Set struct {
	Field   KeyObject
	Len     uint64
	Entries []string
}

func (r *ParseRdb) readSet(key KeyObject) error {
	length, err := r.loadCount()
	if err != nil {
		return err
	}
	set := Set{Field: key, Len: uint64(length), Entries: make([]string, 0, length)}
	for i := 0; i < length; i++ {
		member, err := r.loadString()
		if err != nil {
			return err
		}
		set.Entries = append(set.Entries, string(member))
	}
	r.entries = append(r.entries, set)

	return nil
}

func (r *ParseRdb) readIntSet(key KeyObject) error {
	b, at, err := r.loadBlob()
	if err != nil {
		return err
	}
	members, err := loadIntset(b)
	if err != nil {
		return retag(err, at)
	}
	r.entries = append(r.entries, Set{Field: key, Len: uint64(len(members)), Entries: members})
	return nil
}

func (s Set) Type() protocol.DataType {
	return protocol.Set
}

func (s Set) String() string {
	return fmt.Sprintf("{Set: {Key: %s, Len: %d, Item: %s}}", s.Field, s.Len, s.Value())
}

func (s Set) Key() string {
	return s.Field.Key
}

func (s Set) Value() string {
	return strings.Join(s.Entries, ",")
}

func (s Set) ConcreteSize() uint64 {
	return entriesSize(s.Entries)
}
