package rdb

import (
	"fmt"
	"strings"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

type ListObject struct {
	Field   KeyObject
	Len     uint64
	Entries []string
}

func (r *ParseRdb) readList(key KeyObject) error {
	length, err := r.loadCount()
	if err != nil {
		return err
	}
	listObj := ListObject{Field: key, Len: uint64(length), Entries: make([]string, 0, length)}
	for i := 0; i < length; i++ {
		val, err := r.loadString()
		if err != nil {
			return err
		}
		listObj.Entries = append(listObj.Entries, string(val))
	}
	r.entries = append(r.entries, listObj)

	return nil
}

// Every quicklist node is a ziplist; the nodes together make one list.
func (r *ParseRdb) readListWithQuickList(key KeyObject) error {
	length, err := r.loadCount()
	if err != nil {
		return err
	}

	listObj := ListObject{Field: key}
	for i := 0; i < length; i++ {
		listItems, err := r.loadZipList()
		if err != nil {
			return err
		}
		for _, v := range listItems {
			listObj.Entries = append(listObj.Entries, string(v))
		}
	}
	listObj.Len = uint64(len(listObj.Entries))
	r.entries = append(r.entries, listObj)

	return nil
}

func (r *ParseRdb) readListWithZipList(key KeyObject) error {
	entries, err := r.loadZipList()
	if err != nil {
		return err
	}
	listObj := ListObject{Field: key, Len: uint64(len(entries)), Entries: make([]string, 0, len(entries))}
	for _, v := range entries {
		listObj.Entries = append(listObj.Entries, string(v))
	}
	r.entries = append(r.entries, listObj)

	return nil
}

func (r *ParseRdb) loadZipList() ([][]byte, error) {
	b, at, err := r.loadBlob()
	if err != nil {
		return nil, err
	}
	items, err := loadZiplist(b)
	if err != nil {
		return nil, retag(err, at)
	}
	return items, nil
}

func (l ListObject) Type() protocol.DataType {
	return protocol.List
}

func (l ListObject) String() string {
	return fmt.Sprintf("{List: {Key: %s, Len: %d, Items: %s}}", l.Field, l.Len, l.Value())
}

func (l ListObject) Key() string {
	return l.Field.Key
}

func (l ListObject) Value() string {
	return strings.Join(l.Entries, ",")
}

// Sum of all items, without separators.
func (l ListObject) ConcreteSize() uint64 {
	return entriesSize(l.Entries)
}
