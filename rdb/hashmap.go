package rdb

import (
	"encoding/json"
	"fmt"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

// Some of HashEntry manager.
type HashMap struct {
	Field KeyObject
	Len   uint64
	Entry []HashEntry
}

// HashTable entry.
type HashEntry struct {
	Field string
	Value string
}

func (r *ParseRdb) readHashMap(key KeyObject) error {
	length, err := r.loadCount()
	if err != nil {
		return err
	}
	hashTable := HashMap{Field: key, Len: uint64(length), Entry: make([]HashEntry, 0, length)}
	for i := 0; i < length; i++ {
		field, err := r.loadString()
		if err != nil {
			return err
		}
		value, err := r.loadString()
		if err != nil {
			return err
		}
		hashTable.Entry = append(hashTable.Entry, HashEntry{Field: string(field), Value: string(value)})
	}
	r.entries = append(r.entries, hashTable)

	return nil
}

func (r *ParseRdb) readHashMapWithZipmap(key KeyObject) error {
	b, at, err := r.loadBlob()
	if err != nil {
		return err
	}
	items, err := loadZipmap(b)
	if err != nil {
		return retag(err, at)
	}
	r.entries = append(r.entries, newHashMap(key, items))
	return nil
}

func (r *ParseRdb) readHashMapZiplist(key KeyObject) error {
	b, at, err := r.loadBlob()
	if err != nil {
		return err
	}
	items, err := loadZiplist(b)
	if err != nil {
		return retag(err, at)
	}
	if len(items)%2 != 0 {
		return r.cur.FailAt(ErrInvalidZiplist, at)
	}
	r.entries = append(r.entries, newHashMap(key, items))
	return nil
}

// newHashMap pairs up alternating field and value items.
func newHashMap(key KeyObject, items [][]byte) HashMap {
	hashTable := HashMap{Field: key, Len: uint64(len(items) / 2), Entry: make([]HashEntry, 0, len(items)/2)}
	for i := 0; i+1 < len(items); i += 2 {
		hashTable.Entry = append(hashTable.Entry, HashEntry{Field: string(items[i]), Value: string(items[i+1])})
	}
	return hashTable
}

func (hm HashMap) Type() protocol.DataType {
	return protocol.Hash
}

func (hm HashMap) Key() string {
	return hm.Field.Key
}

func (hm HashMap) Value() string {
	itemStr, _ := json.Marshal(hm.Entry)
	return string(itemStr)
}

func (hm HashMap) String() string {
	return fmt.Sprintf("{HashMap: {Key: %s, Len: %d, Entries: %s}}", hm.Field, hm.Len, hm.Value())
}

func (hm HashMap) ConcreteSize() uint64 {
	var size uint64
	for _, e := range hm.Entry {
		size += uint64(len(e.Field) + len(e.Value))
	}
	return size
}
