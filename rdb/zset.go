package rdb

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

type SortedSet struct {
	Field   KeyObject
	Len     uint64
	Entries []SortedSetEntry
}

type SortedSetEntry struct {
	Field string
	Score float64
}

func (r *ParseRdb) readZSet(key KeyObject, t byte) error {
	length, err := r.loadCount()
	if err != nil {
		return err
	}
	sortedSet := SortedSet{Field: key, Len: uint64(length), Entries: make([]SortedSetEntry, 0, length)}
	for i := 0; i < length; i++ {
		member, err := r.loadString()
		if err != nil {
			return err
		}
		var score float64
		if t == TypeZset2 {
			score, err = r.loadBinaryFloat()
		} else {
			score, err = r.loadFloat()
		}
		if err != nil {
			return err
		}
		sortedSet.Entries = append(sortedSet.Entries, SortedSetEntry{Field: string(member), Score: score})
	}
	r.entries = append(r.entries, sortedSet)

	return nil
}

func (r *ParseRdb) readZipListSortSet(key KeyObject) error {
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

	sortedSet := SortedSet{Field: key, Len: uint64(len(items) / 2), Entries: make([]SortedSetEntry, 0, len(items)/2)}
	for i := 0; i < len(items); i += 2 {
		score, err := strconv.ParseFloat(string(items[i+1]), 64)
		if err != nil {
			return r.cur.FailAt(ErrInvalidFloat, at)
		}
		sortedSet.Entries = append(sortedSet.Entries, SortedSetEntry{Field: string(items[i]), Score: score})
	}
	r.entries = append(r.entries, sortedSet)

	return nil
}

func (zs SortedSet) Type() protocol.DataType {
	return protocol.SortedSet
}

func (zs SortedSet) Key() string {
	return zs.Field.Key
}

func (zs SortedSet) Value() string {
	itemStr, _ := json.Marshal(zs.Entries)
	return string(itemStr)
}

func (zs SortedSet) String() string {
	return fmt.Sprintf("{SortedSet: {Key: %s, Len: %d, Entries: %s}}", zs.Field, zs.Len, zs.Value())
}

// Members plus 8 bytes per score.
func (zs SortedSet) ConcreteSize() uint64 {
	var size uint64
	for _, e := range zs.Entries {
		size += uint64(len(e.Field)) + 8
	}
	return size
}
