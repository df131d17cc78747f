package rdb

import (
	"encoding/binary"
	"strconv"
)

const (
	// Redis ziplist types
	ZipStr06B = 0
	ZipStr14B = 1
	ZipStr32B = 2

	// Redis ziplist entry
	ZipInt04B = 15
	ZipInt08B = 0xfe        // 11111110
	ZipInt16B = 0xc0 | 0<<4 // 11000000
	ZipInt24B = 0xc0 | 3<<4 // 11110000
	ZipInt32B = 0xc0 | 1<<4 // 11010000
	ZipInt64B = 0xc0 | 2<<4 // 11100000

	ZipBigPrevLen = 0xfe
	ZipEnd        = 0xff

	// zlbytes and zltail precede the entry count.
	zipHeaderSkip = 8
	// Entry count saturates at this value; the list must then be walked.
	zipCountUnknown = 0xffff

	ZipmapBigLen = 254
	ZipmapEnd    = 255

	// One back reference of at most 3 bytes expands to at most 264 bytes.
	lzfMaxRatio = 88
)

func lzfDecompress(in []byte, outLen int) ([]byte, error) {
	c := newCursor(in)
	out := make([]byte, 0, outLen)
	for {
		ctrl, ok := c.NextOrEnd()
		if !ok {
			break
		}
		if ctrl < 1<<5 {
			literal, err := c.Take(int(ctrl)+1, ErrInvalidLZF)
			if err != nil {
				return nil, err
			}
			out = append(out, literal...)
		} else {
			length := int(ctrl >> 5)
			if length == 7 {
				b, err := c.Next()
				if err != nil {
					return nil, err
				}
				length += int(b)
			}
			b, err := c.Next()
			if err != nil {
				return nil, err
			}
			ref := len(out) - int(ctrl&0x1f)<<8 - int(b) - 1
			if ref < 0 {
				return nil, c.Fail(ErrInvalidLZF)
			}
			for x := 0; x < length+2; x++ {
				out = append(out, out[ref+x])
			}
		}
		if len(out) > outLen {
			return nil, c.Fail(ErrInvalidLZF)
		}
	}
	if len(out) != outLen {
		return nil, c.Fail(ErrInvalidLZF)
	}

	return out, nil
}

func loadZiplist(b []byte) ([][]byte, error) {
	c := newCursor(b)
	if err := c.AdvanceOr(zipHeaderSkip, ErrInvalidZiplist); err != nil {
		return nil, err
	}
	lenBytes, err := c.Take(2, ErrInvalidZiplist)
	if err != nil {
		return nil, err
	}
	length := int(binary.LittleEndian.Uint16(lenBytes))

	var items [][]byte
	if length == zipCountUnknown {
		for {
			next, err := c.Peek()
			if err != nil {
				return nil, err
			}
			if next == ZipEnd {
				break
			}
			entry, err := loadZiplistEntry(c)
			if err != nil {
				return nil, err
			}
			items = append(items, entry)
		}
	} else {
		items = make([][]byte, 0, length)
		for i := 0; i < length; i++ {
			entry, err := loadZiplistEntry(c)
			if err != nil {
				return nil, err
			}
			items = append(items, entry)
		}
	}

	if err := c.Expect(ZipEnd, ErrInvalidZiplist); err != nil {
		return nil, err
	}
	return items, nil
}

func loadZiplistEntry(c *cursor) ([]byte, error) {
	prevLen, err := c.Next()
	if err != nil {
		return nil, err
	}
	if prevLen == ZipBigPrevLen {
		// skip the 4-byte prevlen
		if err := c.AdvanceOr(4, ErrInvalidZiplist); err != nil {
			return nil, err
		}
	}

	at := c.Position()
	header, err := c.Next()
	if err != nil {
		return nil, err
	}
	switch {
	case header>>6 == ZipStr06B:
		return c.Take(int(header&0x3f), ErrInvalidZiplist)
	case header>>6 == ZipStr14B:
		b, err := c.Next()
		if err != nil {
			return nil, err
		}
		return c.Take(int(header&0x3f)<<8|int(b), ErrInvalidZiplist)
	case header>>6 == ZipStr32B:
		lenBytes, err := c.Take(4, ErrInvalidZiplist)
		if err != nil {
			return nil, err
		}
		n := binary.BigEndian.Uint32(lenBytes)
		if uint64(n) > uint64(len(c.Rest())) {
			return nil, c.FailAt(ErrInvalidZiplist, at)
		}
		return c.Take(int(n), ErrInvalidZiplist)
	case header == ZipInt16B:
		intBytes, err := c.Take(2, ErrInvalidZiplist)
		if err != nil {
			return nil, err
		}
		return formatInt(int64(int16(binary.LittleEndian.Uint16(intBytes)))), nil
	case header == ZipInt32B:
		intBytes, err := c.Take(4, ErrInvalidZiplist)
		if err != nil {
			return nil, err
		}
		return formatInt(int64(int32(binary.LittleEndian.Uint32(intBytes)))), nil
	case header == ZipInt64B:
		intBytes, err := c.Take(8, ErrInvalidZiplist)
		if err != nil {
			return nil, err
		}
		return formatInt(int64(binary.LittleEndian.Uint64(intBytes))), nil
	case header == ZipInt24B:
		intBytes, err := c.Take(3, ErrInvalidZiplist)
		if err != nil {
			return nil, err
		}
		v := int32(uint32(intBytes[0])<<8|uint32(intBytes[1])<<16|uint32(intBytes[2])<<24) >> 8
		return formatInt(int64(v)), nil
	case header == ZipInt08B:
		b, err := c.Next()
		if err != nil {
			return nil, err
		}
		return formatInt(int64(int8(b))), nil
	case header>>4 == ZipInt04B && header&0x0f >= 1 && header&0x0f <= 13:
		return formatInt(int64(header&0x0f) - 1), nil
	}

	return nil, c.FailAt(ErrInvalidZiplist, at)
}

func loadIntset(b []byte) ([]string, error) {
	c := newCursor(b)
	sizeBytes, err := c.Take(4, ErrInvalidIntset)
	if err != nil {
		return nil, err
	}
	intSize := int(binary.LittleEndian.Uint32(sizeBytes))
	if intSize != 2 && intSize != 4 && intSize != 8 {
		return nil, c.FailAt(ErrInvalidIntset, 0)
	}
	lenBytes, err := c.Take(4, ErrInvalidIntset)
	if err != nil {
		return nil, err
	}
	cardinality := uint64(binary.LittleEndian.Uint32(lenBytes))
	if cardinality*uint64(intSize) != uint64(len(c.Rest())) {
		return nil, c.Fail(ErrInvalidIntset)
	}

	members := make([]string, 0, cardinality)
	for i := uint64(0); i < cardinality; i++ {
		intBytes, err := c.Take(intSize, ErrInvalidIntset)
		if err != nil {
			return nil, err
		}
		var v int64
		switch intSize {
		case 2:
			v = int64(int16(binary.LittleEndian.Uint16(intBytes)))
		case 4:
			v = int64(int32(binary.LittleEndian.Uint32(intBytes)))
		case 8:
			v = int64(binary.LittleEndian.Uint64(intBytes))
		}
		members = append(members, strconv.FormatInt(v, 10))
	}
	return members, nil
}

// loadZipmap returns alternating fields and values. The leading count byte
// is unreliable past 253 entries, so the map is walked up to its end marker.
func loadZipmap(b []byte) ([][]byte, error) {
	c := newCursor(b)
	if _, err := c.Next(); err != nil {
		return nil, err
	}

	var items [][]byte
	for {
		next, err := c.Peek()
		if err != nil {
			return nil, err
		}
		if next == ZipmapEnd {
			c.Advance(1)
			return items, nil
		}
		field, err := loadZipmapItem(c, false)
		if err != nil {
			return nil, err
		}
		value, err := loadZipmapItem(c, true)
		if err != nil {
			return nil, err
		}
		items = append(items, field, value)
	}
}

func loadZipmapItem(c *cursor, readFree bool) ([]byte, error) {
	at := c.Position()
	b, err := c.Next()
	if err != nil {
		return nil, err
	}
	length := int(b)
	switch b {
	case ZipmapBigLen:
		lenBytes, err := c.Take(4, ErrInvalidZipmap)
		if err != nil {
			return nil, err
		}
		length = int(binary.LittleEndian.Uint32(lenBytes))
	case ZipmapEnd:
		return nil, c.FailAt(ErrInvalidZipmap, at)
	}

	var free byte
	if readFree {
		if free, err = c.Next(); err != nil {
			return nil, err
		}
	}
	value, err := c.Take(length, ErrInvalidZipmap)
	if err != nil {
		return nil, err
	}
	if err := c.AdvanceOr(int(free), ErrInvalidZipmap); err != nil {
		return nil, err
	}
	return value, nil
}

func formatInt(v int64) []byte {
	return strconv.AppendInt(nil, v, 10)
}

func entriesSize(entries []string) uint64 {
	var size uint64
	for _, e := range entries {
		size += uint64(len(e))
	}
	return size
}
