package rdb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

const (
	StreamItemFlagDeleted    = 1 << 0
	StreamItemFlagSameFields = 1 << 1

	// 4 bytes total-bytes and 2 bytes num-elements
	listpackHeader = 6
	listpackEnd    = 0xff
)

type RedisStream struct {
	Field   KeyObject
	Length  uint64
	LastId  StreamId
	Entries []StreamEntry
	Groups  []StreamGroup
}

type StreamId struct {
	Ms       uint64
	Sequence uint64
}

type StreamEntry struct {
	Id      StreamId    `json:"id"`
	Deleted bool        `json:"deleted,omitempty"`
	Fields  []HashEntry `json:"fields"`
}

type StreamGroup struct {
	Name             string           `json:"group_name"`
	LastId           StreamId         `json:"last_id"`
	PendingEntryList []StreamNACK     `json:"pending,omitempty"`
	Consumers        []StreamConsumer `json:"consumers,omitempty"`
}

type StreamConsumer struct {
	Name             string     `json:"consumer_name"`
	SeenTime         uint64     `json:"seen_time"`
	PendingEntryList []StreamId `json:"pending,omitempty"`
}

// StreamNACK is a message delivered to a consumer and not acknowledged yet.
type StreamNACK struct {
	Id            StreamId `json:"id"`
	Consumer      string   `json:"consumer,omitempty"`
	DeliveryTime  uint64   `json:"delivery_time"`
	DeliveryCount uint64   `json:"delivery_count"`
}

func (r *ParseRdb) readStream(key KeyObject) error {
	listpacks, err := r.loadCount()
	if err != nil {
		return err
	}

	stream := RedisStream{Field: key}
	for i := 0; i < listpacks; i++ {
		at := r.cur.Position()
		masterBytes, err := r.loadString()
		if err != nil {
			return err
		}
		if len(masterBytes) != 16 {
			return r.cur.FailAt(ErrInvalidStream, at)
		}
		master := StreamId{
			Ms:       binary.BigEndian.Uint64(masterBytes[:8]),
			Sequence: binary.BigEndian.Uint64(masterBytes[8:]),
		}

		b, at, err := r.loadBlob()
		if err != nil {
			return err
		}
		entries, err := loadStreamListPack(b, master)
		if err != nil {
			return retag(err, at)
		}
		stream.Entries = append(stream.Entries, entries...)
	}

	if stream.Length, _, err = r.loadLen(); err != nil {
		return err
	}
	if stream.LastId, err = r.loadStreamId(); err != nil {
		return err
	}
	if stream.Groups, err = r.loadStreamGroups(); err != nil {
		return err
	}
	r.entries = append(r.entries, stream)

	return nil
}

func (r *ParseRdb) loadStreamId() (StreamId, error) {
	ms, _, err := r.loadLen()
	if err != nil {
		return StreamId{}, err
	}
	seq, _, err := r.loadLen()
	if err != nil {
		return StreamId{}, err
	}
	return StreamId{Ms: ms, Sequence: seq}, nil
}

// loadRawStreamId reads a 128 bit big endian ID as stored in the PELs.
func (r *ParseRdb) loadRawStreamId() (StreamId, error) {
	b, err := r.cur.Take(16, ErrUnexpectedEOF)
	if err != nil {
		return StreamId{}, err
	}
	return StreamId{Ms: binary.BigEndian.Uint64(b[:8]), Sequence: binary.BigEndian.Uint64(b[8:])}, nil
}

func (r *ParseRdb) loadMillis() (uint64, error) {
	b, err := r.cur.Take(8, ErrUnexpectedEOF)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *ParseRdb) loadStreamGroups() ([]StreamGroup, error) {
	groupCount, err := r.loadCount()
	if err != nil {
		return nil, err
	}

	var groups []StreamGroup
	for i := 0; i < groupCount; i++ {
		name, err := r.loadString()
		if err != nil {
			return nil, err
		}
		lastId, err := r.loadStreamId()
		if err != nil {
			return nil, err
		}
		group := StreamGroup{Name: string(name), LastId: lastId}

		// Global PendingEntryList
		pel, err := r.loadCount()
		if err != nil {
			return nil, err
		}
		pending := make(map[StreamId]int, pel)
		for j := 0; j < pel; j++ {
			id, err := r.loadRawStreamId()
			if err != nil {
				return nil, err
			}
			deliveryTime, err := r.loadMillis()
			if err != nil {
				return nil, err
			}
			deliveryCount, _, err := r.loadLen()
			if err != nil {
				return nil, err
			}
			pending[id] = len(group.PendingEntryList)
			group.PendingEntryList = append(group.PendingEntryList, StreamNACK{Id: id, DeliveryTime: deliveryTime, DeliveryCount: deliveryCount})
		}

		consumerCount, err := r.loadCount()
		if err != nil {
			return nil, err
		}
		for j := 0; j < consumerCount; j++ {
			cName, err := r.loadString()
			if err != nil {
				return nil, err
			}
			seenTime, err := r.loadMillis()
			if err != nil {
				return nil, err
			}
			consumer := StreamConsumer{Name: string(cName), SeenTime: seenTime}

			// Consumer PendingEntryList, every ID must be in the group's PEL.
			cpel, err := r.loadCount()
			if err != nil {
				return nil, err
			}
			for k := 0; k < cpel; k++ {
				at := r.cur.Position()
				id, err := r.loadRawStreamId()
				if err != nil {
					return nil, err
				}
				idx, ok := pending[id]
				if !ok {
					return nil, r.cur.FailAt(ErrInvalidStream, at)
				}
				group.PendingEntryList[idx].Consumer = consumer.Name
				consumer.PendingEntryList = append(consumer.PendingEntryList, id)
			}
			group.Consumers = append(group.Consumers, consumer)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// loadStreamListPack decodes one listpack of stream entries whose IDs are
// stored relative to master.
//
// Master entry: | count | deleted | num-fields | field_1 | ... | field_N | 0 |
// Entry: | flags | ms-diff | seq-diff | [num-fields | field_1 |] value_1 | ... | lp-count |
func loadStreamListPack(b []byte, master StreamId) ([]StreamEntry, error) {
	c := newCursor(b)
	totalBytes, err := c.Take(4, ErrInvalidListpack)
	if err != nil {
		return nil, err
	}
	if int(binary.LittleEndian.Uint32(totalBytes)) != c.Len() {
		return nil, c.FailAt(ErrInvalidListpack, 0)
	}
	if err := c.AdvanceOr(listpackHeader-4, ErrInvalidListpack); err != nil {
		return nil, err
	}

	count, err := loadListPackCount(c)
	if err != nil {
		return nil, err
	}
	deleted, err := loadListPackCount(c)
	if err != nil {
		return nil, err
	}
	fieldsNum, err := loadListPackCount(c)
	if err != nil {
		return nil, err
	}
	masterFields := make([][]byte, 0, fieldsNum)
	for i := 0; i < fieldsNum; i++ {
		field, err := loadListPackEntry(c)
		if err != nil {
			return nil, err
		}
		masterFields = append(masterFields, field)
	}
	if _, err := loadListPackEntry(c); err != nil {
		return nil, err
	}

	total := count + deleted
	if total > len(c.Rest()) {
		return nil, c.Fail(ErrInvalidListpack)
	}
	entries := make([]StreamEntry, 0, total)
	for i := 0; i < total; i++ {
		flag, err := loadListPackInt(c)
		if err != nil {
			return nil, err
		}
		ms, err := loadListPackInt(c)
		if err != nil {
			return nil, err
		}
		seq, err := loadListPackInt(c)
		if err != nil {
			return nil, err
		}
		entry := StreamEntry{
			Id:      StreamId{Ms: master.Ms + uint64(ms), Sequence: master.Sequence + uint64(seq)},
			Deleted: flag&StreamItemFlagDeleted != 0,
		}

		if flag&StreamItemFlagSameFields != 0 {
			for _, field := range masterFields {
				value, err := loadListPackEntry(c)
				if err != nil {
					return nil, err
				}
				entry.Fields = append(entry.Fields, HashEntry{Field: string(field), Value: string(value)})
			}
		} else {
			n, err := loadListPackCount(c)
			if err != nil {
				return nil, err
			}
			for j := 0; j < n; j++ {
				field, err := loadListPackEntry(c)
				if err != nil {
					return nil, err
				}
				value, err := loadListPackEntry(c)
				if err != nil {
					return nil, err
				}
				entry.Fields = append(entry.Fields, HashEntry{Field: string(field), Value: string(value)})
			}
		}

		// lp-count
		if _, err := loadListPackEntry(c); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := c.Expect(listpackEnd, ErrInvalidListpack); err != nil {
		return nil, err
	}
	return entries, nil
}

func loadListPackInt(c *cursor) (int64, error) {
	at := c.Position()
	b, err := loadListPackEntry(c)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, c.FailAt(ErrInvalidListpack, at)
	}
	return v, nil
}

// loadListPackCount reads a non negative count bounded by the remaining bytes.
func loadListPackCount(c *cursor) (int, error) {
	at := c.Position()
	v, err := loadListPackInt(c)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > int64(len(c.Rest())) {
		return 0, c.FailAt(ErrInvalidListpack, at)
	}
	return int(v), nil
}

func loadListPackEntry(c *cursor) ([]byte, error) {
	at := c.Position()
	special, err := c.Next()
	if err != nil {
		return nil, err
	}

	var res []byte
	switch {
	case special&0x80 == 0: // 7 bit uint
		res = formatInt(int64(special & 0x7f))
	case special&0xc0 == 0x80: // 6 bit string length
		res, err = c.Take(int(special&0x3f), ErrInvalidListpack)
	case special&0xe0 == 0xc0: // 13 bit int
		next, nerr := c.Next()
		if nerr != nil {
			return nil, nerr
		}
		v := int64(special&0x1f)<<8 | int64(next)
		if v >= 1<<12 {
			v -= 1 << 13
		}
		res = formatInt(v)
	case special&0xf0 == 0xe0: // 12 bit string length
		next, nerr := c.Next()
		if nerr != nil {
			return nil, nerr
		}
		res, err = c.Take(int(special&0x0f)<<8|int(next), ErrInvalidListpack)
	case special == 0xf0: // 32 bit string length
		lenBytes, lerr := c.Take(4, ErrInvalidListpack)
		if lerr != nil {
			return nil, lerr
		}
		n := binary.LittleEndian.Uint32(lenBytes)
		if uint64(n) > uint64(len(c.Rest())) {
			return nil, c.FailAt(ErrInvalidListpack, at)
		}
		res, err = c.Take(int(n), ErrInvalidListpack)
	case special == 0xf1:
		var b []byte
		if b, err = c.Take(2, ErrInvalidListpack); err == nil {
			res = formatInt(int64(int16(binary.LittleEndian.Uint16(b))))
		}
	case special == 0xf2:
		var b []byte
		if b, err = c.Take(3, ErrInvalidListpack); err == nil {
			res = formatInt(int64(int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8))
		}
	case special == 0xf3:
		var b []byte
		if b, err = c.Take(4, ErrInvalidListpack); err == nil {
			res = formatInt(int64(int32(binary.LittleEndian.Uint32(b))))
		}
	case special == 0xf4:
		var b []byte
		if b, err = c.Take(8, ErrInvalidListpack); err == nil {
			res = formatInt(int64(binary.LittleEndian.Uint64(b)))
		}
	default:
		return nil, c.FailAt(ErrInvalidListpack, at)
	}
	if err != nil {
		return nil, err
	}

	// element-total-len
	if err := c.AdvanceOr(backlenSize(c.Position()-at), ErrInvalidListpack); err != nil {
		return nil, err
	}
	return res, nil
}

func backlenSize(l int) int {
	switch {
	case l <= 127:
		return 1
	case l < 16383:
		return 2
	case l < 2097151:
		return 3
	case l < 268435455:
		return 4
	}
	return 5
}

func (sd StreamId) String() string {
	return strconv.FormatUint(sd.Ms, 10) + "-" + strconv.FormatUint(sd.Sequence, 10)
}

func (sd StreamId) MarshalText() ([]byte, error) {
	return []byte(sd.String()), nil
}

func (rs RedisStream) Type() protocol.DataType {
	return protocol.Stream
}

func (rs RedisStream) String() string {
	return fmt.Sprintf("{Stream: {Field: %s, Value: %s}}", rs.Field, rs.Value())
}

func (rs RedisStream) Key() string {
	return rs.Field.Key
}

func (rs RedisStream) Value() string {
	format := struct {
		LastId  StreamId      `json:"last_id"`
		Length  uint64        `json:"length"`
		Entries []StreamEntry `json:"entries,omitempty"`
		Groups  []StreamGroup `json:"groups,omitempty"`
	}{rs.LastId, rs.Length, rs.Entries, rs.Groups}
	output, _ := json.Marshal(format)
	return string(output)
}

// ConcreteSize counts the field and value bytes of live entries.
func (rs RedisStream) ConcreteSize() uint64 {
	var size uint64
	for _, e := range rs.Entries {
		if e.Deleted {
			continue
		}
		for _, f := range e.Fields {
			size += uint64(len(f.Field) + len(f.Value))
		}
	}
	return size
}
