package rdb

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/8090Lambert/go-parsehelper/protocol"
	"github.com/tliron/commonlog"
)

const (
	// Redis Object type
	TypeString = iota
	TypeList
	TypeSet
	TypeZset
	TypeHash
	TypeZset2 /* ZSET version 2 with doubles stored in binary. */
	TypeModule
	TypeModule2
	_
	TypeHashZipMap
	TypeListZipList
	TypeSetIntSet
	TypeZsetZipList
	TypeHashZipList
	TypeListQuickList
	TypeStreamListPacks

	// Redis RDB protocol
	FlagOpcodeModuleAux    = 247 /* Module auxiliary data. */
	FlagOpcodeIdle         = 248 /* LRU idle time. */
	FlagOpcodeFreq         = 249 /* LFU frequency. */
	FlagOpcodeAux          = 250 /* RDB aux field. */
	FlagOpcodeResizeDB     = 251 /* Hash table resize hint. */
	FlagOpcodeExpireTimeMs = 252 /* Expire time in milliseconds. */
	FlagOpcodeExpireTime   = 253 /* Old expire time in seconds. */
	FlagOpcodeSelectDB     = 254 /* DB number of the following keys. */
	FlagOpcodeEOF          = 255

	// Redis length type
	Type6Bit   = 0
	Type14Bit  = 1
	Type32Bit  = 0x80
	Type64Bit  = 0x81
	TypeEncVal = 3
)

const (
	EncodeInt8 = iota
	EncodeInt16
	EncodeInt32
	EncodeLZF

	REDIS      = "REDIS"
	VersionMin = 1
	VersionMax = 9

	// Dumps from version 5 on end with a CRC64 of the whole file.
	checksumVersion = 5
)

var (
	PosInf = math.Inf(1)
	NegInf = math.Inf(-1)
	Nan    = math.NaN()

	log = commonlog.GetLogger("go-redis-parser.rdb")
)

type ParseRdb struct {
	cur      *cursor
	version  int
	checksum uint64
	db       uint64
	entries  []protocol.TypeObject
}

func NewRDB(file string) (protocol.Parser, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read rdb file: %w", err)
	}
	return NewRDBFromBytes(data), nil
}

func NewRDBFromBytes(data []byte) *ParseRdb {
	return &ParseRdb{cur: newCursor(data)}
}

func (r *ParseRdb) Parse() error {
	if err := r.layoutCheck(); err != nil {
		return err
	}
	return r.start()
}

func (r *ParseRdb) Entries() []protocol.TypeObject {
	return r.entries
}

func (r *ParseRdb) Version() int {
	return r.version
}

// Checksum returns the trailing CRC64 as stored in the file. It is not verified.
func (r *ParseRdb) Checksum() uint64 {
	return r.checksum
}

// Consumed returns the number of bytes the dump occupied.
func (r *ParseRdb) Consumed() int {
	return r.cur.Position()
}

// 9 bytes length include: 5 bytes "REDIS" and 4 bytes version in rdb.file
func (r *ParseRdb) layoutCheck() error {
	if r.cur.Len() == 0 {
		return r.cur.UnexpectedEndOfInput()
	}
	if err := r.cur.ExpectBytes([]byte(REDIS), ErrBadMagic); err != nil {
		return err
	}

	start := r.cur.Position()
	for i := 0; i < 4; i++ {
		if err := r.cur.ExpectPred(isDigit, ErrBadVersion); err != nil {
			return err
		}
	}
	version, _ := strconv.Atoi(string(r.cur.Slice(start, r.cur.Position())))
	if version < VersionMin || version > VersionMax {
		return r.cur.FailAt(ErrBadVersion, start)
	}
	r.version = version
	log.Debugf("rdb version %d, %d bytes", version, r.cur.Len())

	return nil
}

func (r *ParseRdb) start() error {
	var expire int64 = -1
	for {
		at := r.cur.Position()
		t, err := r.cur.Next()
		if err != nil {
			return err
		}

		switch t {
		case FlagOpcodeIdle:
			_, _, err = r.loadLen() // lru idle
		case FlagOpcodeFreq:
			_, err = r.cur.Next() // lfu freq
		case FlagOpcodeAux:
			err = r.readAux()
		case FlagOpcodeResizeDB:
			err = r.readResize()
		case FlagOpcodeExpireTimeMs:
			var b []byte
			if b, err = r.cur.Take(8, ErrUnexpectedEOF); err == nil {
				expire = int64(binary.LittleEndian.Uint64(b))
			}
		case FlagOpcodeExpireTime:
			var b []byte
			if b, err = r.cur.Take(4, ErrUnexpectedEOF); err == nil {
				expire = int64(int32(binary.LittleEndian.Uint32(b))) * 1000
			}
		case FlagOpcodeSelectDB:
			err = r.readSelection()
		case FlagOpcodeModuleAux:
			return r.cur.FailAt(ErrUnsupportedOpcode, at)
		case FlagOpcodeEOF:
			return r.readChecksum()
		default:
			var key []byte
			if key, err = r.loadString(); err != nil {
				return err
			}
			err = r.loadObject(NewKeyObject(r.db, key, expire), t, at)
			expire = -1
		}
		if err != nil {
			return err
		}
	}
}

func (r *ParseRdb) readChecksum() error {
	if r.version < checksumVersion {
		return nil
	}
	b, err := r.cur.Take(8, ErrUnexpectedEOF)
	if err != nil {
		return err
	}
	r.checksum = binary.LittleEndian.Uint64(b)
	log.Debugf("rdb checksum %016x", r.checksum)
	return nil
}

func (r *ParseRdb) loadObject(key KeyObject, t byte, at int) error {
	log.Debugf("value type %d for key %q at %d", t, key.Key, at)
	switch t {
	case TypeString:
		return r.readString(key)
	case TypeList:
		return r.readList(key)
	case TypeSet:
		return r.readSet(key)
	case TypeZset, TypeZset2:
		return r.readZSet(key, t)
	case TypeHash:
		return r.readHashMap(key)
	case TypeListQuickList: // quicklist + ziplist to realize linked list
		return r.readListWithQuickList(key)
	case TypeHashZipMap:
		return r.readHashMapWithZipmap(key)
	case TypeListZipList:
		return r.readListWithZipList(key)
	case TypeSetIntSet:
		return r.readIntSet(key)
	case TypeZsetZipList:
		return r.readZipListSortSet(key)
	case TypeHashZipList:
		return r.readHashMapZiplist(key)
	case TypeStreamListPacks:
		return r.readStream(key)
	}
	return r.cur.FailAt(ErrUnsupportedType, at)
}

func (r *ParseRdb) loadLen() (uint64, bool, error) {
	at := r.cur.Position()
	b, err := r.cur.Next()
	if err != nil {
		return 0, false, err
	}

	switch typeLen := b >> 6; {
	case typeLen == TypeEncVal:
		return uint64(b & 0x3f), true, nil
	case typeLen == Type6Bit:
		return uint64(b & 0x3f), false, nil
	case typeLen == Type14Bit:
		nb, err := r.cur.Next()
		if err != nil {
			return 0, false, err
		}
		return uint64(b&0x3f)<<8 | uint64(nb), false, nil
	case b == Type32Bit:
		buf, err := r.cur.Take(4, ErrUnexpectedEOF)
		if err != nil {
			return 0, false, err
		}
		return uint64(binary.BigEndian.Uint32(buf)), false, nil
	case b == Type64Bit:
		buf, err := r.cur.Take(8, ErrUnexpectedEOF)
		if err != nil {
			return 0, false, err
		}
		return binary.BigEndian.Uint64(buf), false, nil
	}

	return 0, false, r.cur.FailAt(ErrUnknownLengthEncoding, at)
}

// loadCount reads a collection length and bounds it by the remaining input.
func (r *ParseRdb) loadCount() (int, error) {
	at := r.cur.Position()
	length, _, err := r.loadLen()
	if err != nil {
		return 0, err
	}
	if length > uint64(len(r.cur.Rest())) {
		return 0, r.cur.FailAt(ErrLengthOverflow, at)
	}
	return int(length), nil
}

func (r *ParseRdb) take(n uint64) ([]byte, error) {
	if n > uint64(r.cur.Len()) {
		return nil, r.cur.Fail(ErrLengthOverflow)
	}
	return r.cur.Take(int(n), ErrUnexpectedEOF)
}

func (r *ParseRdb) loadString() ([]byte, error) {
	at := r.cur.Position()
	length, needEncode, err := r.loadLen()
	if err != nil {
		return nil, err
	}
	if !needEncode {
		return r.take(length)
	}

	switch length {
	case EncodeInt8:
		b, err := r.cur.Next()
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, int64(int8(b)), 10), nil
	case EncodeInt16:
		b, err := r.cur.Take(2, ErrUnexpectedEOF)
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, int64(int16(binary.LittleEndian.Uint16(b))), 10), nil
	case EncodeInt32:
		b, err := r.cur.Take(4, ErrUnexpectedEOF)
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, int64(int32(binary.LittleEndian.Uint32(b))), 10), nil
	case EncodeLZF:
		return r.loadLZF()
	}

	return nil, r.cur.FailAt(ErrUnknownStringEncoding, at)
}

func (r *ParseRdb) loadFloat() (float64, error) {
	at := r.cur.Position()
	b, err := r.cur.Next()
	if err != nil {
		return 0, err
	}
	switch b {
	case 0xff:
		return NegInf, nil
	case 0xfe:
		return PosInf, nil
	case 0xfd:
		return Nan, nil
	}

	floatBytes, err := r.cur.Take(int(b), ErrUnexpectedEOF)
	if err != nil {
		return 0, err
	}
	float, err := strconv.ParseFloat(string(floatBytes), 64)
	if err != nil {
		return 0, r.cur.FailAt(ErrInvalidFloat, at)
	}
	return float, nil
}

// 8 bytes float64, follow IEEE754 float64 stddef (standard definitions)
func (r *ParseRdb) loadBinaryFloat() (float64, error) {
	b, err := r.cur.Take(8, ErrUnexpectedEOF)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (r *ParseRdb) loadLZF() ([]byte, error) {
	clen, _, err := r.loadLen()
	if err != nil {
		return nil, err
	}
	ulen, _, err := r.loadLen()
	if err != nil {
		return nil, err
	}
	at := r.cur.Position()
	val, err := r.take(clen)
	if err != nil {
		return nil, err
	}
	if ulen > clen*lzfMaxRatio {
		return nil, r.cur.FailAt(ErrInvalidLZF, at)
	}
	res, err := lzfDecompress(val, int(ulen))
	if err != nil {
		return nil, retag(err, at)
	}
	return res, nil
}

// loadBlob reads an encoded string and returns it with its file offset.
func (r *ParseRdb) loadBlob() ([]byte, int, error) {
	at := r.cur.Position()
	b, err := r.loadString()
	return b, at, err
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
