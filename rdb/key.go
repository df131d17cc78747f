package rdb

import (
	"fmt"
	"time"
)

type KeyObject struct {
	DB     uint64
	Key    string
	Expire time.Time
}

func NewKeyObject(db uint64, key []byte, expire int64) KeyObject {
	k := KeyObject{DB: db, Key: string(key)}

	if expire > 0 {
		k.Expire = time.UnixMilli(expire).UTC()
	}

	return k
}

// Whether the key has expired until now.
func (k KeyObject) Expired() bool {
	return !k.Expire.IsZero() && k.Expire.Before(time.Now())
}

func (k KeyObject) String() string {
	if !k.Expire.IsZero() {
		return fmt.Sprintf("{ExpiryTime: %s, Key: %s}", k.Expire.Format(time.RFC3339), k.Key)
	}

	return k.Key
}
