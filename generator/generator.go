package generator

import "github.com/8090Lambert/go-parsehelper/protocol"

type Gen interface {
	Put(entity protocol.TypeObject) error
	Flush() error
}
