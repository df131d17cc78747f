package generator

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/8090Lambert/go-parsehelper/protocol"
	"github.com/fatih/color"
)

var turns = []protocol.DataType{protocol.String, protocol.Hash, protocol.List, protocol.SortedSet, protocol.Set, protocol.Stream, protocol.Command}

type Gather struct {
	Count uint64
	Size  uint64
}

type Biggest struct {
	Key  string
	Size uint64
}

// Summary counts keys per data type and remembers the biggest of each.
type Summary struct {
	KeysCount uint64
	KeysSize  uint64
	Gather    map[protocol.DataType]*Gather
	Biggest   map[protocol.DataType]Biggest
	mu        sync.Mutex
}

func NewSummary() *Summary {
	return &Summary{
		Gather:  make(map[protocol.DataType]*Gather),
		Biggest: make(map[protocol.DataType]Biggest),
	}
}

func (s *Summary) Add(entity protocol.TypeObject) {
	switch entity.Type() {
	case protocol.Aux, protocol.SelectDB, protocol.ResizeDB:
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	size := entity.ConcreteSize()
	s.KeysCount++
	s.KeysSize += uint64(len(entity.Key()))

	g, ok := s.Gather[entity.Type()]
	if !ok {
		g = &Gather{}
		s.Gather[entity.Type()] = g
	}
	g.Count++
	g.Size += size

	if b, ok := s.Biggest[entity.Type()]; !ok || size > b.Size {
		s.Biggest[entity.Type()] = Biggest{Key: entity.Key(), Size: size}
	}
}

func (s *Summary) Print(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := color.New(color.FgGreen, color.Bold)
	title.Fprintf(w, "# Scanning the dump to find biggest keys\n\n")
	fmt.Fprintf(w, "-------- summary -------\n\n")
	fmt.Fprintf(w, "Sampled %d keys in the keyspace!\n", s.KeysCount)
	fmt.Fprintf(w, "Total key length in bytes is %d\n\n", s.KeysSize)

	for _, t := range turns {
		if b, ok := s.Biggest[t]; ok {
			fmt.Fprintf(w, "Biggest %9s found '%s' has %s bytes\n", strings.ToLower(string(t)), color.YellowString(b.Key), color.CyanString("%d", b.Size))
		}
	}
	fmt.Fprintln(w)

	for _, t := range turns {
		if g, ok := s.Gather[t]; ok {
			fmt.Fprintf(w, "%d %s with %d bytes\n", g.Count, strings.ToLower(string(t)), g.Size)
		}
	}
}
