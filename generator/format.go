package generator

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/8090Lambert/go-parsehelper/protocol"
)

var csvHeader = []string{"DataType", "Key", "Value", "Size(bytes)"}

type Csv struct {
	w      *csv.Writer
	header bool
}

func NewCsv(w io.Writer) *Csv {
	return &Csv{w: csv.NewWriter(w)}
}

func (c *Csv) Put(entity protocol.TypeObject) error {
	if !c.header {
		if err := c.w.Write(csvHeader); err != nil {
			return err
		}
		c.header = true
	}
	return c.w.Write([]string{
		string(entity.Type()),
		entity.Key(),
		entity.Value(),
		strconv.FormatUint(entity.ConcreteSize(), 10),
	})
}

func (c *Csv) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

type jsonEntity struct {
	Type  protocol.DataType `json:"type"`
	Key   string            `json:"key"`
	Value string            `json:"value"`
	Size  uint64            `json:"size"`
}

// Json writes entities as one JSON array.
type Json struct {
	w     *bufio.Writer
	count int
}

func NewJson(w io.Writer) *Json {
	return &Json{w: bufio.NewWriter(w)}
}

func (j *Json) Put(entity protocol.TypeObject) error {
	b, err := json.Marshal(jsonEntity{
		Type:  entity.Type(),
		Key:   entity.Key(),
		Value: entity.Value(),
		Size:  entity.ConcreteSize(),
	})
	if err != nil {
		return err
	}
	sep := ","
	if j.count == 0 {
		sep = "["
	}
	j.count++
	if _, err := j.w.WriteString(sep); err != nil {
		return err
	}
	_, err = j.w.Write(b)
	return err
}

func (j *Json) Flush() error {
	end := "]\n"
	if j.count == 0 {
		end = "[]\n"
	}
	if _, err := j.w.WriteString(end); err != nil {
		return err
	}
	return j.w.Flush()
}
