package protocol

const (
	Aux       DataType = "Aux"
	SelectDB  DataType = "SelectDB"
	ResizeDB  DataType = "ResizeDB"
	String    DataType = "String"
	Hash      DataType = "Hash"
	Set       DataType = "Set"
	SortedSet DataType = "SortedSet"
	List      DataType = "List"
	Stream    DataType = "Stream"
	Command   DataType = "Command"
)

type DataType string

type Parser interface {
	Parse() error
	Entries() []TypeObject
}

type TypeObject interface {
	String() string       // Print string
	Type() DataType       // Redis data type
	Key() string          // Key or name of the entry
	Value() string        // Flattened value
	ConcreteSize() uint64 // Data bytes size, except metadata
}
