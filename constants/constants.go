package constants

// Parser modes.
const (
	UNKNOWN = iota
	RDBMOD
	AOFMOD
)

// Output formats.
const (
	FORMAT_CSV = iota
	FORMAT_JSON
)

func Format(name string) (int, bool) {
	switch name {
	case "", "csv":
		return FORMAT_CSV, true
	case "json":
		return FORMAT_JSON, true
	}
	return 0, false
}
