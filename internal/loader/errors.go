package loader

import "fmt"

// ParseError reports a malformed numeric or boolean field. It aborts the
// whole load.
type ParseError struct {
	File  string
	Row   int
	Field string
	Value string
	Kind  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d: invalid %s value %q (%s)", e.File, e.Row, e.Kind, e.Value, e.Field)
}
