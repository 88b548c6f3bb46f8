package binisaya

import "fmt"

// Location is a 1-based position in the source text.
type Location struct {
	Line int
	Col  int
}

func (l *Location) String() string {
	if l == nil {
		return "?:?"
	}

	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}
