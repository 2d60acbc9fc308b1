package counter

import (
	"strings"
	"unicode/utf8"
)

// unitCounter counts with a stateless function.
type unitCounter struct {
	name  string
	count func(string) int
}

func (u unitCounter) Count(text string) int { return u.count(text) }

func (u unitCounter) Name() string { return u.name }

// NewWordCounter counts whitespace-separated words.
func NewWordCounter() Counter {
	return unitCounter{
		name:  "words",
		count: func(text string) int { return len(strings.Fields(text)) },
	}
}

// NewCharCounter counts Unicode code points, whitespace included.
func NewCharCounter() Counter {
	return unitCounter{name: "characters", count: utf8.RuneCountInString}
}
