package parser

import (
	"errors"
	"fmt"

	"github.com/jsphweid/leadsheet/grammar"
)

// ParseError is input the grammar does not accept.
type ParseError struct {
	Message string
	Line    int
	Column  int
	Offset  int
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Message
}

// ValidationError is input the grammar accepts but that does not describe a
// valid song, such as an unknown key or conflicting repeat barlines.
type ValidationError struct {
	Message string
	Line    int
	Column  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func newParseError(err error) error {
	var me *grammar.MatchError
	if !errors.As(err, &me) {
		return err
	}
	return &ParseError{Message: me.Error(), Line: me.Line, Column: me.Column, Offset: me.Offset}
}

// position converts a byte offset to a 1-based line and rune column.
func position(input string, offset int) (int, int) {
	line, col := 1, 1
	for _, r := range input[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
