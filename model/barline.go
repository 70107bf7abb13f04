package model

import (
	"strconv"
	"strings"

	"github.com/jsphweid/leadsheet/theory"
)

// Barline is the notation at a bar boundary. A repeat count of zero means
// the count was not written.
type Barline struct {
	Double      bool
	RepeatClose bool
	CloseCount  int
	RepeatOpen  bool
	OpenCount   int
}

var SingleBarline = Barline{}

func (b Barline) String() string {
	var sb strings.Builder
	if b.RepeatClose {
		sb.WriteString(":")
		if b.CloseCount > 0 {
			sb.WriteString(strconv.Itoa(b.CloseCount) + "x")
		}
	}
	if b.Double {
		sb.WriteString("||")
	} else {
		sb.WriteString("|")
	}
	if b.RepeatOpen {
		if b.OpenCount > 0 {
			sb.WriteString(strconv.Itoa(b.OpenCount) + "x")
		}
		sb.WriteString(":")
	}
	return sb.String()
}

type Bar struct {
	Slots   []Chordish
	Open    Barline
	Close   Barline
	Section string
}

func (b Bar) Transpose(halfSteps int, preferred theory.Accidental) Bar {
	slots := make([]Chordish, len(b.Slots))
	for i, s := range b.Slots {
		slots[i] = s.Transpose(halfSteps, preferred)
	}
	b.Slots = slots
	return b
}

func (b Bar) dup() Bar {
	b.Slots = append([]Chordish(nil), b.Slots...)
	return b
}
