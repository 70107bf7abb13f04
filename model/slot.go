package model

import (
	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/theory"
)

// Chordish is the content of one slot in a bar.
type Chordish interface {
	isChordish()
	Transpose(halfSteps int, preferred theory.Accidental) Chordish
}

type PlainChord struct {
	Chord chord.Chord
}

// OptionalChord is a chord written in parentheses, played at the player's
// discretion.
type OptionalChord struct {
	Chord chord.Chord
}

type NoChord struct{}

// RepeatPreviousChord repeats whatever sounded last.
type RepeatPreviousChord struct{}

func (PlainChord) isChordish()          {}
func (OptionalChord) isChordish()       {}
func (NoChord) isChordish()             {}
func (RepeatPreviousChord) isChordish() {}

func (p PlainChord) Transpose(halfSteps int, preferred theory.Accidental) Chordish {
	return PlainChord{Chord: p.Chord.Transpose(halfSteps, preferred)}
}

func (o OptionalChord) Transpose(halfSteps int, preferred theory.Accidental) Chordish {
	return OptionalChord{Chord: o.Chord.Transpose(halfSteps, preferred)}
}

func (n NoChord) Transpose(int, theory.Accidental) Chordish { return n }

func (r RepeatPreviousChord) Transpose(int, theory.Accidental) Chordish { return r }

// Sounding returns the chord a slot carries, if any.
func Sounding(c Chordish) (chord.Chord, bool) {
	switch c := c.(type) {
	case PlainChord:
		return c.Chord, true
	case OptionalChord:
		return c.Chord, true
	}
	return chord.Chord{}, false
}
