// Package chord models chord symbols: a tonic, a canonical quality and an
// ordered list of alterations, plus the formatters that print them.
package chord

import (
	"github.com/jsphweid/leadsheet/theory"
)

type Chord struct {
	Tonic       theory.Letter
	Quality     Quality
	Alterations []Alteration
}

// New builds a canonical chord. The alterations are normalized and any that
// restate the quality are folded into it, see Canonicalize.
func New(tonic theory.Letter, quality Quality, alts ...Alteration) Chord {
	return Canonicalize(Chord{Tonic: tonic, Quality: quality, Alterations: alts})
}

// Equal compares tonic, quality and alteration list structurally.
func (c Chord) Equal(other Chord) bool {
	if c.Tonic != other.Tonic || c.Quality != other.Quality {
		return false
	}
	if len(c.Alterations) != len(other.Alterations) {
		return false
	}
	for i := range c.Alterations {
		if c.Alterations[i] != other.Alterations[i] {
			return false
		}
	}
	return true
}

func (c Chord) ID() QualityID {
	return Identify(c.Quality)
}

// Bass is the slash-chord bass, if any.
func (c Chord) Bass() (theory.Letter, bool) {
	for _, a := range c.Alterations {
		if a.Kind == Compound {
			return a.Bass, true
		}
	}
	return theory.Letter{}, false
}

func (c Chord) Transpose(halfSteps int, preferred theory.Accidental) Chord {
	alts := make([]Alteration, len(c.Alterations))
	for i, a := range c.Alterations {
		alts[i] = a.Transpose(halfSteps, preferred)
	}
	return Chord{
		Tonic:       theory.TransposeLetter(c.Tonic, halfSteps, preferred),
		Quality:     c.Quality,
		Alterations: Normalize(alts),
	}
}

func (c Chord) Print(f Formatter) string {
	return f.Format(c)
}

func (c Chord) String() string {
	return c.Print(Plain{})
}
