package theory

import (
	"fmt"
	"strings"

	"github.com/jsphweid/leadsheet/util"
)

// Accidental is a spelling preference for pitch classes that have no
// natural name.
type Accidental int

const (
	AccidentalNone Accidental = iota
	Sharp
	Flat
)

func (a Accidental) String() string {
	switch a {
	case Sharp:
		return "sharp"
	case Flat:
		return "flat"
	}
	return "none"
}

// Letter is a spelled note name: a natural A-G raised or lowered by up to two
// half steps.
type Letter struct {
	Natural    byte
	Accidental int8
}

var naturalPitches = map[byte]PitchClass{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

const naturals = "CDEFGAB"

// NewLetter builds a Letter. natural must be one of A-G and accidental within
// [-2, 2]; anything else is a programming error.
func NewLetter(natural byte, accidental int) Letter {
	if _, ok := naturalPitches[natural]; !ok {
		panic(fmt.Sprintf("theory: invalid natural %q", natural))
	}
	if accidental < -2 || accidental > 2 {
		panic(fmt.Sprintf("theory: invalid accidental %d", accidental))
	}
	return Letter{Natural: natural, Accidental: int8(accidental)}
}

func (l Letter) PitchClass() PitchClass {
	return naturalPitches[l.Natural].Transpose(int(l.Accidental))
}

func (l Letter) IsNatural() bool {
	return l.Accidental == 0
}

// Direction is the accidental this letter is already spelled with; naturals
// count as sharp.
func (l Letter) Direction() Accidental {
	if l.Accidental < 0 {
		return Flat
	}
	return Sharp
}

func (l Letter) String() string {
	return string(l.Natural) + l.AccidentalText("#", "b")
}

// AccidentalText renders the accidental part of l with the given sharp and
// flat symbols, repeated for double accidentals.
func (l Letter) AccidentalText(sharp, flat string) string {
	switch {
	case l.Accidental > 0:
		return strings.Repeat(sharp, int(l.Accidental))
	case l.Accidental < 0:
		return strings.Repeat(flat, int(-l.Accidental))
	}
	return ""
}

// Less orders letters lexicographically by their plain spelling.
func (l Letter) Less(other Letter) bool {
	return l.String() < other.String()
}

// Spelling is the set of single-accidental names of one pitch class.
type Spelling struct {
	natural, flat, sharp          Letter
	hasNatural, hasFlat, hasSharp bool
}

func (s Spelling) Natural() (Letter, bool) { return s.natural, s.hasNatural }
func (s Spelling) Flat() (Letter, bool)    { return s.flat, s.hasFlat }
func (s Spelling) Sharp() (Letter, bool)   { return s.sharp, s.hasSharp }

// Letters lists the defined spellings: natural, then flat, then sharp.
func (s Spelling) Letters() []Letter {
	var res []Letter
	if s.hasNatural {
		res = append(res, s.natural)
	}
	if s.hasFlat {
		res = append(res, s.flat)
	}
	if s.hasSharp {
		res = append(res, s.sharp)
	}
	return res
}

var enharmonics = buildEnharmonics()

func buildEnharmonics() [Octave]Spelling {
	var table [Octave]Spelling
	for i := 0; i < len(naturals); i++ {
		n := naturals[i]
		pc := naturalPitches[n]

		table[pc].natural, table[pc].hasNatural = Letter{Natural: n}, true

		flat := pc.Transpose(-1)
		table[flat].flat, table[flat].hasFlat = Letter{Natural: n, Accidental: -1}, true

		sharp := pc.Transpose(1)
		table[sharp].sharp, table[sharp].hasSharp = Letter{Natural: n, Accidental: 1}, true
	}
	return table
}

// Enharmonics returns every single-accidental spelling of pc.
func Enharmonics(pc PitchClass) Spelling {
	return enharmonics[util.Mod(int(pc), Octave)]
}

// Spell names pc, always using the natural when there is one. Otherwise the
// preferred accidental is used, defaulting to sharp.
func Spell(pc PitchClass, preferred Accidental) Letter {
	s := Enharmonics(pc)
	if n, ok := s.Natural(); ok {
		return n
	}
	if preferred == Flat {
		if f, ok := s.Flat(); ok {
			return f
		}
	}
	sharp, _ := s.Sharp()
	return sharp
}

// TransposeLetter shifts l by halfSteps. Shifts by whole octaves leave the
// spelling untouched; otherwise the destination is spelled with Spell, so no
// preference means sharp. Pass l.Direction() to keep l's spelling direction.
func TransposeLetter(l Letter, halfSteps int, preferred Accidental) Letter {
	if util.Mod(halfSteps, Octave) == 0 {
		return l
	}
	return Spell(l.PitchClass().Transpose(halfSteps), preferred)
}
