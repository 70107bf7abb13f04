package theory

import "strings"

// Flavor is the mode of a key. Major and Minor are understood; anything else
// is carried as the raw, lower-cased text it was written with.
type Flavor string

const (
	Major Flavor = "major"
	Minor Flavor = "minor"
)

// ParseFlavor maps the common spellings of major and minor onto Major and
// Minor. Case matters only for the single-letter forms "M" and "m".
func ParseFlavor(s string) Flavor {
	s = strings.TrimSpace(s)
	switch s {
	case "", "M", "Δ":
		return Major
	case "m", "-", "−":
		return Minor
	}
	switch lower := strings.ToLower(s); lower {
	case "maj", "major", "ionian":
		return Major
	case "min", "minor", "aeolian":
		return Minor
	default:
		return Flavor(lower)
	}
}

func (f Flavor) Recognized() bool {
	return f == Major || f == Minor
}

// Key is a tonality. Its tonic is always stored in the conventional spelling
// for its flavor, see NewKey.
type Key struct {
	Tonic  Letter
	Flavor Flavor
}

// pitch classes whose conventional key spelling uses an accidental
var (
	majorFlatTonics  = map[PitchClass]bool{1: true, 3: true, 5: true, 8: true, 10: true}
	minorSharpTonics = map[PitchClass]bool{1: true, 4: true, 6: true, 8: true, 11: true}
	minorFlatTonics  = map[PitchClass]bool{10: true}
)

// NewKey re-spells tonic to its conventional form: a natural name always
// wins; major keys on Db, Eb, Ab and Bb are spelled flat; minor keys on C#,
// F# and G# are spelled sharp and Bb minor flat. Gb/F# major and Eb/D# minor
// keep the spelling they were given.
func NewKey(tonic Letter, flavor Flavor) Key {
	return Key{Tonic: conventionalTonic(tonic, flavor), Flavor: flavor}
}

func conventionalTonic(tonic Letter, flavor Flavor) Letter {
	pc := tonic.PitchClass()
	s := Enharmonics(pc)
	if n, ok := s.Natural(); ok {
		return n
	}
	var l Letter
	var ok bool
	switch {
	case flavor == Major && majorFlatTonics[pc]:
		l, ok = s.Flat()
	case flavor == Minor && minorSharpTonics[pc]:
		l, ok = s.Sharp()
	case flavor == Minor && minorFlatTonics[pc]:
		l, ok = s.Flat()
	}
	if ok {
		return l
	}
	return tonic
}

// signed accidental count of each major key: positive sharps, negative
// flats. The F#/Gb entry is chosen by spelling in Signature.
var majorSignatures = [Octave]int{
	0:  0,
	1:  -5,
	2:  2,
	3:  -3,
	4:  4,
	5:  -1,
	6:  6,
	7:  1,
	8:  -4,
	9:  3,
	10: -2,
	11: 5,
}

var (
	sharpOrder = []Letter{
		{'F', 1}, {'C', 1}, {'G', 1}, {'D', 1}, {'A', 1}, {'E', 1},
	}
	flatOrder = []Letter{
		{'B', -1}, {'E', -1}, {'A', -1}, {'D', -1}, {'G', -1}, {'C', -1},
	}
)

// relativeMajor is the tonic of the major key sharing k's signature.
func (k Key) relativeMajor() Letter {
	if k.Flavor == Minor {
		return TransposeLetter(k.Tonic, 3, k.Tonic.Direction())
	}
	return k.Tonic
}

// Signature lists the key signature accidentals in staff order. Keys with
// an unrecognized flavor have no signature.
func (k Key) Signature() []Letter {
	if !k.Flavor.Recognized() {
		return nil
	}
	major := k.relativeMajor()
	n := majorSignatures[major.PitchClass()]
	if n == 6 && major.Accidental < 0 {
		n = -6
	}
	switch {
	case n > 0:
		return append([]Letter(nil), sharpOrder[:n]...)
	case n < 0:
		return append([]Letter(nil), flatOrder[:-n]...)
	}
	return nil
}

// AccidentalPreference is the accidental the key signature uses, or
// AccidentalNone when the signature is empty or the flavor unknown.
func (k Key) AccidentalPreference() Accidental {
	sig := k.Signature()
	if len(sig) == 0 {
		return AccidentalNone
	}
	if sig[0].Accidental > 0 {
		return Sharp
	}
	return Flat
}

func (k Key) Transpose(halfSteps int) Key {
	return NewKey(TransposeLetter(k.Tonic, halfSteps, k.AccidentalPreference()), k.Flavor)
}

func (k Key) String() string {
	return k.Tonic.String() + " " + string(k.Flavor)
}
