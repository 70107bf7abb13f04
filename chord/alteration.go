package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/leadsheet/theory"
	"github.com/jsphweid/leadsheet/util"
)

type AlterationKind int

const (
	Everything AlterationKind = iota // "alt"
	Majorize                         // make a degree major, e.g. (maj7)
	Minorize                         // make a degree minor, e.g. (m7)
	Suspend
	Raise
	Lower
	Add
	Omit
	Compound // slash chord; targets a bass Letter
)

var kindNames = map[AlterationKind]string{
	Everything: "everything",
	Majorize:   "major",
	Minorize:   "minor",
	Suspend:    "suspend",
	Raise:      "raise",
	Lower:      "lower",
	Add:        "add",
	Omit:       "omit",
	Compound:   "compound",
}

func (k AlterationKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("AlterationKind(%d)", int(k))
}

// tier is the position of a kind in the canonical alteration order.
func (k AlterationKind) tier() int {
	switch k {
	case Everything:
		return -1
	case Majorize, Minorize:
		return 0
	case Suspend:
		return 1
	case Raise, Lower:
		return 2
	case Add, Omit:
		return 3
	}
	return 4
}

// Alteration is one degree-level modification of a chord. Degree is the
// target for every kind but Compound, which targets Bass instead. Everything
// may have a zero Degree.
type Alteration struct {
	Kind   AlterationKind
	Degree int
	Bass   theory.Letter
}

func Alter(kind AlterationKind, degree int) Alteration {
	return Alteration{Kind: kind, Degree: degree}
}

func Slash(bass theory.Letter) Alteration {
	return Alteration{Kind: Compound, Bass: bass}
}

func (a Alteration) String() string {
	if a.Kind == Compound {
		return "compound " + a.Bass.String()
	}
	if a.Degree == 0 {
		return a.Kind.String()
	}
	return fmt.Sprintf("%v %d", a.Kind, a.Degree)
}

// Less is the canonical alteration order: by tier, then kind name, then
// larger degree first (or bass spelling for slash chords).
func (a Alteration) Less(b Alteration) bool {
	if a.Kind.tier() != b.Kind.tier() {
		return a.Kind.tier() < b.Kind.tier()
	}
	if a.Kind != b.Kind {
		return a.Kind.String() < b.Kind.String()
	}
	if a.Kind == Compound {
		return a.Bass.Less(b.Bass)
	}
	return a.Degree > b.Degree
}

// Normalize returns alts sorted into canonical order with exact duplicates
// removed. The input is not modified.
func Normalize(alts []Alteration) []Alteration {
	sorted := append([]Alteration(nil), alts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})
	return util.Dedupe(sorted)
}

// Transpose moves a slash chord's bass; every other kind is unaffected.
func (a Alteration) Transpose(halfSteps int, preferred theory.Accidental) Alteration {
	if a.Kind != Compound {
		return a
	}
	a.Bass = theory.TransposeLetter(a.Bass, halfSteps, preferred)
	return a
}
