package chord

import "fmt"

// Quality is the shape of a chord independent of its tonic. It is a closed
// union: Dyad, Triad and Tetrad are the only implementations.
type Quality interface {
	isQuality()
	fmt.Stringer
}

// Dyad is a power chord: root and perfect fifth, no third.
type Dyad struct{}

// Triad is a third plus a fifth.
type Triad int

const (
	MajorTriad      Triad = iota // major third, perfect fifth
	MinorTriad                   // minor third, perfect fifth
	AugmentedTriad               // major third, sharp fifth
	DiminishedTriad              // minor third, flat fifth
)

// Top is the interval a Tetrad stacks on its triad. The seventh tops are
// tertian and extendable; the sixth tops are not.
type Top int

const (
	MinorSeventh Top = iota
	MajorSeventh
	DiminishedSeventh
	MajorSixth
	SixNine
)

func (t Top) IsSeventh() bool {
	return t == MinorSeventh || t == MajorSeventh || t == DiminishedSeventh
}

// Tetrad is a triad plus a seventh or sixth. Extent, when non-zero, is 9, 11
// or 13 and means every degree up to it is implied, using the seventh's
// quality; only seventh tetrads carry one.
type Tetrad struct {
	Triad  Triad
	Top    Top
	Extent int
}

func (Dyad) isQuality()   {}
func (Triad) isQuality()  {}
func (Tetrad) isQuality() {}

func (Dyad) String() string { return "power" }

func (t Triad) String() string {
	switch t {
	case MajorTriad:
		return "major"
	case MinorTriad:
		return "minor"
	case AugmentedTriad:
		return "augmented"
	case DiminishedTriad:
		return "diminished"
	}
	return fmt.Sprintf("Triad(%d)", int(t))
}

func (t Top) String() string {
	switch t {
	case MinorSeventh:
		return "minor-7"
	case MajorSeventh:
		return "major-7"
	case DiminishedSeventh:
		return "diminished-7"
	case MajorSixth:
		return "6"
	case SixNine:
		return "6/9"
	}
	return fmt.Sprintf("Top(%d)", int(t))
}

func (t Tetrad) String() string {
	s := t.Triad.String() + "+" + t.Top.String()
	if t.Extent != 0 {
		s += fmt.Sprintf("(%d)", t.Extent)
	}
	return s
}

// NewTetrad builds a tetrad, dropping an extent the top cannot carry and any
// extent other than 9, 11 or 13.
func NewTetrad(triad Triad, top Top, extent int) Tetrad {
	if !top.IsSeventh() {
		extent = 0
	}
	switch extent {
	case 9, 11, 13:
	default:
		extent = 0
	}
	return Tetrad{Triad: triad, Top: top, Extent: extent}
}

// Extendable reports whether q has a seventh and so may carry an extent.
func Extendable(q Quality) bool {
	t, ok := q.(Tetrad)
	return ok && t.Top.IsSeventh()
}

// BaseTriad is the triad q is built on. A Dyad has none.
func BaseTriad(q Quality) (Triad, bool) {
	switch q := q.(type) {
	case Triad:
		return q, true
	case Tetrad:
		return q.Triad, true
	}
	return 0, false
}

// IsMinor reports whether q has a minor third over a perfect fifth.
func IsMinor(q Quality) bool {
	t, ok := BaseTriad(q)
	return ok && t == MinorTriad
}
