package chord

import "fmt"

// QualityID names one canonical quality. Every spelling that denotes the
// same harmony identifies to the same QualityID.
type QualityID string

const (
	Power            QualityID = "power"
	MajorID          QualityID = "major"
	MinorID          QualityID = "minor"
	AugmentedID      QualityID = "augmented"
	DiminishedID     QualityID = "diminished"
	Dominant7        QualityID = "dominant-7"
	Major7           QualityID = "major-7"
	Minor7           QualityID = "minor-7"
	MinorMajor7      QualityID = "minor-major-7"
	Augmented7       QualityID = "augmented-7"
	AugmentedMajor7  QualityID = "augmented-major-7"
	HalfDiminished7  QualityID = "half-diminished-7"
	Diminished7      QualityID = "diminished-7"
	DiminishedMajor7 QualityID = "diminished-major-7"
	Major6           QualityID = "major-6"
	Minor6           QualityID = "minor-6"
	SixNineID        QualityID = "six-nine"
	MinorSixNine     QualityID = "minor-six-nine"

	unknownQualityID QualityID = "unknown"
)

const extendedSeparator = "/"

var triadIDs = map[Triad]QualityID{
	MajorTriad:      MajorID,
	MinorTriad:      MinorID,
	AugmentedTriad:  AugmentedID,
	DiminishedTriad: DiminishedID,
}

type tetradShape struct {
	triad Triad
	top   Top
}

var tetradIDs = map[tetradShape]QualityID{
	{MajorTriad, MinorSeventh}:           Dominant7,
	{MajorTriad, MajorSeventh}:           Major7,
	{MinorTriad, MinorSeventh}:           Minor7,
	{MinorTriad, MajorSeventh}:           MinorMajor7,
	{AugmentedTriad, MinorSeventh}:       Augmented7,
	{AugmentedTriad, MajorSeventh}:       AugmentedMajor7,
	{DiminishedTriad, MinorSeventh}:      HalfDiminished7,
	{DiminishedTriad, DiminishedSeventh}: Diminished7,
	{DiminishedTriad, MajorSeventh}:      DiminishedMajor7,
	{MajorTriad, MajorSixth}:             Major6,
	{MinorTriad, MajorSixth}:             Minor6,
	{MajorTriad, SixNine}:                SixNineID,
	{MinorTriad, SixNine}:                MinorSixNine,
}

// Identify names q. Extended tetrads keep their family and append the
// extent, e.g. "dominant-7/13".
func Identify(q Quality) QualityID {
	switch q := q.(type) {
	case Dyad:
		return Power
	case Triad:
		if id, ok := triadIDs[q]; ok {
			return id
		}
	case Tetrad:
		id, ok := tetradIDs[tetradShape{q.Triad, q.Top}]
		if !ok {
			break
		}
		if q.Extent != 0 {
			return QualityID(fmt.Sprintf("%s%s%d", id, extendedSeparator, q.Extent))
		}
		return id
	}
	return unknownQualityID
}

// Canonicalize folds alterations that only restate a quality into the
// quality itself:
//
//  1. add 6 on a major or minor triad becomes the sixth tetrad;
//  2. add 9 on a sixth tetrad then becomes the six-nine tetrad;
//  3. a major or minor 7 on a triad becomes the matching seventh tetrad,
//     raise 5 on a major-based chord makes it augmented and lower 5 on a
//     minor-based chord makes it diminished.
//
// The tonic and every other alteration are left alone.
func Canonicalize(c Chord) Chord {
	q := c.Quality
	alts := Normalize(c.Alterations)

	if t, ok := q.(Triad); ok && (t == MajorTriad || t == MinorTriad) {
		if rest, found := remove(alts, Alter(Add, 6)); found {
			q, alts = NewTetrad(t, MajorSixth, 0), rest
		}
	}

	if t, ok := q.(Tetrad); ok && t.Top == MajorSixth {
		if rest, found := remove(alts, Alter(Add, 9)); found {
			q, alts = NewTetrad(t.Triad, SixNine, 0), rest
		}
	}

	if t, ok := q.(Triad); ok {
		if rest, found := remove(alts, Alter(Majorize, 7)); found {
			q, alts = NewTetrad(t, MajorSeventh, 0), rest
		} else if rest, found := remove(alts, Alter(Minorize, 7)); found {
			q, alts = NewTetrad(t, MinorSeventh, 0), rest
		}
	}
	q, alts = foldFifth(q, alts)

	return Chord{Tonic: c.Tonic, Quality: q, Alterations: alts}
}

// foldFifth absorbs a raised fifth into a major-based triad or seventh chord
// and a lowered fifth into a minor-based one.
func foldFifth(q Quality, alts []Alteration) (Quality, []Alteration) {
	var triad Triad
	var tetrad Tetrad
	switch v := q.(type) {
	case Triad:
		triad = v
	case Tetrad:
		if !v.Top.IsSeventh() || v.Top == DiminishedSeventh {
			return q, alts
		}
		tetrad, triad = v, v.Triad
	default:
		return q, alts
	}

	var folded Triad
	var rest []Alteration
	var found bool
	switch triad {
	case MajorTriad:
		rest, found = remove(alts, Alter(Raise, 5))
		folded = AugmentedTriad
	case MinorTriad:
		rest, found = remove(alts, Alter(Lower, 5))
		folded = DiminishedTriad
	}
	if !found {
		return q, alts
	}
	if _, ok := q.(Triad); ok {
		return folded, rest
	}
	return NewTetrad(folded, tetrad.Top, tetrad.Extent), rest
}

func remove(alts []Alteration, target Alteration) ([]Alteration, bool) {
	for i, a := range alts {
		if a == target {
			rest := append([]Alteration(nil), alts[:i]...)
			return append(rest, alts[i+1:]...), true
		}
	}
	return alts, false
}
