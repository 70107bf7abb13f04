package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/grammar"
	"github.com/jsphweid/leadsheet/model"
	"github.com/jsphweid/leadsheet/theory"
)

// evaluator walks one parse tree. section is the label of the last section
// header seen; it is the only state and lives for a single parse.
type evaluator struct {
	input   string
	section string
}

func newEvaluator(input string) *evaluator {
	return &evaluator{input: input}
}

func evalAs[T any](e *evaluator, n *grammar.Node) (T, error) {
	var zero T
	v, err := e.eval(n)
	if err != nil {
		return zero, err
	}
	res, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("parser: rule %s evaluated to %T, not %T", n.Rule, v, zero)
	}
	return res, nil
}

func (e *evaluator) invalid(offset int, format string, args ...any) error {
	line, col := position(e.input, offset)
	return &ValidationError{Message: fmt.Sprintf(format, args...), Line: line, Column: col}
}

// eval has one arm per rule of the chord, song and key grammars.
func (e *evaluator) eval(n *grammar.Node) (any, error) {
	switch n.Rule {
	case grammar.ChordOnly:
		return evalAs[chord.Chord](e, n.Child(grammar.Chord))
	case grammar.Chord:
		return e.chord(n)
	case grammar.Root:
		natural, err := evalAs[byte](e, n.Child(grammar.Natural))
		if err != nil {
			return nil, err
		}
		accidental := 0
		if a := n.Child(grammar.Accidental); a != nil {
			if accidental, err = evalAs[int](e, a); err != nil {
				return nil, err
			}
		}
		return theory.NewLetter(natural, accidental), nil
	case grammar.Natural:
		return n.Text[0], nil
	case grammar.Accidental:
		return accidentals[n.Text], nil

	case grammar.Sus, grammar.MinorMajor, grammar.AugmentedMajor, grammar.DiminishedMajor,
		grammar.Augmented, grammar.Diminished, grammar.HalfDiminished, grammar.Dominant,
		grammar.Delta, grammar.Major, grammar.Minor:
		return qualityTokens[n.Rule], nil

	case grammar.Extent:
		return extent(n.Text)
	case grammar.Degree:
		return strconv.Atoi(n.Text)

	case grammar.Everything:
		deg := 0
		if d := n.Child(grammar.Degree); d != nil {
			var err error
			if deg, err = evalAs[int](e, d); err != nil {
				return nil, err
			}
		}
		return chord.Alter(chord.Everything, deg), nil
	case grammar.Suspension:
		deg := 4
		if len(n.Text) > len("sus") {
			deg = int(n.Text[len("sus")] - '0')
		}
		return chord.Alter(chord.Suspend, deg), nil
	case grammar.AddDegree, grammar.PlainDegree:
		return e.degreeAlteration(chord.Add, n)
	case grammar.OmitDegree:
		return e.degreeAlteration(chord.Omit, n)
	case grammar.MajorDegree:
		return e.degreeAlteration(chord.Majorize, n)
	case grammar.MinorDegree:
		return e.degreeAlteration(chord.Minorize, n)
	case grammar.RaiseDegree:
		return e.degreeAlteration(chord.Raise, n)
	case grammar.LowerDegree:
		return e.degreeAlteration(chord.Lower, n)
	case grammar.SlashBass:
		bass, err := evalAs[theory.Letter](e, n.Child(grammar.Root))
		if err != nil {
			return nil, err
		}
		return chord.Slash(bass), nil

	case grammar.KeySpec:
		tonic, err := evalAs[theory.Letter](e, n.Child(grammar.Root))
		if err != nil {
			return nil, err
		}
		flavor := theory.Major
		if f := n.Child(grammar.KeyFlavor); f != nil {
			if flavor, err = evalAs[theory.Flavor](e, f); err != nil {
				return nil, err
			}
		}
		return theory.NewKey(tonic, flavor), nil
	case grammar.KeyFlavor:
		return theory.ParseFlavor(n.Text), nil

	case grammar.Song:
		return e.song(n)
	case grammar.Metadata:
		return e.metadata(n)
	case grammar.MetaKey:
		return strings.ToLower(n.Text), nil
	case grammar.MetaValue, grammar.SectionLabel:
		return strings.TrimSpace(n.Text), nil
	case grammar.SectionHeader:
		label, err := evalAs[string](e, n.Child(grammar.SectionLabel))
		if err != nil {
			return nil, err
		}
		e.section = label
		return nil, nil
	case grammar.BarSequence:
		return e.bars(n)
	case grammar.OptionalChord:
		c, err := evalAs[chord.Chord](e, n.Child(grammar.Chord))
		if err != nil {
			return nil, err
		}
		return model.OptionalChord{Chord: c}, nil
	case grammar.NoChord:
		return model.NoChord{}, nil
	case grammar.RepeatChord:
		return model.RepeatPreviousChord{}, nil
	case grammar.BarlineRun:
		res := make([]model.Barline, 0, len(n.Children))
		for _, c := range n.Children {
			b, err := evalAs[model.Barline](e, c)
			if err != nil {
				return nil, err
			}
			res = append(res, b)
		}
		return res, nil
	case grammar.Barline:
		return e.barline(n)
	case grammar.BarToken:
		return n.Text == "||", nil
	case grammar.RepeatOpen, grammar.RepeatClose:
		if c := n.Child(grammar.RepeatCount); c != nil {
			return evalAs[int](e, c)
		}
		return 0, nil
	case grammar.RepeatCount:
		end := strings.IndexFunc(n.Text, func(r rune) bool { return r < '0' || r > '9' })
		return strconv.Atoi(n.Text[:end])
	case grammar.Comment, grammar.Newline:
		return nil, nil

	case grammar.Quality, grammar.Alteration, grammar.BareAlteration, grammar.ParenAlterations,
		grammar.Whitespace, grammar.Line, grammar.Slots, grammar.Slot:
		return nil, fmt.Errorf("parser: inline rule %s produced a node", n.Rule)
	}
	return nil, fmt.Errorf("parser: no action for rule %s", n.Rule)
}

var accidentals = map[string]int{
	"#": 1, "♯": 1, "##": 2, "♯♯": 2, "𝄪": 2,
	"b": -1, "♭": -1, "bb": -2, "♭♭": -2, "𝄫": -2,
}

func (e *evaluator) degreeAlteration(kind chord.AlterationKind, n *grammar.Node) (chord.Alteration, error) {
	deg, err := evalAs[int](e, n.Child(grammar.Degree))
	if err != nil {
		return chord.Alteration{}, err
	}
	return chord.Alter(kind, deg), nil
}

var superscripts = strings.NewReplacer(
	"¹", "1", "²", "2", "³", "3", "⁴", "4", "⁵", "5", "⁶", "6", "⁷", "7", "⁹", "9",
)

const sixNine = 69

func extent(text string) (int, error) {
	switch text {
	case "6/9", "69", "6⁄9":
		return sixNine, nil
	}
	return strconv.Atoi(superscripts.Replace(text))
}

// qualityToken is what a written quality says before any extent is applied:
// the triad, the seventh a 7 would add, whether the seventh is implied
// without a 7 (as in CΔ or Cø), and whether the chord is suspended.
type qualityToken struct {
	triad   chord.Triad
	seventh chord.Top
	implied bool
	sus     bool
	written bool
}

var unwritten = qualityToken{triad: chord.MajorTriad, seventh: chord.MinorSeventh}

var qualityTokens = map[grammar.RuleName]qualityToken{
	grammar.Sus:             {chord.MajorTriad, chord.MinorSeventh, false, true, true},
	grammar.MinorMajor:      {chord.MinorTriad, chord.MajorSeventh, true, false, true},
	grammar.AugmentedMajor:  {chord.AugmentedTriad, chord.MajorSeventh, true, false, true},
	grammar.DiminishedMajor: {chord.DiminishedTriad, chord.MajorSeventh, true, false, true},
	grammar.Augmented:       {chord.AugmentedTriad, chord.MinorSeventh, false, false, true},
	grammar.Diminished:      {chord.DiminishedTriad, chord.DiminishedSeventh, false, false, true},
	grammar.HalfDiminished:  {chord.DiminishedTriad, chord.MinorSeventh, true, false, true},
	grammar.Dominant:        {chord.MajorTriad, chord.MinorSeventh, true, false, true},
	grammar.Delta:           {chord.MajorTriad, chord.MajorSeventh, true, false, true},
	grammar.Major:           {chord.MajorTriad, chord.MajorSeventh, false, false, true},
	grammar.Minor:           {chord.MinorTriad, chord.MinorSeventh, false, false, true},
}

// withExtent merges the token with the number written after it. Sixths,
// six-nines and suspensions come back as alterations, to be folded by
// chord.Canonicalize like their spelled-out forms.
func (t qualityToken) withExtent(ext int) (chord.Quality, []chord.Alteration) {
	var alts []chord.Alteration
	if t.sus && ext != 2 && ext != 4 {
		alts = append(alts, chord.Alter(chord.Suspend, 4))
	}
	switch ext {
	case 0:
		if t.implied {
			return chord.NewTetrad(t.triad, t.seventh, 0), alts
		}
		return t.triad, alts
	case 5:
		if t.written {
			return t.triad, alts
		}
		return chord.Dyad{}, alts
	case 2, 4:
		return t.triad, append(alts, chord.Alter(chord.Suspend, ext))
	case 6:
		return t.triad, append(alts, chord.Alter(chord.Add, 6))
	case sixNine:
		return t.triad, append(alts, chord.Alter(chord.Add, 6), chord.Alter(chord.Add, 9))
	case 7:
		return chord.NewTetrad(t.triad, t.seventh, 0), alts
	}
	return chord.NewTetrad(t.triad, t.seventh, ext), alts
}

func (e *evaluator) chord(n *grammar.Node) (chord.Chord, error) {
	tonic, err := evalAs[theory.Letter](e, n.Child(grammar.Root))
	if err != nil {
		return chord.Chord{}, err
	}
	token, ext := unwritten, 0
	var alts []chord.Alteration
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.Root:
		case grammar.Extent:
			if ext, err = evalAs[int](e, c); err != nil {
				return chord.Chord{}, err
			}
		default:
			if t, ok := qualityTokens[c.Rule]; ok {
				token = t
				continue
			}
			a, err := evalAs[chord.Alteration](e, c)
			if err != nil {
				return chord.Chord{}, err
			}
			alts = append(alts, a)
		}
	}
	q, implied := token.withExtent(ext)
	return chord.New(tonic, q, append(implied, alts...)...), nil
}

func (e *evaluator) song(n *grammar.Node) (model.Song, error) {
	var meta model.Metadata
	var key *theory.Key
	var bars []model.Bar
	for _, c := range n.Children {
		v, err := e.eval(c)
		if err != nil {
			return model.Song{}, err
		}
		switch v := v.(type) {
		case metaField:
			switch v.name {
			case "title":
				meta.Title = v.value
			case "artist":
				meta.Artist = v.value
			case "album":
				meta.Album = v.value
			case "year":
				meta.Year = v.value
			case "sig":
				meta.Sig = v.value
			case "key":
				k := v.key
				key = &k
			}
		case []model.Bar:
			bars = append(bars, v...)
		}
	}
	return model.NewSong(meta, bars, key), nil
}

type metaField struct {
	name, value string
	key         theory.Key
}

func (e *evaluator) metadata(n *grammar.Node) (metaField, error) {
	name, err := evalAs[string](e, n.Child(grammar.MetaKey))
	if err != nil {
		return metaField{}, err
	}
	valueNode := n.Child(grammar.MetaValue)
	value, err := evalAs[string](e, valueNode)
	if err != nil {
		return metaField{}, err
	}
	f := metaField{name: name, value: value}
	if name == "key" {
		k, err := ParseKey(valueNode.Text)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				return metaField{}, e.invalid(valueNode.Start+pe.Offset, "unknown key %q", value)
			}
			return metaField{}, err
		}
		f.key = k
	}
	return f, nil
}

func (e *evaluator) barline(n *grammar.Node) (model.Barline, error) {
	var b model.Barline
	for _, c := range n.Children {
		v, err := e.eval(c)
		if err != nil {
			return b, err
		}
		switch c.Rule {
		case grammar.BarToken:
			b.Double = v.(bool)
		case grammar.RepeatClose:
			b.RepeatClose, b.CloseCount = true, v.(int)
		case grammar.RepeatOpen:
			b.RepeatOpen, b.OpenCount = true, v.(int)
		}
	}
	return b, nil
}

// bars builds the bars of one line. Each run of adjacent barlines separates
// two bars: its first token closes the bar before it and its last token opens
// the bar after it, so a single token is shared by both.
func (e *evaluator) bars(n *grammar.Node) ([]model.Bar, error) {
	var runs [][]model.Barline
	var runNodes []*grammar.Node
	var slots [][]model.Chordish
	for _, c := range n.Children {
		if c.Rule == grammar.BarlineRun {
			run, err := evalAs[[]model.Barline](e, c)
			if err != nil {
				return nil, err
			}
			runs = append(runs, run)
			runNodes = append(runNodes, c)
			slots = append(slots, nil)
			continue
		}
		s, err := e.slot(c)
		if err != nil {
			return nil, err
		}
		slots[len(slots)-1] = append(slots[len(slots)-1], s)
	}

	last := len(runs) - 1
	for i, run := range runs {
		tokens := runNodes[i].Children
		switch {
		case (i == 0 || i == last) && len(run) > 1:
			return nil, e.invalid(tokens[1].Start, "adjacent barlines at the edge of a line")
		case len(run) > 2:
			return nil, e.invalid(tokens[2].Start, "more than two adjacent barlines")
		case len(run) == 2 && run[0].RepeatOpen:
			return nil, e.invalid(tokens[0].Start, "repeat opens before the end of the bar")
		case len(run) == 2 && run[1].RepeatClose:
			return nil, e.invalid(tokens[1].Start, "repeat closes after the start of the next bar")
		}
	}

	bars := make([]model.Bar, 0, last)
	for i := 0; i < last; i++ {
		bars = append(bars, model.Bar{
			Slots:   slots[i],
			Open:    runs[i][len(runs[i])-1],
			Close:   runs[i+1][0],
			Section: e.section,
		})
	}
	return bars, nil
}

func (e *evaluator) slot(n *grammar.Node) (model.Chordish, error) {
	v, err := e.eval(n)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case chord.Chord:
		return model.PlainChord{Chord: v}, nil
	case model.Chordish:
		return v, nil
	}
	return nil, fmt.Errorf("parser: rule %s is not a chord slot", n.Rule)
}
