package model

import (
	"testing"

	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/theory"
	"github.com/stretchr/testify/assert"
)

func plain(natural byte, accidental int, q chord.Quality) Chordish {
	return PlainChord{Chord: chord.New(theory.NewLetter(natural, accidental), q)}
}

func bar(slots ...Chordish) Bar {
	return Bar{Slots: slots}
}

var (
	c  = plain('C', 0, chord.MajorTriad)
	d  = plain('D', 0, chord.MajorTriad)
	am = plain('A', 0, chord.MinorTriad)
)

func TestBarlineString(t *testing.T) {
	for _, tc := range []struct {
		barline Barline
		want    string
	}{
		{SingleBarline, "|"},
		{Barline{Double: true}, "||"},
		{Barline{RepeatOpen: true}, "|:"},
		{Barline{Double: true, RepeatOpen: true}, "||:"},
		{Barline{RepeatClose: true}, ":|"},
		{Barline{Double: true, RepeatClose: true, CloseCount: 2}, ":2x||"},
		{Barline{Double: true, RepeatClose: true, CloseCount: 2, RepeatOpen: true, OpenCount: 3}, ":2x||3x:"},
	} {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.barline.String())
		})
	}
}

func TestGuessKey(t *testing.T) {
	assert := assert.New(t)

	s := NewSong(Metadata{}, []Bar{bar(NoChord{}, am), bar(c)}, nil)
	if assert.NotNil(s.Key) {
		assert.Equal("A minor", s.Key.String())
	}

	s = NewSong(Metadata{}, []Bar{bar(NoChord{}), bar(c)}, nil)
	assert.Nil(s.Key)
	assert.Equal(theory.AccidentalNone, s.AccidentalPreference())

	assert.Nil(NewSong(Metadata{}, nil, nil).Key)

	given := theory.NewKey(theory.NewLetter('F', 0), theory.Major)
	s = NewSong(Metadata{}, []Bar{bar(am)}, &given)
	assert.Equal("F major", s.Key.String())
}

func TestFormatEmptySong(t *testing.T) {
	assert.Equal(t, "\n", Song{}.Format())
}

func TestFormatRepeatTracking(t *testing.T) {
	for _, tc := range []struct {
		name string
		bars []Bar
		want string
	}{
		{"repeat collapses", []Bar{bar(c), bar(c), bar(d, d)}, "| C | % | D % |\n"},
		{"repeat glyph keeps tracking", []Bar{bar(c), bar(RepeatPreviousChord{}), bar(c)}, "| C | % | % |\n"},
		{"no chord resets", []Bar{bar(c), bar(NoChord{}), bar(c)}, "| C | N.C. | C |\n"},
		{"optional resets", []Bar{bar(c, OptionalChord{Chord: chord.New(theory.NewLetter('C', 0), chord.MajorTriad)}), bar(c)}, "| C (C) | C |\n"},
		{"line break", []Bar{bar(c), bar(d), bar(am), bar(d), bar(c)}, "| C | D | Am | D |\n| C |\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Song{Bars: tc.bars}.Format())
		})
	}
}

func TestFormatSections(t *testing.T) {
	a1, a2, b1 := bar(c), bar(c), bar(c)
	a1.Section, a2.Section, b1.Section = "A", "A", "B"
	s := Song{Metadata: Metadata{Title: "T", Album: "LP", Sig: "3/4"}, Bars: []Bar{a1, a2, b1}}
	assert.Equal(t, "title: T\nalbum: LP\nsig: 3/4\n\nA:\n| C | % |\n\nB:\n| C |\n", s.Format())
	assert.Equal(t, []string{"A", "B"}, s.Sections())
}

func TestFormatSharedBarlines(t *testing.T) {
	first := bar(c)
	first.Open = Barline{Double: true, RepeatOpen: true}
	second := bar(d)
	second.Close = Barline{Double: true, RepeatClose: true}
	third := bar(am)
	third.Open = Barline{Double: true}
	s := Song{Bars: []Bar{first, second, third}}
	assert.Equal(t, "||: C | D :|| || Am |\n", s.Format())
	assert.Equal(t, "|| Am |", third.Format(chord.Plain{}))
}

func TestDupIsIndependent(t *testing.T) {
	assert := assert.New(t)
	s := NewSong(Metadata{Title: "x"}, []Bar{bar(c, d)}, nil)
	dup := s.Dup()
	dup.Bars[0].Slots[0] = NoChord{}
	dup.Key.Flavor = theory.Minor
	dup.Title = "y"

	assert.Equal(c, s.Bars[0].Slots[0])
	assert.Equal("C major", s.Key.String())
	assert.Equal("x", s.Title)
}

func TestTransposeSlots(t *testing.T) {
	assert := assert.New(t)
	opt := OptionalChord{Chord: chord.New(theory.NewLetter('G', 0), chord.MajorTriad)}
	s := NewSong(Metadata{}, []Bar{bar(c, NoChord{}, opt, RepeatPreviousChord{})}, nil)

	up := s.Transpose(3)
	assert.Equal("Eb major", up.Key.String())
	slots := up.Bars[0].Slots
	assert.Equal("Eb", slots[0].(PlainChord).Chord.String())
	assert.Equal(NoChord{}, slots[1])
	assert.Equal("Bb", slots[2].(OptionalChord).Chord.String())
	assert.Equal(RepeatPreviousChord{}, slots[3])

	// the original is untouched
	assert.Equal("C major", s.Key.String())
	assert.Len(s.Chords(), 2)
}

func TestFormatBreaksLineBeforeUnjoinableBarlines(t *testing.T) {
	first, second := bar(c), bar(d)
	first.Close = Barline{Double: true, RepeatClose: true, RepeatOpen: true}
	closing := bar(am)
	closing.Open = Barline{RepeatClose: true}
	s := Song{Bars: []Bar{first, second, bar(c), closing}}
	assert.Equal(t, "| C :||:\n| D | C |\n:| Am |\n", s.Format())
}
