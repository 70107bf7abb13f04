package parser

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/model"
	"github.com/jsphweid/leadsheet/theory"
	"github.com/stretchr/testify/assert"
)

func mustChord(t *testing.T, text string) chord.Chord {
	t.Helper()
	c, err := ParseChord(text)
	if !assert.NoError(t, err, text) {
		t.FailNow()
	}
	return c
}

func mustSong(t *testing.T, text string) model.Song {
	t.Helper()
	s, err := ParseSong(text)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return s
}

func TestParseChordPrints(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"C", "C"},
		{"  C  ", "C"},
		{"Cmaj7", "Cmaj7"},
		{"CM7", "Cmaj7"},
		{"CΔ", "Cmaj7"},
		{"C^7", "Cmaj7"},
		{"CM", "C"},
		{"C-7", "Cm7"},
		{"Cmin7", "Cm7"},
		{"Cminor", "Cm"},
		{"Cø", "Cm7b5"},
		{"C°7", "Cdim7"},
		{"Co7", "Cdim7"},
		{"Caug", "C+"},
		{"C+7#9", "C+7#9"},
		{"C7#5", "C+7"},
		{"C69", "C6/9"},
		{"C6add9", "C6/9"},
		{"Cm6/9", "Cm6/9"},
		{"Csus", "Csus4"},
		{"Csus2", "Csus2"},
		{"Csus7", "C7sus4"},
		{"C7sus", "C7sus4"},
		{"C2", "Csus2"},
		{"C5", "C5"},
		{"Cm(maj7)", "CmMaj7"},
		{"C-Δ7", "CmMaj7"},
		{"C+maj7", "C+maj7"},
		{"CdimMaj7", "CdimMaj7"},
		{"C7(b9,#11)", "C7b9#11"},
		{"C7(#11 b9)", "C7b9#11"},
		{"C9", "C9"},
		{"Cmaj9", "Cmaj9"},
		{"Cm11", "Cm11"},
		{"C13#11", "C13#11"},
		{"Cdom", "C7"},
		{"C⁷", "C7"},
		{"Cm⁹", "Cm9"},
		{"Cadd9", "C(add9)"},
		{"Cadd 9", "C(add9)"},
		{"C(9)", "C(add9)"},
		{"Comit3", "C(no3)"},
		{"C(#11)", "C(#11)"},
		{"C7alt", "C7alt"},
		{"C/E", "C/E"},
		{"Bbm7/Ab", "Bbm7/Ab"},
		{"B♭m7/A♭", "Bbm7/Ab"},
		{"F#m7b5", "F#m7b5"},
		{"C𝄪", "C##"},
		{"Dbb7", "Dbb7"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, mustChord(t, tc.in).String())
		})
	}
}

func TestSynonymsAreConfluent(t *testing.T) {
	groups := [][]string{
		{"C6", "C(add6)", "Cadd6", "CM6"},
		{"Cm6/9", "Cm(add6)(add9)", "Cm69", "Cm6(add9)"},
		{"C6/9", "C69", "C(add6,add9)"},
		{"Cm(maj7)", "CmMaj7", "CmΔ", "Cminmaj7", "C-Δ7"},
		{"Cm7b5", "Cø7", "Cø", "Cm7(b5)", "Cmin7b5"},
		{"C7#5", "C+7", "Caug7", "C7+5"},
		{"Csus", "Csus4", "C4"},
		{"Cmaj7", "CΔ7", "CΔ", "CM7", "Cmajor7", "C^"},
		{"C7", "Cdom7", "Cdom", "C(m7)"},
		{"Cdim7", "C°7", "Co7"},
		{"C+7#9", "Caug7#9", "C7#5#9"},
	}
	for _, group := range groups {
		t.Run(group[0], func(t *testing.T) {
			want := mustChord(t, group[0])
			for _, in := range group[1:] {
				got := mustChord(t, in)
				assert.Equal(t, want.ID(), got.ID(), in)
				assert.True(t, want.Equal(got), "%s: %v vs %v", in, want, got)
			}
		})
	}
}

func TestParseChordQuality(t *testing.T) {
	assert := assert.New(t)
	c := mustChord(t, "C+7#9")
	assert.Equal(chord.Augmented7, c.ID())
	assert.Equal([]chord.Alteration{chord.Alter(chord.Raise, 9)}, c.Alterations)
	assert.Equal("C+7#9", c.Print(chord.Plain{}))

	c = mustChord(t, "G13")
	assert.Equal(chord.QualityID("dominant-7/13"), c.ID())

	c = mustChord(t, "Ab/C")
	bass, ok := c.Bass()
	assert.True(ok)
	assert.Equal(theory.NewLetter('C', 0), bass)
	assert.Equal(theory.NewLetter('A', -1), c.Tonic)
}

func TestParsedChordsRoundTrip(t *testing.T) {
	for _, in := range []string{
		"C", "Cm7", "C+7#9", "Cm7b5/Gb", "C(add9,no3)", "C(b5)(add9)", "C7sus4b9",
		"Ebmaj9#11", "F#dim7", "Bb6/9", "Am6", "C(#11)", "D5", "G7alt", "Cm(add9)",
	} {
		c := mustChord(t, in)
		again := mustChord(t, c.String())
		assert.True(t, c.Equal(again), "%s: %v vs %v", in, c, again)
	}
}

func TestParseChordErrors(t *testing.T) {
	cases := []struct {
		in     string
		column int
	}{
		{"", 1},
		{"H7", 1},
		{"C7x", 3},
		{"Cmi7", 3},
		{"C7(b9", 3},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := ParseChord(tc.in)
			var pe *ParseError
			if assert.True(t, errors.As(err, &pe), "%v", err) {
				assert.Equal(t, 1, pe.Line)
				assert.Equal(t, tc.column, pe.Column)
				assert.Contains(t, pe.Error(), fmt.Sprintf("column %d", tc.column))
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"C", "C major"},
		{"Bb", "Bb major"},
		{"A#", "Bb major"},
		{"Am", "A minor"},
		{"F# minor", "F# minor"},
		{"Gb minor", "F# minor"},
		{"D dorian", "D dorian"},
		{" Eb  Major ", "Eb major"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			k, err := ParseKey(tc.in)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, k.String())
		})
	}
	_, err := ParseKey("minor")
	assert.Error(t, err)
}

func TestNoChordScenario(t *testing.T) {
	assert := assert.New(t)
	s := mustSong(t, "| N.C. |")
	assert.Len(s.Bars, 1)
	assert.Equal([]model.Chordish{model.NoChord{}}, s.Bars[0].Slots)
	assert.Nil(s.Key)
}

func TestGuessedKeyScenario(t *testing.T) {
	assert := assert.New(t)
	s := mustSong(t, "| C |")
	if assert.NotNil(s.Key) {
		assert.Equal("C major", s.Key.String())
	}

	up := s.Transpose(1)
	if assert.NotNil(up.Key) {
		assert.Equal("Db major", up.Key.String())
	}
	c, ok := model.Sounding(up.Bars[0].Slots[0])
	assert.True(ok)
	assert.Equal("Db", c.String())

	// the original is untouched
	assert.Equal("C major", s.Key.String())
	assert.Equal("C", s.Chords()[0].String())
}

func TestRepeatBarlineScenario(t *testing.T) {
	assert := assert.New(t)
	s := mustSong(t, "||: A | B :2x||")
	if !assert.Len(s.Bars, 2) {
		return
	}
	assert.Equal("||:", s.Bars[0].Open.String())
	assert.Equal("|", s.Bars[0].Close.String())
	assert.Equal("|", s.Bars[1].Open.String())
	assert.Equal(":2x||", s.Bars[1].Close.String())
	assert.Equal(model.Barline{Double: true, RepeatClose: true, CloseCount: 2}, s.Bars[1].Close)
}

func TestBarlineForms(t *testing.T) {
	assert := assert.New(t)
	s := mustSong(t, "|: A :||: B :3x|| ||3x: C | D :|")
	if !assert.Len(s.Bars, 4) {
		return
	}
	assert.Equal("|:", s.Bars[0].Open.String())
	assert.Equal(":||:", s.Bars[0].Close.String())
	assert.Equal(s.Bars[0].Close, s.Bars[1].Open)
	assert.Equal(":3x||", s.Bars[1].Close.String())
	assert.Equal("||3x:", s.Bars[2].Open.String())
	assert.Equal(":|", s.Bars[3].Close.String())

	s = mustSong(t, "| A :2 x|")
	assert.Equal(2, s.Bars[0].Close.CloseCount)
}

func TestContradictoryBarlines(t *testing.T) {
	cases := map[string]int{
		"| A | | | B |":   9,
		"| A |: | B |":    5,
		"| A | :| B |":    7,
		"| | A |":         3,
		"| A | |":         7,
		"| A ||: :|| B |": 5,
	}
	for in, column := range cases {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSong(in)
			var ve *ValidationError
			if assert.True(t, errors.As(err, &ve), "%v", err) {
				assert.Equal(t, 1, ve.Line)
				assert.Equal(t, column, ve.Column)
			}
		})
	}
}

func TestSlotKinds(t *testing.T) {
	assert := assert.New(t)
	s := mustSong(t, "| C (G7) % N.C. | - / Dm |")
	assert.Len(s.Bars, 2)
	assert.Equal(model.PlainChord{Chord: mustChord(t, "C")}, s.Bars[0].Slots[0])
	assert.Equal(model.OptionalChord{Chord: mustChord(t, "G7")}, s.Bars[0].Slots[1])
	assert.Equal(model.RepeatPreviousChord{}, s.Bars[0].Slots[2])
	assert.Equal(model.NoChord{}, s.Bars[0].Slots[3])
	assert.Equal(model.RepeatPreviousChord{}, s.Bars[1].Slots[0])
	assert.Equal(model.RepeatPreviousChord{}, s.Bars[1].Slots[1])
	assert.Len(s.Chords(), 3)
}

func TestMetadataAndSections(t *testing.T) {
	assert := assert.New(t)
	s := mustSong(t, `// a comment
Title: Blue Bossa   // composer credit below
artist: Kenny Dorham
album: Page One
year: 1963
sig: 4/4
key: C minor

Intro:
| Cm7 | Cm7 |
A:
| Fm7 | Bb7 | // turnaround
|Ebmaj7|Ebmaj7|
`)
	assert.Equal(model.Metadata{
		Title:  "Blue Bossa",
		Artist: "Kenny Dorham",
		Album:  "Page One",
		Year:   "1963",
		Sig:    "4/4",
	}, s.Metadata)
	assert.Equal("C minor", s.Key.String())
	assert.Len(s.Bars, 6)
	assert.Equal("Intro", s.Bars[0].Section)
	assert.Equal("Intro", s.Bars[1].Section)
	assert.Equal("A", s.Bars[2].Section)
	assert.Equal("A", s.Bars[5].Section)
	assert.Equal([]string{"Intro", "A"}, s.Sections())
}

func TestEmptyMetadataValueIsParseError(t *testing.T) {
	for _, in := range []string{"key:\n| C |\n", "Title :\n| C |\n"} {
		_, err := ParseSong(in)
		var pe *ParseError
		if assert.True(t, errors.As(err, &pe), "%q: %v", in, err) {
			assert.Equal(t, 1, pe.Line)
			assert.Contains(t, pe.Error(), "metadata value")
		}
	}

	s := mustSong(t, "Keys:\n| C |\nTitle Track:\n| F |\n")
	assert.Equal(t, []string{"Keys", "Title Track"}, s.Sections())
	assert.Equal(t, model.Metadata{}, s.Metadata)
}

func TestKeyMetadataOverridesGuess(t *testing.T) {
	s := mustSong(t, "key: F\n| Dm | G7 |\n")
	assert.Equal(t, "F major", s.Key.String())

	s = mustSong(t, "| Dm | G7 |\n")
	assert.Equal(t, "D minor", s.Key.String())
}

func TestInvalidKeyIsValidationError(t *testing.T) {
	_, err := ParseSong("title: x\nkey: Q major\n| C |\n")
	var ve *ValidationError
	if assert.True(t, errors.As(err, &ve), "%v", err) {
		assert.Equal(t, 2, ve.Line)
		assert.Equal(t, 6, ve.Column)
	}
}

func TestParseSongErrorPosition(t *testing.T) {
	_, err := ParseSong("| C | F |\n| G | Hx |\n")
	var pe *ParseError
	if assert.True(t, errors.As(err, &pe), "%v", err) {
		assert.Equal(t, 2, pe.Line)
		assert.Equal(t, 7, pe.Column)
	}
}

func TestFormatExact(t *testing.T) {
	s := mustSong(t, `title: Test
key: Bb

Verse:
| Bb | Bb | Cm7 F7 | (Gm) |
| N.C. | Bb |
`)
	assert.Equal(t, `title: Test
key: Bb major

Verse:
| Bb | % | Cm7 F7 | (Gm) |
| N.C. | Bb |
`, s.Format())
}

var fixtures = []string{
	"| N.C. |",
	"| C |",
	"||: A | B :2x||",
	"| A | B :||:\n| C | D |\n",
	`title: Autumn Leaves
artist: Joseph Kosma
year: 1945
sig: 4/4
key: G minor

A:
||: Cm7 | F7 | Bbmaj7 | Ebmaj7 |
| Am7b5 | D7b9 | Gm6 | Gm6 :||
B:
| Am7b5 | D7b9 | Gm | Gm |
| Cm7 | F7 | Bbmaj7 | Ebmaj7 |
| Am7b5 | D7b9 | Gm7 C7 | Fm7 Bb7 |
| Ebmaj7 | Am7b5 D7b9 | Gm | N.C. ||
`,
	`| C | C | C/E | (G7) |
| F6/9 | Fm(maj7) | % | - |
|: C+7#9 | Db7alt :||: Gsus4 G7 :3x||
`,
	`sig: 3/4
| Dm9 | G13 | Cmaj7#11 | A7b9b13 | D7sus4 | Db7#11 | C6/9 | C6/9 |
| Fmaj7 | Bb9 | Eø7 | A+7 | Dm | Dm | N.C. | N.C. |
`,
}

func TestFormatBreaksLineAtRepeatBoundary(t *testing.T) {
	s := mustSong(t, "| A | B :||:\n| C | D |\n")
	want := "key: A major\n\n| A | B :||:\n| C | D |\n"
	assert.Equal(t, want, s.Format())
	again, err := ParseSong(want)
	if assert.NoError(t, err) {
		assert.Equal(t, want, again.Format())
	}

	// a plain close followed by a repeat open is a valid run and stays inline
	assert.Equal(t, "key: A major\n\n| A | B | ||: C | D :||\n", mustSong(t, "| A | B | ||: C | D :||").Format())
}

func TestFormatRoundTrips(t *testing.T) {
	for i, text := range fixtures {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			once := mustSong(t, text).Format()
			twice := mustSong(t, once).Format()
			assert.Equal(t, once, twice)
		})
	}
}

func TestTransposeGroupAction(t *testing.T) {
	s := mustSong(t, fixtures[5])
	base := s.Format()
	for n := -12; n <= 12; n++ {
		there := s.Transpose(n).Transpose(-n)
		assert.Equal(t, s.Transpose(n).Format(), s.Transpose(n+24).Format(), n)
		assert.Equal(t, mustSong(t, base).Transpose(n).Format(), s.Transpose(n).Format(), n)
		assert.Len(t, there.Bars, len(s.Bars))
	}
	assert.Equal(t, base, s.Transpose(0).Format())
	assert.Equal(t, base, s.Transpose(12).Format())
}

// With a key fixing the spelling, every chord is spelled from its pitch
// class on the way back, so transposing there and back is exact.
func TestTransposeThereAndBack(t *testing.T) {
	s := mustSong(t, "key: Eb\n| Eb | Ab/C | Bb7 | Cm7 |\n| Fm7 | Gb | Db9 | Bbm7b5 |\n")
	base := s.Format()
	for n := -12; n <= 12; n++ {
		there := s.Transpose(n)
		assert.Equal(t, base, there.Transpose(-n).Format(), n)
		assert.Equal(t, s.Transpose(n+1).Format(), there.Transpose(1).Format(), n)
	}
}

func TestTransposeWithoutKeyComposes(t *testing.T) {
	s := mustSong(t, "| N.C. | Db7 | Gb |\n")
	assert.Nil(t, s.Key)
	stepped := s.Transpose(1).Transpose(1)
	assert.Equal(t, s.Transpose(2).Format(), stepped.Format())
	assert.Equal(t, "| N.C. | D#7 | G# |\n", stepped.Format())
}

func TestTransposeUsesKeyPreference(t *testing.T) {
	assert := assert.New(t)
	s := mustSong(t, "key: G\n| G | D7 | Em | C |\n")
	up := s.Transpose(1)
	assert.Equal("Ab major", up.Key.String())
	var names []string
	for _, c := range up.Chords() {
		names = append(names, c.String())
	}
	assert.Equal([]string{"Ab", "Eb7", "Fm", "Db"}, names)

	down := s.Transpose(-1)
	assert.Equal("F# major", down.Key.String())
	assert.Equal("C#7", down.Chords()[1].String())
}

func TestParsesAreIndependent(t *testing.T) {
	songs := []string{
		"Verse:\n| C | F |\n",
		"| Am | Dm |\n",
		"Bridge:\n| E7 | A7 |\n",
	}
	var wg sync.WaitGroup
	results := make([]model.Song, 60)
	errs := make([]error, 60)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = ParseSong(songs[i%len(songs)])
		}(i)
	}
	wg.Wait()
	for i, s := range results {
		assert.NoError(t, errs[i])
		assert.Equal(t, []string{"Verse", "", "Bridge"}[i%3], s.Bars[0].Section)
	}
}
