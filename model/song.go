// Package model holds the song aggregate produced by the parser: bars of
// chord slots framed by barlines, grouped into sections, plus metadata.
package model

import (
	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/theory"
)

type Metadata struct {
	Title  string
	Artist string
	Album  string
	Year   string
	Sig    string
}

// Song is treated as immutable once built; Transpose and Dup return new
// songs.
type Song struct {
	Metadata
	Bars []Bar
	// Key is nil when none was given and none could be guessed.
	Key *theory.Key
}

// NewSong builds a song. A nil key is guessed from the first bar.
func NewSong(meta Metadata, bars []Bar, key *theory.Key) Song {
	s := Song{Metadata: meta, Bars: bars, Key: key}
	if s.Key == nil {
		s.Key = s.GuessKey()
	}
	return s
}

// GuessKey takes the first chord sounding in bar 0: a minor chord gives a
// minor key on its tonic, anything else a major key.
func (s Song) GuessKey() *theory.Key {
	if len(s.Bars) == 0 {
		return nil
	}
	for _, slot := range s.Bars[0].Slots {
		c, ok := Sounding(slot)
		if !ok {
			continue
		}
		flavor := theory.Major
		if chord.IsMinor(c.Quality) {
			flavor = theory.Minor
		}
		k := theory.NewKey(c.Tonic, flavor)
		return &k
	}
	return nil
}

// AccidentalPreference is the preference of the song's key, or none when
// the key is unknown.
func (s Song) AccidentalPreference() theory.Accidental {
	if s.Key == nil {
		return theory.AccidentalNone
	}
	return s.Key.AccidentalPreference()
}

func (s Song) Transpose(halfSteps int) Song {
	res := s.Dup()
	if res.Key != nil {
		k := res.Key.Transpose(halfSteps)
		res.Key = &k
	}
	preferred := res.AccidentalPreference()
	for i, b := range res.Bars {
		res.Bars[i] = b.Transpose(halfSteps, preferred)
	}
	return res
}

func (s Song) Dup() Song {
	res := Song{Metadata: s.Metadata, Bars: make([]Bar, len(s.Bars))}
	for i, b := range s.Bars {
		res.Bars[i] = b.dup()
	}
	if s.Key != nil {
		k := *s.Key
		res.Key = &k
	}
	return res
}

// Chords lists every sounding chord in order, optional chords included.
func (s Song) Chords() []chord.Chord {
	var res []chord.Chord
	for _, b := range s.Bars {
		for _, slot := range b.Slots {
			if c, ok := Sounding(slot); ok {
				res = append(res, c)
			}
		}
	}
	return res
}

// Sections lists section names in order of first appearance.
func (s Song) Sections() []string {
	var res []string
	seen := make(map[string]bool)
	for _, b := range s.Bars {
		if b.Section != "" && !seen[b.Section] {
			seen[b.Section] = true
			res = append(res, b.Section)
		}
	}
	return res
}
