// Package parser turns leadsheet text into songs, chords and keys. Text is
// matched against the grammar tables first; only a complete match is
// evaluated, so a failed parse never yields a partial value.
package parser

import (
	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/grammar"
	"github.com/jsphweid/leadsheet/model"
	"github.com/jsphweid/leadsheet/theory"
)

// ParseSong parses a whole leadsheet. Errors are *ParseError or
// *ValidationError.
func ParseSong(text string) (model.Song, error) {
	tree, err := grammar.SongGrammar.Match(text)
	if err != nil {
		return model.Song{}, newParseError(err)
	}
	return evalAs[model.Song](newEvaluator(text), tree)
}

// ParseChord parses a single chord symbol such as "Bbm7b5/E".
func ParseChord(text string) (chord.Chord, error) {
	tree, err := grammar.ChordGrammar.Match(text)
	if err != nil {
		return chord.Chord{}, newParseError(err)
	}
	return evalAs[chord.Chord](newEvaluator(text), tree)
}

// ParseKey parses a key such as "Bb", "F# minor" or "D dorian".
func ParseKey(text string) (theory.Key, error) {
	tree, err := grammar.KeyGrammar.Match(text)
	if err != nil {
		return theory.Key{}, newParseError(err)
	}
	return evalAs[theory.Key](newEvaluator(text), tree)
}
