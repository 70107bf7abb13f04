package model

import (
	"strings"

	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/constants"
	"github.com/jsphweid/leadsheet/util"
)

const repeatSymbol = "%"

// Format prints the song as leadsheet text that parses back to an equal
// song.
func (s Song) Format() string {
	return s.FormatWith(chord.Plain{})
}

// FormatWith prints the song with chords rendered by f. The layout is the
// same as Format: metadata, then sections of at most BarsPerLine bars per
// line.
func (s Song) FormatWith(f chord.Formatter) string {
	var blocks []string
	if header := s.header(); header != "" {
		blocks = append(blocks, header)
	}
	for _, group := range groupBySection(s.Bars) {
		blocks = append(blocks, formatSection(group, f))
	}
	if len(blocks) == 0 {
		return "\n"
	}
	// every block ends in a newline, so joining leaves one blank line
	// between blocks
	return strings.Join(blocks, "\n")
}

func (s Song) header() string {
	var sb strings.Builder
	field := func(name, value string) {
		if value != "" {
			sb.WriteString(name + ": " + value + "\n")
		}
	}
	field("title", s.Title)
	field("artist", s.Artist)
	field("album", s.Album)
	field("year", s.Year)
	field("sig", s.Sig)
	if s.Key != nil {
		field("key", s.Key.String())
	}
	return sb.String()
}

func groupBySection(bars []Bar) [][]Bar {
	var groups [][]Bar
	for i, b := range bars {
		if i == 0 || b.Section != bars[i-1].Section {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], b)
	}
	return groups
}

func formatSection(bars []Bar, f chord.Formatter) string {
	var sb strings.Builder
	if bars[0].Section != "" {
		sb.WriteString(bars[0].Section + ":\n")
	}
	prev := ""
	for start := 0; start < len(bars); {
		end := util.Min(start+constants.BarsPerLine, len(bars))
		for i := start + 1; i < end; i++ {
			if !joinable(bars[i-1].Close, bars[i].Open) {
				end = i
				break
			}
		}
		sb.WriteString(formatLine(bars[start:end], f, &prev))
		sb.WriteString("\n")
		start = end
	}
	return sb.String()
}

// joinable reports whether a bar's close and the next bar's open can share
// a line. Equal barlines print as one token; different ones print as a run
// of two, which must not open a repeat before closing one.
func joinable(close, open Barline) bool {
	return close == open || (!close.RepeatOpen && !open.RepeatClose)
}

// formatLine prints one line of bars. prev is the last chord printed, used
// to collapse immediate repeats into %.
func formatLine(bars []Bar, f chord.Formatter, prev *string) string {
	var parts []string
	for i, b := range bars {
		if i == 0 || b.Open != bars[i-1].Close {
			parts = append(parts, b.Open.String())
		}
		for _, slot := range b.Slots {
			parts = append(parts, formatSlot(slot, f, prev))
		}
		parts = append(parts, b.Close.String())
	}
	return strings.Join(parts, " ")
}

func formatSlot(slot Chordish, f chord.Formatter, prev *string) string {
	switch slot := slot.(type) {
	case PlainChord:
		text := slot.Chord.Print(f)
		if text == *prev {
			return repeatSymbol
		}
		*prev = text
		return text
	case OptionalChord:
		*prev = ""
		return "(" + slot.Chord.Print(f) + ")"
	case NoChord:
		*prev = ""
		return "N.C."
	case RepeatPreviousChord:
		return repeatSymbol
	}
	return ""
}

// Format prints a single bar with both of its barlines.
func (b Bar) Format(f chord.Formatter) string {
	prev := ""
	return formatLine([]Bar{b}, f, &prev)
}
