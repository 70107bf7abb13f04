package chord

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/jsphweid/leadsheet/theory"
)

// Formatter renders chords. Format is expected to call the other methods
// for the parts of the symbol.
type Formatter interface {
	Format(c Chord) string
	Tonic(l theory.Letter) string
	Quality(q Quality) string
	Alterations(alts []Alteration) string
}

// Plain prints the leadsheet text form. Its output parses back to an equal
// chord.
type Plain struct{}

func (p Plain) Format(c Chord) string {
	quality := p.Quality(c.Quality)
	alts := p.Alterations(c.Alterations)
	// a bare accidental right after the tonic would be read as part of it,
	// e.g. C + #11 must not print as C#11
	if quality == "" && startsWithAccidental(c.Alterations) {
		alts = bracketLeadingAccidentals(p, c.Alterations)
	}
	return p.Tonic(c.Tonic) + quality + alts
}

func (Plain) Tonic(l theory.Letter) string {
	return l.String()
}

func (Plain) Quality(q Quality) string {
	return qualitySymbol(q, symbols{
		minor:          "m",
		augmented:      "+",
		diminished:     "dim",
		major:          "maj",
		minorMajor:     "mMaj",
		halfDiminished: "m%sb5",
		sixNine:        "6/9",
	})
}

func (p Plain) Alterations(alts []Alteration) string {
	var sb strings.Builder
	var group []string
	flush := func() {
		if len(group) > 0 {
			sb.WriteString("(" + strings.Join(group, ",") + ")")
			group = group[:0]
		}
	}
	for _, a := range alts {
		if bracketable(a) {
			group = append(group, plainAlteration(a))
			continue
		}
		flush()
		sb.WriteString(plainAlteration(a))
	}
	flush()
	return sb.String()
}

// bracketable alterations are the ones printed inside parentheses. Runs of
// them share one pair.
func bracketable(a Alteration) bool {
	switch a.Kind {
	case Add, Omit, Majorize, Minorize:
		return true
	}
	return false
}

func plainAlteration(a Alteration) string {
	deg := strconv.Itoa(a.Degree)
	switch a.Kind {
	case Everything:
		if a.Degree == 0 {
			return "alt"
		}
		return "alt" + deg
	case Majorize:
		return "maj" + deg
	case Minorize:
		return "m" + deg
	case Suspend:
		return "sus" + deg
	case Raise:
		return "#" + deg
	case Lower:
		return "b" + deg
	case Add:
		return "add" + deg
	case Omit:
		return "no" + deg
	case Compound:
		return "/" + a.Bass.String()
	}
	return ""
}

func startsWithAccidental(alts []Alteration) bool {
	return len(alts) > 0 && (alts[0].Kind == Raise || alts[0].Kind == Lower)
}

func bracketLeadingAccidentals(p Plain, alts []Alteration) string {
	n := 0
	var group []string
	for n < len(alts) && (alts[n].Kind == Raise || alts[n].Kind == Lower) {
		group = append(group, plainAlteration(alts[n]))
		n++
	}
	return "(" + strings.Join(group, ",") + ")" + p.Alterations(alts[n:])
}

type symbols struct {
	minor, augmented, diminished, major, minorMajor string
	// halfDiminished is a format string taking the seventh or extent
	halfDiminished string
	sixNine        string
}

func qualitySymbol(q Quality, s symbols) string {
	switch q := q.(type) {
	case Dyad:
		return "5"
	case Triad:
		return triadSymbol(q, s)
	case Tetrad:
		if !q.Top.IsSeventh() {
			prefix := ""
			if q.Triad == MinorTriad {
				prefix = s.minor
			}
			if q.Top == SixNine {
				return prefix + s.sixNine
			}
			return prefix + "6"
		}
		n := "7"
		if q.Extent != 0 {
			n = strconv.Itoa(q.Extent)
		}
		switch {
		case q.Triad == DiminishedTriad && q.Top == MinorSeventh:
			return fmt.Sprintf(s.halfDiminished, n)
		case q.Triad == MinorTriad && q.Top == MajorSeventh:
			return s.minorMajor + n
		case q.Triad == DiminishedTriad && q.Top == MajorSeventh:
			return s.diminished + s.minorMajor[len(s.minor):] + n
		case q.Top == MajorSeventh:
			return triadSymbol(q.Triad, s) + s.major + n
		}
		return triadSymbol(q.Triad, s) + n
	}
	return ""
}

func triadSymbol(t Triad, s symbols) string {
	switch t {
	case MinorTriad:
		return s.minor
	case AugmentedTriad:
		return s.augmented
	case DiminishedTriad:
		return s.diminished
	}
	return ""
}

// HTML prints chords for the browser: the tonic and quality in spans,
// alterations in a superscript, real accidental glyphs throughout.
type HTML struct{}

func (h HTML) Format(c Chord) string {
	var sb strings.Builder
	sb.WriteString(`<span class="chord">`)
	sb.WriteString(h.Tonic(c.Tonic))
	if q := h.Quality(c.Quality); q != "" {
		sb.WriteString(`<span class="quality">` + q + `</span>`)
	}
	if alts := h.Alterations(c.Alterations); alts != "" {
		sb.WriteString(alts)
	}
	sb.WriteString(`</span>`)
	return sb.String()
}

func (HTML) Tonic(l theory.Letter) string {
	return `<span class="tonic">` + string(l.Natural) + l.AccidentalText("♯", "♭") + `</span>`
}

func (HTML) Quality(q Quality) string {
	return html.EscapeString(qualitySymbol(q, symbols{
		minor:          "m",
		augmented:      "+",
		diminished:     "°",
		major:          "Δ",
		minorMajor:     "mΔ",
		halfDiminished: "ø%s",
		sixNine:        "6/9",
	}))
}

func (HTML) Alterations(alts []Alteration) string {
	var sups []string
	var bass string
	for _, a := range alts {
		if a.Kind == Compound {
			bass = `<span class="bass">/` + HTML{}.Tonic(a.Bass) + `</span>`
			continue
		}
		text := plainAlteration(a)
		switch a.Kind {
		case Raise:
			text = "♯" + strconv.Itoa(a.Degree)
		case Lower:
			text = "♭" + strconv.Itoa(a.Degree)
		}
		sups = append(sups, html.EscapeString(text))
	}
	var res string
	if len(sups) > 0 {
		res = `<sup class="alterations">` + strings.Join(sups, " ") + `</sup>`
	}
	return res + bass
}
