package grammar

// Rules of the song layer, which extends the chord layer.
const (
	Song          RuleName = "Song"
	Line          RuleName = "Line"
	Metadata      RuleName = "Metadata"
	MetaKey       RuleName = "MetaKey"
	MetaValue     RuleName = "MetaValue"
	SectionHeader RuleName = "SectionHeader"
	SectionLabel  RuleName = "SectionLabel"
	BarSequence   RuleName = "BarSequence"
	Slots         RuleName = "Slots"
	Slot          RuleName = "Slot"
	OptionalChord RuleName = "OptionalChord"
	NoChord       RuleName = "NoChord"
	RepeatChord   RuleName = "RepeatChord"
	BarlineRun    RuleName = "BarlineRun"
	Barline       RuleName = "Barline"
	BarToken      RuleName = "BarToken"
	RepeatOpen    RuleName = "RepeatOpen"
	RepeatClose   RuleName = "RepeatClose"
	RepeatCount   RuleName = "RepeatCount"
	Comment       RuleName = "Comment"
	Newline       RuleName = "Newline"

	KeySpec   RuleName = "KeySpec"
	KeyFlavor RuleName = "KeyFlavor"
)

var digits = [][2]rune{{'0', '9'}}

var songRules = []Rule{
	{Name: Song, Expr: S(Star(R(Line)), EOF{})},
	{Name: Line, Inline: true, Expr: S(
		Not{EOF{}},
		R(Whitespace),
		Opt(C(R(Metadata), R(SectionHeader), R(BarSequence))),
		R(Whitespace),
		Opt(R(Comment)),
		C(R(Newline), EOF{}),
	)},

	{Name: Metadata, Expr: S(R(MetaKey), R(Whitespace), L(":"), R(Whitespace), R(MetaValue))},
	{Name: MetaKey, Label: "metadata key", Expr: C(
		LI("title"), LI("artist"), LI("album"), LI("year"), LI("sig"), LI("key"),
	)},
	{Name: MetaValue, Label: "metadata value", Expr: Plus(S(Not{C(R(Newline), L("//"))}, Any{}))},

	// metadata keys are reserved, so "key:" with no value is an error rather
	// than a section
	{Name: SectionHeader, Expr: S(Not{S(R(MetaKey), R(Whitespace), L(":"))}, R(SectionLabel), L(":"))},
	{Name: SectionLabel, Label: "section label", Expr: S(
		Class{Label: "letter", Ranges: [][2]rune{{'A', 'Z'}, {'a', 'z'}}},
		Star(Class{
			Label:  "section label",
			Chars:  " \t_'.#&()-",
			Ranges: [][2]rune{{'A', 'Z'}, {'a', 'z'}, {'0', '9'}},
		}),
	)},

	{Name: BarSequence, Expr: S(
		R(BarlineRun),
		Plus(S(R(Whitespace), R(Slots), R(Whitespace), R(BarlineRun))),
	)},
	{Name: Slots, Inline: true, Expr: S(R(Slot), Star(S(Plus(Chars("whitespace", " \t")), R(Slot))))},
	{Name: Slot, Inline: true, Label: "chord", Expr: C(
		R(OptionalChord),
		R(NoChord),
		R(RepeatChord),
		R(Chord),
	)},
	{Name: OptionalChord, Expr: S(L("("), R(Whitespace), R(Chord), R(Whitespace), L(")"))},
	{Name: NoChord, Expr: Lits("N.C.", "n.c.", "NC", "N.C")},
	{Name: RepeatChord, Expr: Lits("%", "-", "/", "𝄎")},

	{Name: BarlineRun, Expr: S(R(Barline), Star(S(R(Whitespace), R(Barline))))},
	{Name: Barline, Label: "barline", Expr: S(Opt(R(RepeatClose)), R(BarToken), Opt(R(RepeatOpen)))},
	{Name: BarToken, Expr: Lits("||", "|")},
	{Name: RepeatClose, Expr: S(L(":"), R(Whitespace), Opt(R(RepeatCount)))},
	{Name: RepeatOpen, Expr: S(Opt(S(R(RepeatCount), R(Whitespace))), L(":"))},
	{Name: RepeatCount, Expr: S(
		Plus(Class{Label: "digit", Ranges: digits}),
		R(Whitespace),
		Lits("x", "X", "×"),
	)},

	{Name: Comment, Expr: S(L("//"), Star(S(Not{R(Newline)}, Any{})))},
	{Name: Newline, Label: "newline", Expr: Lits("\r\n", "\n")},
}

// SongGrammar matches a whole leadsheet.
var SongGrammar = must(ChordGrammar.Extend(Song, songRules...))

var keyRules = []Rule{
	{Name: KeySpec, Expr: S(R(Whitespace), R(Root), R(Whitespace), Opt(R(KeyFlavor)), R(Whitespace), EOF{})},
	{Name: KeyFlavor, Expr: Plus(S(Not{S(R(Whitespace), EOF{})}, Any{}))},
}

// KeyGrammar matches the value of a key: line, a tonic and an optional
// flavor such as "minor" or "dorian".
var KeyGrammar = must(ChordGrammar.Extend(KeySpec, keyRules...))
