package grammar

// Rules of the chord layer. Every rule that produces a node is named here so
// evaluators can switch over them.
const (
	ChordOnly  RuleName = "ChordOnly"
	Chord      RuleName = "Chord"
	Root       RuleName = "Root"
	Natural    RuleName = "Natural"
	Accidental RuleName = "Accidental"

	Quality         RuleName = "Quality"
	Sus             RuleName = "Sus"
	MinorMajor      RuleName = "MinorMajor"
	AugmentedMajor  RuleName = "AugmentedMajor"
	DiminishedMajor RuleName = "DiminishedMajor"
	Augmented       RuleName = "Augmented"
	Diminished      RuleName = "Diminished"
	HalfDiminished  RuleName = "HalfDiminished"
	Dominant        RuleName = "Dominant"
	Delta           RuleName = "Delta"
	Major           RuleName = "Major"
	Minor           RuleName = "Minor"

	Extent RuleName = "Extent"
	Degree RuleName = "Degree"

	Alteration       RuleName = "Alteration"
	BareAlteration   RuleName = "BareAlteration"
	ParenAlterations RuleName = "ParenAlterations"
	Everything       RuleName = "Everything"
	Suspension       RuleName = "Suspension"
	AddDegree        RuleName = "AddDegree"
	OmitDegree       RuleName = "OmitDegree"
	MajorDegree      RuleName = "MajorDegree"
	MinorDegree      RuleName = "MinorDegree"
	RaiseDegree      RuleName = "RaiseDegree"
	LowerDegree      RuleName = "LowerDegree"
	SlashBass        RuleName = "SlashBass"
	PlainDegree      RuleName = "PlainDegree"

	Whitespace RuleName = "_"
)

var (
	majorWords = []string{"major", "maj", "Maj", "MAJ", "M"}
	deltas     = []string{"Δ", "∆", "^"}
	minorWords = []string{"minor", "min", "m", "-", "−"}
	// spellings of a major seventh following another quality, as in mMaj7
	majorSevens = []string{"maj", "Maj", "MAJ", "M", "Δ", "∆", "^"}
)

var chordRules = []Rule{
	{Name: ChordOnly, Expr: S(R(Whitespace), R(Chord), R(Whitespace), EOF{})},
	{Name: Chord, Label: "chord", Expr: S(
		R(Root),
		Opt(R(Quality)),
		Opt(R(Extent)),
		Star(R(Alteration)),
	)},

	{Name: Root, Expr: S(R(Natural), Opt(R(Accidental)))},
	{Name: Natural, Label: "note letter", Expr: Chars("note letter", "ABCDEFG")},
	{Name: Accidental, Expr: Lits("##", "bb", "♯♯", "♭♭", "𝄪", "𝄫", "#", "♯", "b", "♭")},

	// ordered so that longer spellings win: "maj" before "m", "mMaj"
	// before "m", "+maj" before "+"
	{Name: Quality, Inline: true, Expr: C(
		R(Sus),
		R(MinorMajor),
		R(AugmentedMajor),
		R(DiminishedMajor),
		R(Augmented),
		R(Diminished),
		R(HalfDiminished),
		R(Dominant),
		R(Delta),
		R(Major),
		R(Minor),
	)},
	{Name: Sus, Expr: LI("sus")},
	{Name: MinorMajor, Expr: S(Lits(minorWords...), Lits(majorSevens...))},
	{Name: AugmentedMajor, Expr: S(Lits("aug", "+"), Lits(majorSevens...))},
	{Name: DiminishedMajor, Expr: S(Lits("dim", "o", "°"), Lits(majorSevens...))},
	{Name: Augmented, Expr: Lits("augmented", "aug", "+")},
	// "omit" is an alteration, not a diminished chord missing "mit"
	{Name: Diminished, Expr: C(L("diminished"), L("dim"), S(L("o"), Not{LI("mit")}), L("°"))},
	{Name: HalfDiminished, Expr: Lits("ø", "Ø", "⌀")},
	{Name: Dominant, Expr: Lits("dominant", "dom")},
	{Name: Delta, Expr: Lits(deltas...)},
	{Name: Major, Expr: Lits(majorWords...)},
	{Name: Minor, Expr: Lits(minorWords...)},

	{Name: Extent, Label: "extension", Expr: Lits(
		"6/9", "69", "6⁄9",
		"13", "11", "9", "7", "6", "5", "4", "2",
		"¹³", "¹¹", "⁹", "⁷", "⁶", "⁵", "⁴", "²",
	)},
	{Name: Degree, Label: "degree", Expr: Lits("13", "12", "11", "10", "9", "8", "7", "6", "5", "4", "3", "2")},

	{Name: Alteration, Inline: true, Expr: C(R(ParenAlterations), R(BareAlteration))},
	{Name: BareAlteration, Inline: true, Expr: C(
		R(Everything),
		R(Suspension),
		R(AddDegree),
		R(OmitDegree),
		R(MajorDegree),
		R(MinorDegree),
		R(RaiseDegree),
		R(LowerDegree),
		R(SlashBass),
	)},
	{Name: ParenAlterations, Inline: true, Expr: S(
		L("("), R(Whitespace),
		C(R(BareAlteration), R(PlainDegree)),
		Star(S(R(Whitespace), Opt(L(",")), R(Whitespace), C(R(BareAlteration), R(PlainDegree)))),
		R(Whitespace), L(")"),
	)},
	{Name: Everything, Expr: S(LI("alt"), Opt(R(Degree)))},
	{Name: Suspension, Expr: S(LI("sus"), Opt(Lits("2", "4")))},
	{Name: AddDegree, Expr: S(LI("add"), R(Whitespace), R(Degree))},
	{Name: OmitDegree, Expr: S(C(LI("omit"), LI("no")), R(Whitespace), R(Degree))},
	{Name: MajorDegree, Expr: S(Lits(majorSevens...), R(Degree))},
	{Name: MinorDegree, Expr: S(Lits("min", "m"), R(Degree))},
	{Name: RaiseDegree, Expr: S(Lits("#", "♯", "+"), R(Degree))},
	{Name: LowerDegree, Expr: S(Lits("b", "♭", "-", "−"), R(Degree))},
	{Name: SlashBass, Expr: S(L("/"), R(Root))},
	{Name: PlainDegree, Expr: R(Degree)},

	{Name: Whitespace, Inline: true, Label: "whitespace", Expr: Star(Chars("whitespace", " \t"))},
}

// ChordGrammar matches one chord symbol, surrounding blanks allowed.
var ChordGrammar = must(New(ChordOnly, chordRules...))

func must(g *Grammar, err error) *Grammar {
	if err != nil {
		panic(err)
	}
	return g
}
