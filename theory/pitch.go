// Package theory holds the pitch-level music theory the chord and song models
// are built on: pitch classes, spelled note letters and keys.
package theory

import "github.com/jsphweid/leadsheet/util"

// PitchClass is an absolute pitch modulo the octave, 0 (C) through 11 (B).
type PitchClass int

const Octave = 12

func (p PitchClass) Transpose(halfSteps int) PitchClass {
	return PitchClass(util.Mod(int(p)+halfSteps, Octave))
}
