// Package midi follows an external MIDI clock and reports which bar of a
// song is playing.
package midi

import (
	"strconv"
	"strings"
	"sync"

	"github.com/jsphweid/leadsheet/constants"
	"github.com/jsphweid/leadsheet/model"
	"gitlab.com/gomidi/midi/v2"
)

// Follower counts timing clock pulses. Start rewinds to bar 0, Stop pauses
// and Continue resumes; after the last bar it loops back to the first.
type Follower struct {
	clocksPerBar int
	bars         int
	onBar        func(bar int)

	mu      sync.Mutex
	clock   int
	bar     int
	running bool
}

// NewFollower follows song. onBar is called with the new bar index every
// time the active bar changes, including on Start.
func NewFollower(song model.Song, onBar func(bar int)) *Follower {
	if onBar == nil {
		onBar = func(int) {}
	}
	return &Follower{
		clocksPerBar: ClocksPerBar(song.Sig),
		bars:         len(song.Bars),
		onBar:        onBar,
	}
}

// ClocksPerBar reads a time signature such as "3/4" or "6/8". Anything it
// cannot read counts as 4/4.
func ClocksPerBar(sig string) int {
	beats, unit := constants.DefaultBeatsPerBar, constants.DefaultBeatUnit
	if num, den, ok := strings.Cut(strings.TrimSpace(sig), "/"); ok {
		n, err1 := strconv.Atoi(strings.TrimSpace(num))
		d, err2 := strconv.Atoi(strings.TrimSpace(den))
		if err1 == nil && err2 == nil && n > 0 && d > 0 {
			beats, unit = n, d
		}
	}
	clocks := constants.ClocksPerQuarter * 4 * beats / unit
	if clocks < 1 {
		return 1
	}
	return clocks
}

// Handle has the signature midi.ListenTo expects.
func (f *Follower) Handle(msg midi.Message, timestampms int32) {
	f.mu.Lock()
	changed, bar := f.step(msg)
	f.mu.Unlock()
	if changed {
		f.onBar(bar)
	}
}

func (f *Follower) step(msg midi.Message) (bool, int) {
	if f.bars == 0 {
		return false, 0
	}
	switch {
	case msg.Is(midi.StartMsg):
		f.clock, f.bar, f.running = 0, 0, true
		return true, 0
	case msg.Is(midi.ContinueMsg):
		f.running = true
	case msg.Is(midi.StopMsg):
		f.running = false
	case msg.Is(midi.TimingClockMsg):
		if !f.running {
			return false, f.bar
		}
		f.clock++
		if f.clock < f.clocksPerBar {
			return false, f.bar
		}
		f.clock = 0
		f.bar = (f.bar + 1) % f.bars
		return true, f.bar
	}
	return false, f.bar
}

func (f *Follower) Bar() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bar
}

func (f *Follower) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}
