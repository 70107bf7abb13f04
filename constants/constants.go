package constants

import "os"

const DefaultAddr = ":8080"

const DefaultStorePath = "./last.leadsheet"

// GetSentryDSN is empty when error reporting is off.
func GetSentryDSN() string {
	return os.Getenv("SENTRY_DSN")
}

// bars printed on one line of formatted output
const BarsPerLine = 4

// MIDI timing clock pulses per quarter note
const ClocksPerQuarter = 24

const DefaultBeatsPerBar = 4

const DefaultBeatUnit = 4
