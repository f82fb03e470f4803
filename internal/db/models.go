// Package db provides SQLite persistence for voice-note logs.
package db

import "time"

// Log is one persisted voice-note record. A Log is written once by Append
// and never mutated afterwards.
type Log struct {
	ID         int64
	Timestamp  time.Time // UTC
	AudioPath  string
	Transcript string
	Flow       string // empty when no flow keyword matched
	Mood       string // empty when no mood keyword matched
	Symptoms   []string
	Spotting   bool
	Notes      string // full transcript verbatim
}
