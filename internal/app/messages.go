package app

import (
	"github.com/ellawick/lunalog/internal/audio"
	"github.com/ellawick/lunalog/internal/db"
)

// RecordStartedMsg is sent when audio capture starts (or fails to start).
type RecordStartedMsg struct {
	Err error
}

// RecordStoppedMsg carries the finished clip after capture stops.
type RecordStoppedMsg struct {
	Clip audio.Clip
	Err  error
}

// NoteRecordedMsg carries the stored log after the pipeline processed a clip.
type NoteRecordedMsg struct {
	Log db.Log
	Err error
}

// LogsLoadedMsg carries recent logs loaded from the store.
type LogsLoadedMsg struct {
	Logs []db.Log
	Err  error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
