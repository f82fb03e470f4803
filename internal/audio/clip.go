// Package audio provides voice-note capture. Recording is delegated to an
// external process; the rest of the pipeline only sees the resulting Clip.
package audio

import (
	"context"
	"errors"
	"time"
)

// Clip is one recorded voice note on local storage.
type Clip struct {
	Path     string
	Duration time.Duration
}

// Recorder captures a single clip at a time. Start and Stop bracket one
// recording session; Stop returns the finished clip.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (Clip, error)
}

// ErrNotRecording is returned by Stop when no recording is in progress.
var ErrNotRecording = errors.New("no recording in progress")

// ErrAlreadyRecording is returned by Start while a recording is in progress.
var ErrAlreadyRecording = errors.New("recording already in progress")
