// Package pipeline composes transcription, field extraction, and persistence
// into the record-a-note operation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellawick/lunalog/internal/audio"
	"github.com/ellawick/lunalog/internal/db"
	"github.com/ellawick/lunalog/internal/extract"
	"github.com/ellawick/lunalog/internal/transcribe"
)

// Pipeline is stateless glue over its collaborators. Any upstream failure
// aborts the whole operation; no partial record is ever written.
type Pipeline struct {
	transcriber transcribe.Client
	store       *db.Store
	keywords    extract.Config
	logger      *slog.Logger
}

// New builds a pipeline. All collaborators are passed in explicitly so tests
// can substitute a deterministic transcriber and a throwaway store.
func New(transcriber transcribe.Client, store *db.Store, keywords extract.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		transcriber: transcriber,
		store:       store,
		keywords:    keywords,
		logger:      logger,
	}
}

// RecordNote transcribes the clip, extracts fields, and persists the result.
// Transcription failures propagate unchanged and nothing is stored. An empty
// transcript is not a failure: the record is stored with all fields unset.
func (p *Pipeline) RecordNote(ctx context.Context, clip audio.Clip) (db.Log, error) {
	text, err := p.transcriber.Transcribe(ctx, clip)
	if err != nil {
		return db.Log{}, fmt.Errorf("transcribe %s: %w", clip.Path, err)
	}

	result := extract.Extract(text, p.keywords)

	log := db.Log{
		Timestamp:  time.Now().UTC(),
		AudioPath:  clip.Path,
		Transcript: text,
		Flow:       result.Flow,
		Mood:       result.Mood,
		Symptoms:   result.Symptoms,
		Spotting:   result.Spotting,
		Notes:      result.RawNotes,
	}

	id, err := p.store.Append(ctx, log)
	if err != nil {
		return db.Log{}, err
	}
	log.ID = id

	p.logger.Info("note recorded",
		"id", id,
		"clip", clip.Path,
		"duration", clip.Duration,
		"flow", log.Flow,
		"mood", log.Mood,
		"symptoms", len(log.Symptoms),
	)
	return log, nil
}

// ListRecent returns up to limit stored logs, newest first.
func (p *Pipeline) ListRecent(ctx context.Context, limit int) ([]db.Log, error) {
	return p.store.Recent(ctx, limit)
}
