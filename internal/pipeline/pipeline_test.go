package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ellawick/lunalog/internal/audio"
	"github.com/ellawick/lunalog/internal/db"
	"github.com/ellawick/lunalog/internal/extract"
	"github.com/ellawick/lunalog/internal/transcribe"
)

// fakeTranscriber returns a fixed transcript or error without network access.
type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	f.calls++
	return f.text, f.err
}

func testKeywords() extract.Config {
	return extract.Config{
		Flow:     []string{"heavy", "light"},
		Mood:     []string{"anxious", "happy"},
		Symptoms: []string{"cramps", "bloating", "headache"},
		Spotting: []string{"spotting"},
	}
}

func openTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordNote(t *testing.T) {
	store := openTestStore(t)
	ft := &fakeTranscriber{text: "heavy flow, feeling anxious, cramps and bloating"}
	p := New(ft, store, testKeywords(), nil)

	clip := audio.Clip{Path: "/audio/clip-1.wav", Duration: 4 * time.Second}
	log, err := p.RecordNote(context.Background(), clip)
	if err != nil {
		t.Fatalf("RecordNote: %v", err)
	}

	if log.ID <= 0 {
		t.Errorf("ID = %d, want assigned", log.ID)
	}
	if log.AudioPath != clip.Path {
		t.Errorf("AudioPath = %q, want %q", log.AudioPath, clip.Path)
	}
	if log.Flow != "heavy" {
		t.Errorf("Flow = %q, want %q", log.Flow, "heavy")
	}
	if log.Mood != "anxious" {
		t.Errorf("Mood = %q, want %q", log.Mood, "anxious")
	}
	want := []string{"cramps", "bloating"}
	if !reflect.DeepEqual(log.Symptoms, want) {
		t.Errorf("Symptoms = %v, want %v", log.Symptoms, want)
	}
	if log.Notes != ft.text {
		t.Errorf("Notes = %q, want transcript verbatim", log.Notes)
	}
	if log.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp location = %v, want UTC", log.Timestamp.Location())
	}

	// The returned record must match what a reader sees.
	stored, err := p.ListRecent(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != log.ID {
		t.Fatalf("stored = %+v, want one record with id %d", stored, log.ID)
	}
}

func TestRecordNoteEmptyTranscript(t *testing.T) {
	store := openTestStore(t)
	p := New(&fakeTranscriber{text: ""}, store, testKeywords(), nil)

	log, err := p.RecordNote(context.Background(), audio.Clip{Path: "/audio/silent.wav"})
	if err != nil {
		t.Fatalf("RecordNote: %v", err)
	}

	if log.Flow != "" || log.Mood != "" {
		t.Errorf("Flow/Mood = %q/%q, want unset", log.Flow, log.Mood)
	}
	if len(log.Symptoms) != 0 {
		t.Errorf("Symptoms = %v, want none", log.Symptoms)
	}
	if log.Notes != "" {
		t.Errorf("Notes = %q, want empty", log.Notes)
	}
}

func TestRecordNoteTranscriptionUnavailable(t *testing.T) {
	store := openTestStore(t)
	p := New(&fakeTranscriber{err: transcribe.ErrUnavailable}, store, testKeywords(), nil)

	_, err := p.RecordNote(context.Background(), audio.Clip{Path: "/audio/clip.wav"})
	if !errors.Is(err, transcribe.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}

	// No partial record may be written.
	logs, err := p.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("got %d logs after failed transcription, want 0", len(logs))
	}
}

func TestRecordNoteInvalidAudio(t *testing.T) {
	store := openTestStore(t)
	p := New(&fakeTranscriber{err: transcribe.ErrInvalidAudio}, store, testKeywords(), nil)

	_, err := p.RecordNote(context.Background(), audio.Clip{Path: "/audio/bad.wav"})
	if !errors.Is(err, transcribe.ErrInvalidAudio) {
		t.Fatalf("err = %v, want ErrInvalidAudio", err)
	}

	logs, _ := p.ListRecent(context.Background(), 10)
	if len(logs) != 0 {
		t.Errorf("got %d logs after invalid audio, want 0", len(logs))
	}
}

func TestListRecentDelegates(t *testing.T) {
	store := openTestStore(t)
	p := New(&fakeTranscriber{text: "light flow"}, store, testKeywords(), nil)

	for i := 0; i < 3; i++ {
		if _, err := p.RecordNote(context.Background(), audio.Clip{Path: "/audio/clip.wav"}); err != nil {
			t.Fatalf("RecordNote: %v", err)
		}
	}

	logs, err := p.ListRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("got %d logs, want 2", len(logs))
	}

	logs, err = p.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecent(0): %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("ListRecent(0) = %d logs, want 0", len(logs))
	}
}
