package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ellawick/lunalog/internal/audio"
	"github.com/ellawick/lunalog/internal/db"
	"github.com/ellawick/lunalog/internal/extract"
	"github.com/ellawick/lunalog/internal/pipeline"
)

// fakeRecorder records nothing but tracks Start/Stop calls.
type fakeRecorder struct {
	started bool
	stopped bool
	clip    audio.Clip
	err     error
}

func (f *fakeRecorder) Start(ctx context.Context) error {
	f.started = true
	return f.err
}

func (f *fakeRecorder) Stop() (audio.Clip, error) {
	f.stopped = true
	return f.clip, f.err
}

// fakeTranscriber returns a fixed transcript.
type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	return f.text, f.err
}

func testModel(t *testing.T) (Model, *fakeRecorder) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	pipe := pipeline.New(&fakeTranscriber{text: "light flow"}, store,
		extract.Config{Flow: []string{"heavy", "light"}}, nil)
	rec := &fakeRecorder{clip: audio.Clip{Path: "/audio/clip.wav"}}
	return New(rec, pipe), rec
}

func TestNewModel(t *testing.T) {
	m, _ := testModel(t)
	if m.recording {
		t.Error("new model should not be recording")
	}
	if m.processing {
		t.Error("new model should not be processing")
	}
	if m.statusText != "Idle" {
		t.Errorf("statusText = %q, want Idle", m.statusText)
	}
}

func TestSpaceStartsRecording(t *testing.T) {
	m, rec := testModel(t)
	m.width = 80
	m.height = 24

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatal("space should return a start command")
	}
	msg := cmd()
	if !rec.started {
		t.Error("recorder should be started")
	}

	updated, _ := m.Update(msg)
	model := updated.(Model)
	if !model.recording {
		t.Error("should be recording after RecordStartedMsg")
	}
	if model.statusText != "Recording" {
		t.Errorf("statusText = %q", model.statusText)
	}
}

func TestRecordStartError(t *testing.T) {
	m, _ := testModel(t)

	updated, cmd := m.Update(RecordStartedMsg{Err: errors.New("no microphone")})
	model := updated.(Model)

	if model.recording {
		t.Error("should not be recording after start error")
	}
	if model.errorMessage != "no microphone" {
		t.Errorf("errorMessage = %q", model.errorMessage)
	}
	if cmd == nil {
		t.Error("transient error should schedule a clear command")
	}
}

func TestStopTriggersProcessing(t *testing.T) {
	m, _ := testModel(t)
	m.recording = true

	clip := audio.Clip{Path: "/audio/clip.wav", Duration: 3 * time.Second}
	updated, cmd := m.Update(RecordStoppedMsg{Clip: clip})
	model := updated.(Model)

	if model.recording {
		t.Error("should not be recording after stop")
	}
	if !model.processing {
		t.Error("should be processing after stop")
	}
	if cmd == nil {
		t.Fatal("stop should trigger pipeline processing")
	}
}

func TestNoteRecordedReloadsLogs(t *testing.T) {
	m, _ := testModel(t)
	m.processing = true

	updated, cmd := m.Update(NoteRecordedMsg{Log: db.Log{ID: 7}})
	model := updated.(Model)

	if model.processing {
		t.Error("should not be processing after note recorded")
	}
	if model.statusText != "Saved note #7" {
		t.Errorf("statusText = %q", model.statusText)
	}
	if cmd == nil {
		t.Error("should reload logs after note recorded")
	}
}

func TestNoteRecordedError(t *testing.T) {
	m, _ := testModel(t)
	m.processing = true

	updated, _ := m.Update(NoteRecordedMsg{Err: errors.New("transcription service unavailable")})
	model := updated.(Model)

	if model.processing {
		t.Error("should not be processing after error")
	}
	if model.errorMessage == "" {
		t.Error("errorMessage should be set")
	}
}

func TestLogsLoaded(t *testing.T) {
	m, _ := testModel(t)
	m.selected = 5

	msg := LogsLoadedMsg{Logs: []db.Log{
		{ID: 2, Flow: "heavy"},
		{ID: 1, Flow: "light"},
	}}

	updated, _ := m.Update(msg)
	model := updated.(Model)

	if len(model.logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(model.logs))
	}
	if model.selected != 1 {
		t.Errorf("selected = %d, want clamped to 1", model.selected)
	}
}

func TestLogNavigation(t *testing.T) {
	m, _ := testModel(t)
	m.width = 80
	m.height = 24
	m.logs = []db.Log{{ID: 3}, {ID: 2}, {ID: 1}}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model := updated.(Model)
	if model.selected != 1 {
		t.Errorf("after j, selected = %d, want 1", model.selected)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	model = updated.(Model)
	if model.selected != 0 {
		t.Errorf("after k, selected = %d, want 0", model.selected)
	}

	// k at the top stays put
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	model = updated.(Model)
	if model.selected != 0 {
		t.Errorf("k at top moved selection to %d", model.selected)
	}
}

func TestEnterTogglesTranscript(t *testing.T) {
	m, _ := testModel(t)
	m.logs = []db.Log{{ID: 1, Transcript: "light flow"}}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)
	if !model.showTranscript {
		t.Error("enter should show transcript")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.showTranscript {
		t.Error("enter again should show details")
	}
}

func TestQuitStopsRecorder(t *testing.T) {
	m, rec := testModel(t)
	m.recording = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !rec.stopped {
		t.Error("quit while recording should stop the recorder")
	}
	if cmd == nil {
		t.Error("quit should return a command")
	}
}

func TestClearTransientError(t *testing.T) {
	m, _ := testModel(t)
	m.errorMessage = "boom"
	m.errorTransient = true

	updated, _ := m.Update(ClearTransientErrorMsg{})
	model := updated.(Model)
	if model.errorMessage != "" {
		t.Errorf("errorMessage = %q, want cleared", model.errorMessage)
	}
}

func TestViewRendersWithSize(t *testing.T) {
	m, _ := testModel(t)
	m.width = 80
	m.height = 24
	m.logs = []db.Log{{
		ID:        1,
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Flow:      "heavy",
		Symptoms:  []string{"cramps"},
	}}

	view := m.View()
	if view == "" {
		t.Error("view should not be empty")
	}
	if view == "Initializing..." {
		t.Error("view should not show initializing with size set")
	}
}

func TestDetailPanelLabelsFields(t *testing.T) {
	m, _ := testModel(t)
	m.width = 100
	m.height = 30
	m.logs = []db.Log{{
		ID:        1,
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Flow:      "heavy",
		Mood:      "anxious",
		Symptoms:  []string{"cramps"},
	}}

	view := m.View()
	for _, want := range []string{"Flow:", "Mood:", "Symptoms:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing field label %q", want)
		}
	}
}

func TestStyleFieldLabel(t *testing.T) {
	// Lines without a label pass through unchanged.
	if got := styleFieldLabel("No specific details recorded."); got != "No specific details recorded." {
		t.Errorf("styleFieldLabel = %q, want unchanged", got)
	}
	// Labeled lines keep their text (styling may add escape codes only).
	got := styleFieldLabel("Flow: Heavy")
	if !strings.Contains(got, "Flow:") || !strings.Contains(got, " Heavy") {
		t.Errorf("styleFieldLabel = %q, want label and value preserved", got)
	}
}

func TestViewWithoutSize(t *testing.T) {
	m, _ := testModel(t)
	view := m.View()
	if view != "Initializing..." {
		t.Errorf("view without size = %q, want 'Initializing...'", view)
	}
}
