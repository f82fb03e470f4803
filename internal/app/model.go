package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ellawick/lunalog/internal/audio"
	"github.com/ellawick/lunalog/internal/db"
	"github.com/ellawick/lunalog/internal/extract"
	"github.com/ellawick/lunalog/internal/pipeline"
	"github.com/ellawick/lunalog/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// recentLimit is how many logs the list panel loads.
const recentLimit = 50

// Model is the root bubbletea model for the lunalog TUI.
type Model struct {
	// Collaborators
	recorder audio.Recorder
	pipe     *pipeline.Pipeline

	// Recording state
	recording   bool
	processing  bool
	recordStart time.Time

	// Logs
	logs           []db.Log
	selected       int
	showTranscript bool
	listScroll     int

	// UI state
	width  int
	height int

	// Errors
	errorMessage   string
	errorTransient bool

	// Status
	statusText string
}

// New creates a new Model wired to the given recorder and pipeline.
func New(recorder audio.Recorder, pipe *pipeline.Pipeline) Model {
	return Model{
		recorder:   recorder,
		pipe:       pipe,
		statusText: "Idle",
	}
}

// Init loads the recent logs.
func (m Model) Init() tea.Cmd {
	return loadLogsCmd(m.pipe)
}

// startRecordCmd starts audio capture.
func startRecordCmd(recorder audio.Recorder) tea.Cmd {
	return func() tea.Msg {
		return RecordStartedMsg{Err: recorder.Start(context.Background())}
	}
}

// stopRecordCmd stops audio capture and returns the finished clip.
func stopRecordCmd(recorder audio.Recorder) tea.Cmd {
	return func() tea.Msg {
		clip, err := recorder.Stop()
		return RecordStoppedMsg{Clip: clip, Err: err}
	}
}

// processCmd runs the clip through the pipeline: transcribe, extract, store.
func processCmd(pipe *pipeline.Pipeline, clip audio.Clip) tea.Cmd {
	return func() tea.Msg {
		log, err := pipe.RecordNote(context.Background(), clip)
		return NoteRecordedMsg{Log: log, Err: err}
	}
}

// loadLogsCmd reads recent logs from the store.
func loadLogsCmd(pipe *pipeline.Pipeline) tea.Cmd {
	return func() tea.Msg {
		logs, err := pipe.ListRecent(context.Background(), recentLimit)
		return LogsLoadedMsg{Logs: logs, Err: err}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case RecordStartedMsg:
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			m.errorTransient = true
			m.statusText = "Idle"
			return m, clearTransientErrorCmd()
		}
		m.recording = true
		m.recordStart = time.Now()
		m.statusText = "Recording"
		return m, nil

	case RecordStoppedMsg:
		m.recording = false
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			m.errorTransient = true
			m.statusText = "Idle"
			return m, clearTransientErrorCmd()
		}
		m.processing = true
		m.statusText = "Transcribing..."
		return m, processCmd(m.pipe, msg.Clip)

	case NoteRecordedMsg:
		m.processing = false
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			m.statusText = "Idle"
			return m, nil
		}
		m.statusText = fmt.Sprintf("Saved note #%d", msg.Log.ID)
		m.selected = 0
		m.listScroll = 0
		return m, loadLogsCmd(m.pipe)

	case LogsLoadedMsg:
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			return m, nil
		}
		m.logs = msg.Logs
		if m.selected >= len(m.logs) {
			m.selected = max(0, len(m.logs)-1)
		}
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		if m.recording {
			m.recorder.Stop() // best effort, discard the clip
		}
		return m, tea.Quit

	case KeySpace:
		if m.processing {
			return m, nil
		}
		if m.recording {
			return m, stopRecordCmd(m.recorder)
		}
		return m, startRecordCmd(m.recorder)

	case KeyJ, KeyDown:
		if m.selected < len(m.logs)-1 {
			m.selected++
			m.scrollToSelection()
		}
		return m, nil

	case KeyK, KeyUp:
		if m.selected > 0 {
			m.selected--
			m.scrollToSelection()
		}
		return m, nil

	case KeyEnter:
		m.showTranscript = !m.showTranscript
		return m, nil

	case KeyRefresh:
		return m, loadLogsCmd(m.pipe)
	}

	return m, nil
}

func (m *Model) scrollToSelection() {
	visible := m.contentHeight() - 1 // minus panel header
	if visible < 1 {
		visible = 1
	}
	if m.selected < m.listScroll {
		m.listScroll = m.selected
	}
	if m.selected >= m.listScroll+visible {
		m.listScroll = m.selected - visible + 1
	}
}

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + divider(1) + divider(1) + error(1) + footer(1) + padding
	reserved := 7
	return max(5, m.height-reserved)
}

func (m Model) listPanelWidth() int {
	if m.width == 0 {
		return 32
	}
	return max(24, m.width*40/100)
}

func (m Model) detailPanelWidth() int {
	if m.width == 0 {
		return 48
	}
	return max(30, m.width-m.listPanelWidth()-3)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("LUNALOG")
	count := ui.DimStyle.Render(fmt.Sprintf(" — %d notes", len(m.logs)))
	return title + count
}

func (m Model) renderStatusBar() string {
	var dot string
	switch {
	case m.recording:
		elapsed := time.Since(m.recordStart).Round(time.Second)
		dot = ui.RecordingDotStyle.Render("● REC") + ui.DimStyle.Render(" "+elapsed.String())
	case m.processing:
		dot = ui.SpinnerStyle.Render("⟳ PROCESSING")
	default:
		dot = ui.IdleDotStyle.Render("○ IDLE")
	}

	return dot + "  " + ui.StatusStyle.Render(m.statusText)
}

func (m Model) renderMainContent() string {
	listW := m.listPanelWidth()
	detailW := m.detailPanelWidth()
	contentH := m.contentHeight()

	listPanel := m.renderListPanel(listW, contentH)
	detailPanel := m.renderDetailPanel(detailW, contentH)

	divider := ui.DividerStyle.Render("│")

	listLines := strings.Split(listPanel, "\n")
	detailLines := strings.Split(detailPanel, "\n")

	var rows []string
	for i := 0; i < contentH; i++ {
		left := strings.Repeat(" ", listW)
		if i < len(listLines) {
			left = listLines[i]
		}
		right := ""
		if i < len(detailLines) {
			right = detailLines[i]
		}
		rows = append(rows, left+divider+right)
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderListPanel(width, height int) string {
	header := ui.PanelTitleStyle.Render(fmt.Sprintf("NOTES (%d)", len(m.logs)))
	header = padRight(header, width)

	var lines []string
	lines = append(lines, header)

	if len(m.logs) == 0 {
		lines = append(lines, ui.DimStyle.Render("  No notes yet..."))
		lines = append(lines, ui.DimStyle.Render("  Press Space to record one"))
	} else {
		end := min(len(m.logs), m.listScroll+height-1)
		for i := m.listScroll; i < end; i++ {
			log := m.logs[i]
			ts := log.Timestamp.Local().Format("Jan 02 15:04")
			label := oneLineSummary(log)

			var line string
			if i == m.selected {
				line = ui.SelectedStyle.Render("> ") + ui.SelectedStyle.Render(ts+"  "+label)
			} else {
				line = "  " + ui.TimestampStyle.Render(ts) + "  " + label
			}
			lines = append(lines, truncateToWidth(line, width))
		}
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = padRight(l, width)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderDetailPanel(width, height int) string {
	var header string
	if m.showTranscript {
		header = ui.PanelTitleActiveStyle.Render("TRANSCRIPT")
	} else {
		header = ui.PanelTitleStyle.Render("DETAILS")
	}

	var lines []string
	lines = append(lines, header)

	if len(m.logs) == 0 || m.selected >= len(m.logs) {
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  Nothing selected"))
	} else {
		log := m.logs[m.selected]
		textWidth := max(10, width-4)

		lines = append(lines, ui.TimestampStyle.Render("  "+log.Timestamp.Local().Format("2006-01-02 15:04:05")))
		lines = append(lines, "")

		var body string
		if m.showTranscript {
			body = log.Transcript
			if body == "" {
				body = "(no speech detected)"
			}
		} else {
			body = extract.FormatSummary(extract.Result{
				Flow:     log.Flow,
				Mood:     log.Mood,
				Symptoms: log.Symptoms,
				Spotting: log.Spotting,
				RawNotes: log.Notes,
			})
		}
		for _, para := range strings.Split(body, "\n") {
			wrapped := wrapText(para, textWidth)
			if !m.showTranscript {
				wrapped[0] = styleFieldLabel(wrapped[0])
			}
			for _, wl := range wrapped {
				lines = append(lines, "  "+wl)
			}
		}

		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  "+log.AudioPath))
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// styleFieldLabel highlights the "Field:" prefix of a summary line.
func styleFieldLabel(line string) string {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return line
	}
	return ui.FieldLabelStyle.Render(line[:idx+1]) + line[idx+1:]
}

// oneLineSummary is the compact list label for a log.
func oneLineSummary(log db.Log) string {
	var parts []string
	if log.Flow != "" {
		parts = append(parts, log.Flow)
	}
	if log.Mood != "" {
		parts = append(parts, log.Mood)
	}
	if len(log.Symptoms) > 0 {
		parts = append(parts, strings.Join(log.Symptoms, ", "))
	}
	if len(parts) == 0 {
		if strings.TrimSpace(log.Transcript) == "" {
			return "(silence)"
		}
		return "(notes)"
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	var parts []string

	if m.recording {
		parts = append(parts, ui.FooterKeyStyle.Render("Space")+ui.FooterDescStyle.Render(" Stop"))
	} else {
		parts = append(parts, ui.FooterKeyStyle.Render("Space")+ui.FooterDescStyle.Render(" Record"))
	}
	parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Nav"))
	parts = append(parts, ui.FooterKeyStyle.Render("Enter")+ui.FooterDescStyle.Render(" Transcript"))
	parts = append(parts, ui.FooterKeyStyle.Render("r")+ui.FooterDescStyle.Render(" Refresh"))
	parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))

	return strings.Join(parts, "  ")
}

// Helpers

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
