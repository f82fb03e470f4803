// Command lunalog is a terminal UI for recording menstrual-cycle voice notes.
// A note is captured from the microphone, transcribed via ElevenLabs, scanned
// for cycle keywords, and stored in a local SQLite database.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ellawick/lunalog/internal/app"
	"github.com/ellawick/lunalog/internal/audio"
	"github.com/ellawick/lunalog/internal/config"
	"github.com/ellawick/lunalog/internal/db"
	"github.com/ellawick/lunalog/internal/pipeline"
	"github.com/ellawick/lunalog/internal/transcribe"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DBPath, "Path to the SQLite database")
	audioDir := flag.String("audio-dir", cfg.AudioDir, "Directory for recorded clips")
	keywordsFile := flag.String("keywords", cfg.KeywordsFile, "YAML keyword config (empty for built-in defaults)")
	logFile := flag.String("log-file", cfg.LogFile, "JSON log file")
	device := flag.String("device", cfg.CaptureDevice, "ffmpeg capture device")
	flag.Parse()

	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "ELEVEN_LABS_API_KEY is not set")
		os.Exit(1)
	}

	// The TUI owns the terminal; log to file only.
	logger, cleanup := config.SetupLogger(*logFile, cfg.LogLevel, false)
	defer cleanup()

	keywords, err := config.LoadKeywords(*keywordsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load keywords: %v\n", err)
		os.Exit(1)
	}

	store, err := db.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	transcriber := transcribe.NewElevenLabs(cfg.APIKey, cfg.ModelID, cfg.TranscribeTimeout)
	recorder := audio.NewFFmpegRecorder(*audioDir, cfg.CaptureFormat, *device)
	pipe := pipeline.New(transcriber, store, keywords, logger)

	p := tea.NewProgram(app.New(recorder, pipe), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited", "error", err)
		fmt.Fprintf(os.Stderr, "lunalog: %v\n", err)
		os.Exit(1)
	}
}
