// Command lunalog-mcp exposes the lunalog database to MCP clients over
// stdio. It is read-only: recording stays in the TUI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ellawick/lunalog/internal/config"
	"github.com/ellawick/lunalog/internal/db"
	"github.com/ellawick/lunalog/internal/extract"
)

const version = "0.1.0"

func main() {
	cfg := config.Load()
	dbPath := flag.String("db", cfg.DBPath, "Path to the SQLite database")
	flag.Parse()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel, true)
	defer cleanup()

	store, err := db.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	s := server.NewMCPServer("lunalog", version)

	s.AddTool(
		mcp.NewTool("recent_logs",
			mcp.WithDescription("List the most recent voice-note logs, newest first, as JSON."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of logs to return"),
				mcp.DefaultNumber(10),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			limit := req.GetInt("limit", 10)
			logs, err := store.Recent(ctx, limit)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			out, err := json.MarshalIndent(toLogViews(logs), "", "  ")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(string(out)), nil
		},
	)

	s.AddTool(
		mcp.NewTool("log_summary",
			mcp.WithDescription("Render one log as a short human-readable summary."),
			mcp.WithNumber("id",
				mcp.Description("Log id"),
				mcp.Required(),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id := req.GetInt("id", 0)
			log, err := store.Get(ctx, int64(id))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			summary := extract.FormatSummary(extract.Result{
				Flow:     log.Flow,
				Mood:     log.Mood,
				Symptoms: log.Symptoms,
				Spotting: log.Spotting,
				RawNotes: log.Notes,
			})
			return mcp.NewToolResultText(summary), nil
		},
	)

	logger.Info("mcp server starting", "db", *dbPath)
	if err := server.ServeStdio(s); err != nil {
		logger.Error("mcp server exited", "error", err)
		os.Exit(1)
	}
}

// logView is the JSON shape returned by recent_logs.
type logView struct {
	ID         int64    `json:"id"`
	Timestamp  string   `json:"timestamp"`
	AudioPath  string   `json:"audio_path"`
	Transcript string   `json:"transcript"`
	Flow       string   `json:"flow,omitempty"`
	Mood       string   `json:"mood,omitempty"`
	Symptoms   []string `json:"symptoms"`
	Spotting   bool     `json:"spotting"`
	Notes      string   `json:"notes"`
}

func toLogViews(logs []db.Log) []logView {
	views := make([]logView, len(logs))
	for i, l := range logs {
		views[i] = logView{
			ID:         l.ID,
			Timestamp:  l.Timestamp.Format("2006-01-02T15:04:05Z"),
			AudioPath:  l.AudioPath,
			Transcript: l.Transcript,
			Flow:       l.Flow,
			Mood:       l.Mood,
			Symptoms:   l.Symptoms,
			Spotting:   l.Spotting,
			Notes:      l.Notes,
		}
	}
	return views
}
