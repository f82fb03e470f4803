package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FFmpegRecorder captures microphone audio by running ffmpeg as a child
// process. Each clip is written as mono 16kHz WAV into Dir with a fresh
// uuid filename.
type FFmpegRecorder struct {
	Dir    string // output directory for clips
	Format string // ffmpeg input format, e.g. "alsa" or "avfoundation"
	Device string // ffmpeg input device, e.g. "default" or ":0"

	mu        sync.Mutex
	cmd       *exec.Cmd
	clipPath  string
	startedAt time.Time
}

// NewFFmpegRecorder returns a recorder writing clips into dir using the
// given ffmpeg input format and device.
func NewFFmpegRecorder(dir, format, device string) *FFmpegRecorder {
	return &FFmpegRecorder{Dir: dir, Format: format, Device: device}
}

// Start spawns ffmpeg capturing into a new clip file. It returns once the
// process is running; audio accumulates until Stop.
func (r *FFmpegRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	out := filepath.Join(r.Dir, uuid.New().String()+".wav")

	// ffmpeg -y -f <format> -i <device> -ac 1 -ar 16000 -f wav out
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y", "-f", r.Format, "-i", r.Device,
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		out,
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	r.cmd = cmd
	r.clipPath = out
	r.startedAt = time.Now()
	return nil
}

// Stop signals ffmpeg to finish the file and returns the recorded clip.
// A clip that ends up missing or empty is an error.
func (r *FFmpegRecorder) Stop() (Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return Clip{}, ErrNotRecording
	}

	cmd, path, started := r.cmd, r.clipPath, r.startedAt
	r.cmd = nil
	r.clipPath = ""

	// SIGINT makes ffmpeg flush and close the output cleanly.
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return Clip{}, fmt.Errorf("signal ffmpeg: %w", err)
	}
	// ffmpeg exits non-zero when interrupted; that is expected here.
	cmd.Wait()

	info, err := os.Stat(path)
	if err != nil {
		return Clip{}, fmt.Errorf("recorded clip missing: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(path)
		return Clip{}, fmt.Errorf("recorded clip %s is empty", path)
	}

	return Clip{Path: path, Duration: time.Since(started)}, nil
}
