// Package transcribe converts recorded clips to text via an external
// speech-to-text service.
package transcribe

import (
	"context"
	"errors"

	"github.com/ellawick/lunalog/internal/audio"
)

// Failure classes. Callers branch on these with errors.Is.
var (
	// ErrUnavailable indicates a transient service or network failure.
	// Retrying the whole recording operation with the same clip is safe.
	ErrUnavailable = errors.New("transcription service unavailable")

	// ErrInvalidAudio indicates the clip is missing, empty, or rejected by
	// the service. The user must re-record.
	ErrInvalidAudio = errors.New("invalid audio input")
)

// Client converts one clip to transcript text. An empty transcript means the
// service detected no speech; that is not an error. Implementations do not
// retry; retry policy belongs to the caller.
type Client interface {
	Transcribe(ctx context.Context, clip audio.Clip) (string, error)
}
