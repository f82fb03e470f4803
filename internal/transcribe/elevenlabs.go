package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ellawick/lunalog/internal/audio"
)

// DefaultBaseURL is the ElevenLabs speech-to-text endpoint prefix. The model
// id is appended as the final path segment.
const DefaultBaseURL = "https://api.elevenlabs.io/v1/speech-to-text"

// DefaultModelID is the transcription model used when none is configured.
const DefaultModelID = "eleven_monolingual_v1"

// ElevenLabs transcribes clips with the ElevenLabs speech-to-text API.
type ElevenLabs struct {
	apiKey  string
	modelID string
	baseURL string
	client  *http.Client
}

// NewElevenLabs returns a client using the given API key and model id.
// timeout bounds each request; the service must answer within it or the
// call fails with ErrUnavailable.
func NewElevenLabs(apiKey, modelID string, timeout time.Duration) *ElevenLabs {
	if modelID == "" {
		modelID = DefaultModelID
	}
	return &ElevenLabs{
		apiKey:  apiKey,
		modelID: modelID,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the clip and returns its transcript verbatim, save for
// surrounding whitespace. An empty response text returns ("", nil).
func (e *ElevenLabs) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	f, err := os.Open(clip.Path)
	if err != nil {
		return "", fmt.Errorf("%w: open clip %s: %w", ErrInvalidAudio, clip.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: stat clip %s: %w", ErrInvalidAudio, clip.Path, err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: clip %s is empty", ErrInvalidAudio, clip.Path)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(clip.Path))
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("%w: read clip %s: %w", ErrInvalidAudio, clip.Path, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	url := e.baseURL + "/" + e.modelID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode >= http.StatusInternalServerError,
		resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnsupportedMediaType:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: http %d: %s", ErrInvalidAudio, resp.StatusCode, msg)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: http %d: %s", ErrUnavailable, resp.StatusCode, msg)
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}

	return strings.TrimSpace(tr.Text), nil
}
