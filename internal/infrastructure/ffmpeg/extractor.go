package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

// Extractor converts video files into WAV audio suitable for transcription
// (single channel, 16 kHz, signed 16-bit PCM) by invoking ffmpeg.
type Extractor struct {
	tempDir string
	binary  string
	log     *slog.Logger
}

var _ ports.AudioExtractor = (*Extractor)(nil)

// NewExtractor prepares the temp directory and remembers the ffmpeg binary name.
func NewExtractor(tempDir string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		logger.Error("extractor: create temp dir", "dir", tempDir, "error", err)
	}
	return &Extractor{tempDir: tempDir, binary: "ffmpeg", log: logger}
}

// Extract runs ffmpeg and returns the audio path, or ok=false on missing
// input, missing tool, non-zero exit, or an absent output file.
func (e *Extractor) Extract(ctx context.Context, videoPath string) (string, bool) {
	if _, err := os.Stat(videoPath); err != nil {
		e.log.Error("extractor: video file not found", "path", videoPath)
		return "", false
	}

	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	outputPath := filepath.Join(e.tempDir, stem+".wav")

	cmd := exec.CommandContext(ctx, e.binary,
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outputPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			e.log.Error("extractor: ffmpeg is not installed or not on PATH")
		} else {
			e.log.Error("extractor: ffmpeg failed", "error", err, "stderr", tail(stderr.String()))
		}
		return "", false
	}

	if _, err := os.Stat(outputPath); err != nil {
		e.log.Error("extractor: output file was not created", "path", outputPath)
		return "", false
	}
	return outputPath, true
}

// tail keeps ffmpeg's noisy stderr down to the part that matters.
func tail(s string) string {
	const keep = 512
	if len(s) <= keep {
		return s
	}
	return s[len(s)-keep:]
}
