package whisper

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

// Engine transcribes audio files by invoking the whisper CLI. The binary is
// resolved once at construction; if it is missing the engine stays failed and
// every Transcribe call fails fast instead of retrying the lookup.
type Engine struct {
	binary    string
	modelSize string
	outputDir string
	log       *slog.Logger
}

var _ ports.Transcriber = (*Engine)(nil)

// NewEngine resolves the whisper binary for the given model size tier
// ("tiny", "base", "small", ...).
func NewEngine(modelSize, outputDir string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{modelSize: modelSize, outputDir: outputDir, log: logger}

	path, err := exec.LookPath("whisper")
	if err != nil {
		logger.Error("whisper: binary not found on PATH, transcription disabled")
		return e
	}
	e.binary = path
	logger.Info("whisper: engine ready", "binary", path, "model", modelSize)
	return e
}

// Ready reports whether the engine resolved its binary at startup.
func (e *Engine) Ready() bool {
	return e.binary != ""
}

// Transcribe runs the recognizer and returns reflowed plain text. An empty
// language requests auto-detection. All failures collapse to ok=false.
func (e *Engine) Transcribe(ctx context.Context, audioPath, language string) (string, bool) {
	if e.binary == "" {
		e.log.Error("whisper: engine unavailable, model was never loaded")
		return "", false
	}
	if _, err := os.Stat(audioPath); err != nil {
		e.log.Error("whisper: audio file not found", "path", audioPath)
		return "", false
	}

	args := []string{
		audioPath,
		"--model", e.modelSize,
		"--task", "transcribe",
		"--output_format", "txt",
		"--output_dir", e.outputDir,
	}
	if language != "" {
		args = append(args, "--language", language)
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.log.Error("whisper: recognizer failed", "error", err, "stderr", stderr.String())
		return "", false
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	resultPath := filepath.Join(e.outputDir, stem+".txt")
	raw, err := os.ReadFile(resultPath)
	// The recognizer's own output file is an intermediate; remove it either way.
	if rmErr := os.Remove(resultPath); rmErr != nil && !os.IsNotExist(rmErr) {
		e.log.Warn("whisper: cannot remove intermediate output", "path", resultPath, "error", rmErr)
	}
	if err != nil {
		e.log.Error("whisper: output file missing after run", "path", resultPath)
		return "", false
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		e.log.Error("whisper: recognizer returned empty text", "audio", audioPath)
		return "", false
	}
	return Reflow(text, 2), true
}
