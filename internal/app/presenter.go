package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/v01cee/convert-yandex-bot/internal/domain"
	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

// statusPresenter renders pipeline events into chat messages: progress is
// edited in place on the job's status message, failures and transcripts go
// out as separate messages. It is the single subscriber of a job's stream.
type statusPresenter struct {
	ctx       context.Context
	messenger ports.Messenger
	log       *slog.Logger

	chatID   int64
	statusID int
	header   string
	items    []domain.VideoDescriptor
}

var (
	_ ports.Reporter            = (*statusPresenter)(nil)
	_ ports.TranscriptDeliverer = (*statusPresenter)(nil)
)

func newStatusPresenter(ctx context.Context, messenger ports.Messenger, logger *slog.Logger, chatID int64, statusID int, header string, items []domain.VideoDescriptor) *statusPresenter {
	return &statusPresenter{
		ctx:       ctx,
		messenger: messenger,
		log:       logger,
		chatID:    chatID,
		statusID:  statusID,
		header:    header,
		items:     items,
	}
}

// Progress rewrites the status message with the current stage and percent.
func (p *statusPresenter) Progress(sp domain.StageProgress) {
	name := ""
	if sp.ItemIndex >= 1 && sp.ItemIndex <= len(p.items) {
		name = p.items[sp.ItemIndex-1].Name
	}

	text := fmt.Sprintf("%s\n\n🔄 Processing %d/%d: %s\n%s %.0f%%",
		p.header, sp.ItemIndex, sp.TotalItems, name, stageLine(sp.Stage), sp.Percent)
	if err := p.messenger.EditMessage(p.ctx, p.chatID, p.statusID, text); err != nil {
		p.log.Warn("edit progress message", "error", err)
	}
}

// ItemFailed sends a dedicated message so the failure stays visible after
// the status message moves on to the next item.
func (p *statusPresenter) ItemFailed(item domain.VideoDescriptor, err error) {
	text := fmt.Sprintf("❌ %s: %s", failureText(err), item.Name)
	if _, sendErr := p.messenger.SendMessage(p.ctx, p.chatID, text); sendErr != nil {
		p.log.Error("send failure message", "error", sendErr)
	}
}

// Summary turns the status message into the final report.
func (p *statusPresenter) Summary(s domain.JobSummary) {
	text := fmt.Sprintf("✅ Processing complete!\n\nProcessed: %d\nFailed: %d\nTotal files: %d",
		s.Processed, s.Failed, s.Total)
	if err := p.messenger.EditMessage(p.ctx, p.chatID, p.statusID, text); err != nil {
		p.log.Warn("edit summary message", "error", err)
	}
}

// DeliverTranscript uploads the transcript as a document.
func (p *statusPresenter) DeliverTranscript(ctx context.Context, item domain.VideoDescriptor, textPath string) error {
	filename := transcriptFilename(item.Name)
	return p.messenger.SendDocument(ctx, p.chatID, textPath, filename, "📝 Transcript: "+item.Name)
}

func stageLine(stage domain.Stage) string {
	switch stage {
	case domain.StageDownload:
		return "📥 Downloading video..."
	case domain.StageConvert:
		return "🎵 Converting to audio..."
	case domain.StageTranscribe:
		return "📝 Transcribing audio..."
	default:
		return "🔄 Working..."
	}
}

func transcriptFilename(videoName string) string {
	base := filepath.Base(videoName)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}
