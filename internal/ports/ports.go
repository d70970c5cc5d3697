package ports

import (
	"context"

	"github.com/v01cee/convert-yandex-bot/internal/domain"
)

// DiskClient talks to the storage provider's HTTP API.
type DiskClient interface {
	// ListFolder returns one level of a private folder.
	ListFolder(ctx context.Context, path string) ([]domain.Entry, error)
	// PublicResourceInfo fetches metadata for a publicly shared resource.
	PublicResourceInfo(ctx context.Context, publicKey string) (domain.Entry, error)
	// ListPublicFolder returns one level inside a public resource tree.
	// innerPath is empty for the tree root.
	ListPublicFolder(ctx context.Context, publicKey, innerPath string) ([]domain.Entry, error)
	// DownloadURL resolves a time-limited direct link for a private resource.
	DownloadURL(ctx context.Context, path string) (string, error)
	// PublicDownloadURL resolves a direct link for a public resource.
	PublicDownloadURL(ctx context.Context, publicKey, innerPath string) (string, error)
	// Download streams url into dest, invoking onProgress after each chunk
	// when the response declares a length. Returns false on any failure so
	// the caller can treat it as a recoverable per-item condition.
	Download(ctx context.Context, url, dest string, onProgress func(done, total int64)) bool
}

// AudioExtractor produces a normalized audio artifact from a video file.
// All failures collapse to ok=false; nothing propagates past this boundary.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath string) (audioPath string, ok bool)
}

// Transcriber converts an audio artifact into plain text. An empty language
// requests provider-side auto-detection.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (text string, ok bool)
}

// Reporter consumes the ordered stream of pipeline events. Implementations
// render them however they see fit; calls arrive serialized.
type Reporter interface {
	Progress(p domain.StageProgress)
	ItemFailed(item domain.VideoDescriptor, err error)
	Summary(s domain.JobSummary)
}

// TranscriptDeliverer hands a finished transcript to the transport layer.
type TranscriptDeliverer interface {
	DeliverTranscript(ctx context.Context, item domain.VideoDescriptor, textPath string) error
}

// Messenger is the chat-transport boundary used by the bot surface.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) (messageID int, err error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
	SendDocument(ctx context.Context, chatID int64, filePath, filename, caption string) error
}

// TokenStore keeps per-user OAuth access tokens.
type TokenStore interface {
	Save(ctx context.Context, userID int64, accessToken string) error
	Get(ctx context.Context, userID int64) (string, bool, error)
	Remove(ctx context.Context, userID int64) error
}
