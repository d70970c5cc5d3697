package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/v01cee/convert-yandex-bot/internal/domain"
	"github.com/v01cee/convert-yandex-bot/internal/infrastructure/telegram"
)

const helpText = "Available commands:\n" +
	"/start - Start working with the bot\n" +
	"/help - Show this help\n" +
	"/yandex_auth - Authorize with Yandex\n\n" +
	"📁 Working with Yandex Disk:\n" +
	"Send a link to a Yandex Disk folder or video file and the bot will " +
	"transcribe every video it finds.\n\n" +
	"⚠️ Available to administrators only."

func greetingText(user *telegram.User) string {
	name := "there"
	if user != nil && user.FirstName != "" {
		name = user.FirstName
	}
	return fmt.Sprintf("Hi, %s!\n\nSend me a Yandex Disk link and I will transcribe the videos behind it.", name)
}

// foundVideosText lists the discovered videos, capped at maxListed entries.
func foundVideosText(videos []domain.VideoDescriptor, maxListed int) string {
	if maxListed <= 0 {
		maxListed = len(videos)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found video files: %d\n", len(videos))
	if len(videos) > maxListed {
		fmt.Fprintf(&b, "\nShowing the first %d of %d:\n", maxListed, len(videos))
	}

	for i, video := range videos {
		if i == maxListed {
			break
		}
		sizeMB := float64(video.Size) / (1024 * 1024)
		fmt.Fprintf(&b, "\n%d. %s\n   Size: %.2f MB", i+1, video.Name, sizeMB)
	}

	if len(videos) > maxListed {
		fmt.Fprintf(&b, "\n\n... and %d more files", len(videos)-maxListed)
	}
	return b.String()
}

func resolutionErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrLinkUnrecognized):
		return "❌ Could not recognize the Yandex Disk link.\n\nPlease send a valid link to a folder or file."
	case errors.Is(err, domain.ErrNotAVideo):
		return "❌ The file is not a video."
	case errors.Is(err, domain.ErrUnsupportedResourceType):
		return "❌ Unknown resource type."
	case errors.Is(err, domain.ErrResourceNotFound):
		return "❌ Could not fetch the resource.\n\nCheck that the link is correct and the resource is accessible."
	default:
		return "❌ Error while processing the link.\n\nCheck the link and access permissions."
	}
}

func failureText(err error) string {
	switch {
	case errors.Is(err, domain.ErrDownloadFailed), errors.Is(err, domain.ErrLinkExpiredOrDenied):
		return "Could not download"
	case errors.Is(err, domain.ErrConvertFailed):
		return "Could not convert"
	case errors.Is(err, domain.ErrTranscribeFailed):
		return "Could not transcribe"
	case errors.Is(err, domain.ErrDeliveryFailed):
		return "Could not deliver the transcript for"
	default:
		return "Error while processing"
	}
}
