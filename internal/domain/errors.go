package domain

import "errors"

// Resolution errors abort a job before any item is processed.
var (
	ErrLinkUnrecognized        = errors.New("link not recognized as a disk URL")
	ErrResourceNotFound        = errors.New("resource not found or listing failed")
	ErrUnsupportedResourceType = errors.New("resource is neither a file nor a folder")
	ErrNotAVideo               = errors.New("file is not a video")
)

// Per-item stage errors are caught at the item boundary; the job continues.
var (
	ErrLinkExpiredOrDenied = errors.New("download link expired or access denied")
	ErrDownloadFailed      = errors.New("download failed")
	ErrConvertFailed       = errors.New("audio extraction failed")
	ErrTranscribeFailed    = errors.New("transcription failed")
	ErrDeliveryFailed      = errors.New("transcript delivery failed")
)

// StageOf maps a per-item error to the stage it failed in. Delivery errors
// report the transcribe stage's slot since delivery has no progress span.
func StageOf(err error) Stage {
	switch {
	case errors.Is(err, ErrDownloadFailed), errors.Is(err, ErrLinkExpiredOrDenied):
		return StageDownload
	case errors.Is(err, ErrConvertFailed):
		return StageConvert
	default:
		return StageTranscribe
	}
}
