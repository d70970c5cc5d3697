package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/v01cee/convert-yandex-bot/internal/domain"
	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

var (
	urlPattern       = regexp.MustCompile(`https?://[^\s)]+`)
	publicKeyPattern = regexp.MustCompile(`/i/([^/?]+)`)

	privatePathPatterns = []*regexp.Regexp{
		regexp.MustCompile(`yandex\.ru/disk/([^/?]+)`),
		regexp.MustCompile(`yandex\.ru/d/([^/?]+)`),
		regexp.MustCompile(`yandex\.ru/client/disk\?.*path=([^&]+)`),
	}

	diskLinkPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)disk\.yandex\.ru`),
		regexp.MustCompile(`(?i)yandex\.ru/disk`),
		regexp.MustCompile(`(?i)yandex\.ru/d/`),
		regexp.MustCompile(`(?i)yandex\.ru/i/`),
		regexp.MustCompile(`(?i)yandex\.ru/client/disk`),
	}
)

// ExtractLink pulls the first URL out of a free-form message, which may
// carry a leading label or trailing prose around the link.
func ExtractLink(text string) (string, bool) {
	match := urlPattern.FindString(text)
	return match, match != ""
}

// IsDiskLink reports whether the URL points at the disk provider at all.
func IsDiskLink(link string) bool {
	for _, pattern := range diskLinkPatterns {
		if pattern.MatchString(link) {
			return true
		}
	}
	return false
}

// Resolver turns a disk link into an ordered list of video descriptors.
type Resolver struct {
	disk ports.DiskClient
	log  *slog.Logger
}

// NewResolver wires the disk client dependency.
func NewResolver(disk ports.DiskClient, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{disk: disk, log: logger}
}

// Resolve classifies the link by shape (no network call) and then walks the
// referenced resource tree, returning every video in discovery order:
// each folder's files in listing order, parents before their subfolders.
func (r *Resolver) Resolve(ctx context.Context, link string) ([]domain.VideoDescriptor, error) {
	if m := publicKeyPattern.FindStringSubmatch(link); m != nil {
		return r.resolvePublic(ctx, m[1])
	}
	if path, ok := parsePrivatePath(link); ok {
		return r.resolvePrivate(ctx, path)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrLinkUnrecognized, link)
}

func (r *Resolver) resolvePrivate(ctx context.Context, root string) ([]domain.VideoDescriptor, error) {
	var videos []domain.VideoDescriptor

	// Iterative walk: a FIFO queue keeps each level's files ahead of the
	// listing entries of any nested folder.
	queue := []string{root}
	first := true
	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		entries, err := r.disk.ListFolder(ctx, folder)
		if err != nil {
			if first {
				return nil, fmt.Errorf("%w: %v", domain.ErrResourceNotFound, err)
			}
			// A broken subfolder should not sink the rest of the tree.
			r.log.Warn("resolver: skipping unreadable subfolder", "path", folder, "error", err)
			continue
		}
		first = false

		for _, entry := range entries {
			switch entry.Type {
			case domain.EntryFile:
				if domain.IsVideoFile(entry.Name) {
					videos = append(videos, domain.VideoDescriptor{
						Name:   entry.Name,
						Size:   entry.Size,
						Handle: domain.PrivateHandle(entry.Path),
					})
				}
			case domain.EntryDir:
				queue = append(queue, entry.Path)
			}
		}
	}

	return videos, nil
}

func (r *Resolver) resolvePublic(ctx context.Context, publicKey string) ([]domain.VideoDescriptor, error) {
	info, err := r.disk.PublicResourceInfo(ctx, publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceNotFound, err)
	}

	switch info.Type {
	case domain.EntryFile:
		if !domain.IsVideoFile(info.Name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotAVideo, info.Name)
		}
		return []domain.VideoDescriptor{{
			Name:   info.Name,
			Size:   info.Size,
			Handle: domain.PublicHandle(publicKey, ""),
		}}, nil
	case domain.EntryDir:
		return r.resolvePublicFolder(ctx, publicKey)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedResourceType, info.Type)
	}
}

func (r *Resolver) resolvePublicFolder(ctx context.Context, publicKey string) ([]domain.VideoDescriptor, error) {
	var videos []domain.VideoDescriptor

	queue := []string{""}
	first := true
	for len(queue) > 0 {
		inner := queue[0]
		queue = queue[1:]

		entries, err := r.disk.ListPublicFolder(ctx, publicKey, inner)
		if err != nil {
			if first {
				return nil, fmt.Errorf("%w: %v", domain.ErrResourceNotFound, err)
			}
			r.log.Warn("resolver: skipping unreadable public subfolder",
				"public_key", publicKey, "path", inner, "error", err)
			continue
		}
		first = false

		for _, entry := range entries {
			switch entry.Type {
			case domain.EntryFile:
				if domain.IsVideoFile(entry.Name) {
					videos = append(videos, domain.VideoDescriptor{
						Name:   entry.Name,
						Size:   entry.Size,
						Handle: domain.PublicHandle(publicKey, entry.Path),
					})
				}
			case domain.EntryDir:
				queue = append(queue, entry.Path)
			}
		}
	}

	return videos, nil
}

// parsePrivatePath extracts the folder or file path a non-public link
// addresses. Falls back to a ?path= query parameter when no pattern matches.
func parsePrivatePath(link string) (string, bool) {
	for _, pattern := range privatePathPatterns {
		if m := pattern.FindStringSubmatch(link); m != nil {
			return cleanPath(m[1]), true
		}
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	if path := parsed.Query().Get("path"); path != "" {
		return cleanPath(path), true
	}
	return "", false
}

func cleanPath(raw string) string {
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}
	return strings.TrimPrefix(raw, "/")
}
