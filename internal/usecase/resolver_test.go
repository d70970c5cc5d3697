package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/v01cee/convert-yandex-bot/internal/domain"
)

// fakeDiskTree serves listings from in-memory folder maps.
type fakeDiskTree struct {
	folders       map[string][]domain.Entry
	publicInfo    map[string]domain.Entry
	publicFolders map[string][]domain.Entry
}

func (f *fakeDiskTree) ListFolder(_ context.Context, path string) ([]domain.Entry, error) {
	entries, ok := f.folders[path]
	if !ok {
		return nil, fmt.Errorf("no such folder: %s", path)
	}
	return entries, nil
}

func (f *fakeDiskTree) PublicResourceInfo(_ context.Context, publicKey string) (domain.Entry, error) {
	info, ok := f.publicInfo[publicKey]
	if !ok {
		return domain.Entry{}, fmt.Errorf("no such public resource: %s", publicKey)
	}
	return info, nil
}

func (f *fakeDiskTree) ListPublicFolder(_ context.Context, publicKey, innerPath string) ([]domain.Entry, error) {
	entries, ok := f.publicFolders[publicKey+"|"+innerPath]
	if !ok {
		return nil, fmt.Errorf("no such public folder: %s %s", publicKey, innerPath)
	}
	return entries, nil
}

func (f *fakeDiskTree) DownloadURL(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeDiskTree) PublicDownloadURL(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeDiskTree) Download(context.Context, string, string, func(int64, int64)) bool {
	return false
}

func TestResolvePrivateFolderRecursive(t *testing.T) {
	t.Parallel()

	disk := &fakeDiskTree{
		folders: map[string][]domain.Entry{
			"abc123": {
				{Type: domain.EntryFile, Name: "a.mp4", Path: "disk:/videos/a.mp4", Size: 10 << 20},
				{Type: domain.EntryFile, Name: "notes.txt", Path: "disk:/videos/notes.txt", Size: 100},
				{Type: domain.EntryDir, Name: "sub", Path: "disk:/videos/sub"},
			},
			"disk:/videos/sub": {
				{Type: domain.EntryFile, Name: "b.mkv", Path: "disk:/videos/sub/b.mkv", Size: 5 << 20},
			},
		},
	}

	resolver := NewResolver(disk, nil)
	videos, err := resolver.Resolve(context.Background(), "https://yandex.ru/d/abc123")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}

	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	if videos[0].Name != "a.mp4" || videos[1].Name != "b.mkv" {
		t.Fatalf("unexpected order: %s, %s", videos[0].Name, videos[1].Name)
	}
	if videos[0].Handle.Kind != domain.HandlePrivate {
		t.Fatalf("expected private handle, got %s", videos[0].Handle.Kind)
	}
	if videos[1].Handle.Path != "disk:/videos/sub/b.mkv" {
		t.Fatalf("unexpected path: %s", videos[1].Handle.Path)
	}
}

func TestResolveUnrecognizedLink(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&fakeDiskTree{}, nil)
	_, err := resolver.Resolve(context.Background(), "https://example.com/whatever")
	if !errors.Is(err, domain.ErrLinkUnrecognized) {
		t.Fatalf("expected ErrLinkUnrecognized, got %v", err)
	}
}

func TestResolveMissingFolder(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&fakeDiskTree{folders: map[string][]domain.Entry{}}, nil)
	_, err := resolver.Resolve(context.Background(), "https://yandex.ru/d/gone")
	if !errors.Is(err, domain.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestResolvePublicSingleFile(t *testing.T) {
	t.Parallel()

	disk := &fakeDiskTree{
		publicInfo: map[string]domain.Entry{
			"xyz": {Type: domain.EntryFile, Name: "clip.mov", Path: "/", Size: 42},
		},
	}

	resolver := NewResolver(disk, nil)
	videos, err := resolver.Resolve(context.Background(), "https://yandex.ru/i/xyz")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}

	handle := videos[0].Handle
	if handle.Kind != domain.HandlePublic || handle.PublicKey != "xyz" {
		t.Fatalf("unexpected handle: %+v", handle)
	}
	if handle.InnerPath != "" {
		t.Fatalf("single public file must carry no inner path, got %q", handle.InnerPath)
	}
}

func TestResolvePublicSingleFileNotAVideo(t *testing.T) {
	t.Parallel()

	disk := &fakeDiskTree{
		publicInfo: map[string]domain.Entry{
			"xyz": {Type: domain.EntryFile, Name: "report.pdf"},
		},
	}

	resolver := NewResolver(disk, nil)
	_, err := resolver.Resolve(context.Background(), "https://disk.yandex.ru/i/xyz")
	if !errors.Is(err, domain.ErrNotAVideo) {
		t.Fatalf("expected ErrNotAVideo, got %v", err)
	}
}

func TestResolvePublicFolderRecursive(t *testing.T) {
	t.Parallel()

	disk := &fakeDiskTree{
		publicInfo: map[string]domain.Entry{
			"key1": {Type: domain.EntryDir, Name: "shared"},
		},
		publicFolders: map[string][]domain.Entry{
			"key1|": {
				{Type: domain.EntryFile, Name: "top.webm", Path: "/top.webm", Size: 7},
				{Type: domain.EntryDir, Name: "nested", Path: "/nested"},
			},
			"key1|/nested": {
				{Type: domain.EntryFile, Name: "deep.avi", Path: "/nested/deep.avi", Size: 9},
				{Type: domain.EntryFile, Name: "readme.md", Path: "/nested/readme.md", Size: 1},
			},
		},
	}

	resolver := NewResolver(disk, nil)
	videos, err := resolver.Resolve(context.Background(), "https://yandex.ru/i/key1")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}

	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	if videos[0].Name != "top.webm" || videos[1].Name != "deep.avi" {
		t.Fatalf("unexpected order: %s, %s", videos[0].Name, videos[1].Name)
	}
	if videos[1].Handle.PublicKey != "key1" || videos[1].Handle.InnerPath != "/nested/deep.avi" {
		t.Fatalf("unexpected handle: %+v", videos[1].Handle)
	}
}

func TestResolveUnsupportedResourceType(t *testing.T) {
	t.Parallel()

	disk := &fakeDiskTree{
		publicInfo: map[string]domain.Entry{
			"odd": {Type: "symlink", Name: "strange"},
		},
	}

	resolver := NewResolver(disk, nil)
	_, err := resolver.Resolve(context.Background(), "https://yandex.ru/i/odd")
	if !errors.Is(err, domain.ErrUnsupportedResourceType) {
		t.Fatalf("expected ErrUnsupportedResourceType, got %v", err)
	}
}

func TestExtractLink(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"You wrote: https://yandex.ru/d/abc see it", "https://yandex.ru/d/abc", true},
		{"no links here", "", false},
		{"(https://disk.yandex.ru/i/q) trailing", "https://disk.yandex.ru/i/q", true},
	}

	for _, tc := range cases {
		got, ok := ExtractLink(tc.text)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ExtractLink(%q) = %q, %v; want %q, %v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsDiskLink(t *testing.T) {
	t.Parallel()

	if !IsDiskLink("https://DISK.yandex.ru/i/abc") {
		t.Fatal("expected case-insensitive disk host to match")
	}
	if IsDiskLink("https://drive.google.com/file/d/xyz") {
		t.Fatal("expected foreign host to be rejected")
	}
}
