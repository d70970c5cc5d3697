package domain

import (
	"path"
	"strings"
)

// HandleKind discriminates the two ways a video can be fetched from the disk.
type HandleKind string

const (
	// HandlePrivate addresses a resource on the owner's disk by path.
	HandlePrivate HandleKind = "private"
	// HandlePublic addresses a shared resource by its public key, optionally
	// with a path inside the shared tree.
	HandlePublic HandleKind = "public"
)

// RetrievalHandle is the minimal information needed to request a download URL.
// Exactly one variant is populated, selected by Kind.
type RetrievalHandle struct {
	Kind      HandleKind
	Path      string
	PublicKey string
	InnerPath string
}

// PrivateHandle builds a handle for a resource on the owner's disk.
func PrivateHandle(path string) RetrievalHandle {
	return RetrievalHandle{Kind: HandlePrivate, Path: path}
}

// PublicHandle builds a handle for a publicly shared resource. innerPath is
// empty when the public key addresses the file itself.
func PublicHandle(publicKey, innerPath string) RetrievalHandle {
	return RetrievalHandle{Kind: HandlePublic, PublicKey: publicKey, InnerPath: innerPath}
}

// VideoDescriptor is the resolved identity of one discoverable video.
// Size is advisory and may be zero for some public listings.
type VideoDescriptor struct {
	Name   string
	Size   int64
	Handle RetrievalHandle
}

// EntryType is the resource type reported by the disk API.
type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// Entry is one row of a folder listing or a public-resource metadata lookup.
type Entry struct {
	Type EntryType
	Name string
	Path string
	Size int64
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".wmv": {}, ".flv": {},
	".webm": {}, ".m4v": {}, ".3gp": {}, ".mpg": {}, ".mpeg": {},
}

// IsVideoFile reports whether the filename carries a known video extension.
// Matching is case-insensitive and by suffix only.
func IsVideoFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	_, ok := videoExtensions[ext]
	return ok
}
