package usecase

import (
	"log/slog"
	"os"
)

// artifactSet tracks every file one item's processing writes to transient
// storage. ReleaseAll deletes them; deletion errors are logged and swallowed
// so cleanup can never change an item's outcome.
type artifactSet struct {
	paths []string
	log   *slog.Logger
}

func newArtifactSet(logger *slog.Logger) *artifactSet {
	return &artifactSet{log: logger}
}

// Add registers a path for deletion. Registering before the file exists is
// fine; removal of a never-created file is not an error worth reporting.
func (a *artifactSet) Add(path string) {
	a.paths = append(a.paths, path)
}

// ReleaseAll deletes every registered artifact.
func (a *artifactSet) ReleaseAll() {
	for _, path := range a.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			a.log.Warn("cleanup: cannot remove temp artifact", "path", path, "error", err)
		}
	}
	a.paths = nil
}
