package usecase

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stale := filepath.Join(dir, "video_1_old.mp4")
	fresh := filepath.Join(dir, "video_2_new.mp4")
	for _, path := range []string{stale, fresh} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-12 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	sweeper := NewSweeper(dir, 6*time.Hour, nil)
	sweeper.Sweep()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived the sweep: %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file should have survived: %v", err)
	}
}

func TestSweepSkipsSubdirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "keep")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(sub, old, old); err != nil {
		t.Fatal(err)
	}

	sweeper := NewSweeper(dir, time.Minute, nil)
	sweeper.Sweep()

	if _, err := os.Stat(sub); err != nil {
		t.Errorf("directory must not be swept: %v", err)
	}
}

func TestSweepToleratesMissingDir(t *testing.T) {
	t.Parallel()

	sweeper := NewSweeper(filepath.Join(t.TempDir(), "absent"), time.Minute, nil)
	sweeper.Sweep()
}
