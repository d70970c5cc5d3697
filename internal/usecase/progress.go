package usecase

import (
	"math"
	"sync"
	"time"

	"github.com/v01cee/convert-yandex-bot/internal/domain"
	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

// span is a closed sub-range of whole-pipeline progress assigned to one stage.
type span struct {
	lo, hi float64
}

// at maps a stage-local completion fraction into the whole-pipeline range.
func (s span) at(frac float64) float64 {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return s.lo + (s.hi-s.lo)*frac
}

// stageSpans partitions item i's share of [0,100] into three equal thirds,
// one per stage, in stage order. i is 1-based.
func stageSpans(i, n int) [3]span {
	lo := 100 * float64(i-1) / float64(n)
	hi := 100 * float64(i) / float64(n)
	third := (hi - lo) / 3
	return [3]span{
		{lo: lo, hi: lo + third},
		{lo: lo + third, hi: lo + 2*third},
		{lo: lo + 2*third, hi: hi},
	}
}

// progressTracker serializes progress emissions from the job goroutine and
// the simulated tickers into one ordered, monotonically non-decreasing
// stream delivered to a single reporter.
type progressTracker struct {
	mu       sync.Mutex
	reporter ports.Reporter
	last     float64
}

func newProgressTracker(reporter ports.Reporter) *progressTracker {
	return &progressTracker{reporter: reporter}
}

func (t *progressTracker) emit(itemIndex, totalItems int, stage domain.Stage, percent float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if percent < t.last {
		percent = t.last
	}
	t.last = percent
	t.reporter.Progress(domain.StageProgress{
		ItemIndex:  itemIndex,
		TotalItems: totalItems,
		Stage:      stage,
		Percent:    percent,
	})
}

// downloadThrottle damps byte-level progress callbacks: an update passes only
// when the rounded percentage bucket changes and at least minGap has elapsed
// since the previous accepted update.
type downloadThrottle struct {
	now        func() time.Time
	minGap     time.Duration
	lastBucket int
	lastAt     time.Time
}

func newDownloadThrottle(now func() time.Time, minGap time.Duration) *downloadThrottle {
	return &downloadThrottle{now: now, minGap: minGap, lastBucket: -1}
}

func (t *downloadThrottle) allow(percent float64) bool {
	bucket := int(math.Round(percent))
	if bucket == t.lastBucket {
		return false
	}
	at := t.now()
	if !t.lastAt.IsZero() && at.Sub(t.lastAt) < t.minGap {
		return false
	}
	t.lastBucket = bucket
	t.lastAt = at
	return true
}
