package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/v01cee/convert-yandex-bot/internal/domain"
	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

const (
	cpuWorkers = 2

	defaultInterItemPause = 500 * time.Millisecond
	defaultTickInterval   = 1500 * time.Millisecond
	defaultEmitMinGap     = time.Second

	// simulatedStep is the fixed whole-pipeline increment a simulated stage
	// advances per tick; advancement halts just under the stage bound.
	simulatedStep = 1.0
)

// PipelineDeps wires all driven adapters into the orchestrator.
type PipelineDeps struct {
	Disk        ports.DiskClient
	Extractor   ports.AudioExtractor
	Transcriber ports.Transcriber
	Deliverer   ports.TranscriptDeliverer
	Reporter    ports.Reporter
	TempDir     string
	Language    string
	Logger      *slog.Logger
}

// Pipeline drives download, conversion, and transcription for each resolved
// video in order, one item at a time. CPU-bound stages run on a bounded
// worker pool so they never block progress emission.
type Pipeline struct {
	disk        ports.DiskClient
	extractor   ports.AudioExtractor
	transcriber ports.Transcriber
	deliverer   ports.TranscriptDeliverer
	reporter    ports.Reporter
	tempDir     string
	language    string
	log         *slog.Logger

	workers *semaphore.Weighted

	interItemPause time.Duration
	tickInterval   time.Duration
	emitMinGap     time.Duration
	now            func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		disk:           deps.Disk,
		extractor:      deps.Extractor,
		transcriber:    deps.Transcriber,
		deliverer:      deps.Deliverer,
		reporter:       deps.Reporter,
		tempDir:        deps.TempDir,
		language:       deps.Language,
		log:            logger,
		workers:        semaphore.NewWeighted(cpuWorkers),
		interItemPause: defaultInterItemPause,
		tickInterval:   defaultTickInterval,
		emitMinGap:     defaultEmitMinGap,
		now:            time.Now,
	}
}

// Run processes every item in discovery order and returns the job summary.
// Per-item stage failures increment the failed counter and never abort the
// job; the summary is reported exactly once, after the last item.
func (p *Pipeline) Run(ctx context.Context, items []domain.VideoDescriptor) domain.JobSummary {
	job := domain.PipelineJob{Items: items, Status: domain.JobRunning}
	tracker := newProgressTracker(p.reporter)

	for i, item := range items {
		if err := p.processItem(ctx, i+1, len(items), item, tracker); err != nil {
			job.Failed++
			p.log.Error("pipeline: item failed", "item", item.Name, "stage", domain.StageOf(err), "error", err)
			p.reporter.ItemFailed(item, err)
		} else {
			job.Processed++
		}

		if i+1 < len(items) {
			// Throttles pressure on the notification channel between items.
			select {
			case <-ctx.Done():
			case <-time.After(p.interItemPause):
			}
		}
	}

	job.Status = domain.JobDone
	summary := domain.JobSummary{
		Processed: job.Processed,
		Failed:    job.Failed,
		Total:     len(items),
	}
	p.reporter.Summary(summary)
	return summary
}

// processItem runs the per-item state machine: downloading, converting,
// transcribing, delivering. Every temp artifact registered along the way is
// released when this function exits, whatever the exit path.
func (p *Pipeline) processItem(ctx context.Context, index, total int, item domain.VideoDescriptor, tracker *progressTracker) error {
	artifacts := newArtifactSet(p.log)
	defer artifacts.ReleaseAll()

	spans := stageSpans(index, total)

	videoPath, err := p.download(ctx, index, total, item, spans[0], tracker, artifacts)
	if err != nil {
		return err
	}

	audioPath, ok := p.runSimulated(ctx, index, total, domain.StageConvert, spans[1], tracker,
		func(workCtx context.Context) (string, bool) {
			return p.extractor.Extract(workCtx, videoPath)
		})
	if !ok {
		return fmt.Errorf("extract audio from %s: %w", item.Name, domain.ErrConvertFailed)
	}
	artifacts.Add(audioPath)

	text, ok := p.runSimulated(ctx, index, total, domain.StageTranscribe, spans[2], tracker,
		func(workCtx context.Context) (string, bool) {
			return p.transcriber.Transcribe(workCtx, audioPath, p.language)
		})
	if !ok {
		return fmt.Errorf("transcribe %s: %w", item.Name, domain.ErrTranscribeFailed)
	}

	textPath := p.tempPath(stem(item.Name), ".txt")
	artifacts.Add(textPath)
	if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript for %s: %w", item.Name, domain.ErrDeliveryFailed)
	}

	if err := p.deliverer.DeliverTranscript(ctx, item, textPath); err != nil {
		return fmt.Errorf("deliver transcript for %s: %w", item.Name, domain.ErrDeliveryFailed)
	}
	return nil
}

// download resolves a fresh URL for the item's handle and streams it into a
// uniquely named temp file, emitting throttled byte-accurate progress.
func (p *Pipeline) download(ctx context.Context, index, total int, item domain.VideoDescriptor, sp span, tracker *progressTracker, artifacts *artifactSet) (string, error) {
	var (
		rawURL string
		err    error
	)
	switch item.Handle.Kind {
	case domain.HandlePublic:
		rawURL, err = p.disk.PublicDownloadURL(ctx, item.Handle.PublicKey, item.Handle.InnerPath)
	default:
		rawURL, err = p.disk.DownloadURL(ctx, item.Handle.Path)
	}
	if err != nil {
		return "", fmt.Errorf("resolve url for %s: %w", item.Name, err)
	}

	ext := filepath.Ext(item.Name)
	if ext == "" {
		ext = ".mp4"
	}
	videoPath := p.tempPath(fmt.Sprintf("video_%d_%s", index, stem(item.Name)), ext)
	artifacts.Add(videoPath)

	throttle := newDownloadThrottle(p.now, p.emitMinGap)
	ok := p.disk.Download(ctx, rawURL, videoPath, func(done, totalBytes int64) {
		percent := sp.at(float64(done) / float64(totalBytes))
		if throttle.allow(percent) {
			tracker.emit(index, total, domain.StageDownload, percent)
		}
	})
	if !ok {
		return "", fmt.Errorf("download %s: %w", item.Name, domain.ErrDownloadFailed)
	}

	tracker.emit(index, total, domain.StageDownload, sp.hi)
	return videoPath, nil
}

// runSimulated executes a CPU-bound stage on the worker pool while a ticker
// emits simulated progress toward (but never reaching) the stage bound. The
// ticker is cancelled, and its goroutine fully drained, before the stage's
// terminal percentage or any later stage may emit.
func (p *Pipeline) runSimulated(ctx context.Context, index, total int, stage domain.Stage, sp span, tracker *progressTracker, work func(context.Context) (string, bool)) (string, bool) {
	tickCtx, cancel := context.WithCancel(ctx)
	tickerDone := make(chan struct{})

	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(p.tickInterval)
		defer ticker.Stop()

		percent := sp.lo
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				next := percent + simulatedStep
				if next >= sp.hi {
					continue
				}
				// Re-check after waking: the stage may have just finished.
				if tickCtx.Err() != nil {
					return
				}
				percent = next
				tracker.emit(index, total, stage, percent)
			}
		}
	}()

	out, ok := p.runBlocking(ctx, work)

	cancel()
	<-tickerDone

	if ok {
		tracker.emit(index, total, stage, sp.hi)
	}
	return out, ok
}

// runBlocking hands a blocking call to the bounded worker pool and awaits
// its result without occupying the scheduling goroutine.
func (p *Pipeline) runBlocking(ctx context.Context, work func(context.Context) (string, bool)) (string, bool) {
	if err := p.workers.Acquire(ctx, 1); err != nil {
		return "", false
	}

	type result struct {
		out string
		ok  bool
	}
	done := make(chan result, 1)
	go func() {
		defer p.workers.Release(1)
		out, ok := work(ctx)
		done <- result{out: out, ok: ok}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case r := <-done:
		return r.out, r.ok
	}
}

// tempPath builds a uniquely named path under the temp dir. The random
// suffix keeps retried or concurrent runs from colliding.
func (p *Pipeline) tempPath(base, ext string) string {
	return filepath.Join(p.tempDir, fmt.Sprintf("%s_%s%s", base, uuid.NewString(), ext))
}

func stem(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
