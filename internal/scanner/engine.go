package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/progress"
	"go.uber.org/zap"
)

// Engine orchestrates one duplicate scan: a single sequential walker feeds a
// bounded pool of hashers, whose results are serialized into the Aggregator
// by one collector goroutine. A fresh Aggregator is built per scan; finished
// reports are immutable.
type Engine struct {
	walker   *Walker
	workers  int
	log      *zap.Logger
	reporter *progress.ProgressReporter
}

// New creates an Engine from configuration
func New(cfg *config.Config) *Engine {
	return &Engine{
		walker:  NewWalker(cfg.MinFileSizeBytes(), cfg.ExcludePatterns),
		workers: cfg.EffectiveWorkers(),
		log:     zap.NewNop(),
	}
}

// SetLogger sets a structured logger for scan diagnostics
func (e *Engine) SetLogger(log *zap.Logger) {
	if log != nil {
		e.log = log
	}
}

// SetProgressReporter attaches a progress reporter. When one is set the
// engine runs a parallel pre-count pass so displays know the total upfront.
func (e *Engine) SetProgressReporter(pr *progress.ProgressReporter) {
	e.reporter = pr
}

type hashJob struct {
	fi  FileInfo
	seq uint64
}

type hashRecord struct {
	fi     FileInfo
	seq    uint64
	digest Digest
}

// Scan walks root, hashes every file and returns the finalized report.
// It fails only when root does not exist or is not a directory
// (InvalidRootError) or when ctx is cancelled; per-file access and hash
// failures are accumulated in the report's Skipped list. A cancelled scan
// produces no report.
func (e *Engine) Scan(ctx context.Context, root string) (*ScanReport, error) {
	start := time.Now()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &InvalidRootError{Path: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &InvalidRootError{Path: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &InvalidRootError{Path: abs, Err: errors.New("not a directory")}
	}

	var total int64
	if e.reporter != nil {
		e.report(progress.ScanProgress{Phase: progress.PhaseCounting, StartTime: start})
		total, _ = e.walker.Count(ctx, abs)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.log.Info("scan started",
		zap.String("root", abs),
		zap.Int("workers", e.workers))

	var (
		filesHashed  atomic.Int64
		bytesHashed  atomic.Int64
		skippedCount atomic.Int64
	)

	agg := NewAggregator()
	jobs := make(chan hashJob, 256)
	results := make(chan hashRecord, 256)
	skipCh := make(chan SkippedFile, 64)

	var (
		walkErr    error
		discovered uint64
		totalBytes int64
	)

	var workerWG sync.WaitGroup
	var pipelineWG sync.WaitGroup // walker and workers both write skipCh

	pipelineWG.Add(1)
	go func() {
		defer pipelineWG.Done()
		defer close(jobs)
		walkErr = e.walker.Walk(ctx, abs,
			func(fi FileInfo) {
				jobs <- hashJob{fi: fi, seq: discovered}
				discovered++
				totalBytes += fi.Size
			},
			func(sf SkippedFile) {
				skipCh <- sf
			})
	}()

	for i := 0; i < e.workers; i++ {
		workerWG.Add(1)
		pipelineWG.Add(1)
		go func() {
			defer workerWG.Done()
			defer pipelineWG.Done()
			h := NewHasher()
			for j := range jobs {
				// Drain without hashing once cancelled so the walker
				// never blocks on a full channel
				if ctx.Err() != nil {
					continue
				}
				digest, err := h.Hash(j.fi.Path)
				if err != nil {
					skipCh <- SkippedFile{Path: j.fi.Path, Reason: SkipHash, Detail: err.Error(), Err: err}
					continue
				}
				results <- hashRecord{fi: j.fi, seq: j.seq, digest: digest}
			}
		}()
	}

	go func() {
		workerWG.Wait()
		close(results)
	}()
	go func() {
		pipelineWG.Wait()
		close(skipCh)
	}()

	var skipWG sync.WaitGroup
	var skipped []SkippedFile
	skipWG.Add(1)
	go func() {
		defer skipWG.Done()
		for sf := range skipCh {
			skipped = append(skipped, sf)
			skippedCount.Add(1)
			e.log.Warn("skipping entry",
				zap.String("path", sf.Path),
				zap.Stringer("reason", sf.Reason),
				zap.Error(sf.Err))
		}
	}()

	// Sole writer into the aggregator
	for rec := range results {
		agg.Record(rec.fi, rec.seq, rec.digest)
		n := filesHashed.Add(1)
		b := bytesHashed.Add(rec.fi.Size)
		if e.reporter != nil {
			e.report(progress.ScanProgress{
				Phase:       progress.PhaseHashing,
				CurrentPath: rec.fi.Path,
				FilesHashed: int(n),
				FilesTotal:  int(total),
				BytesHashed: b,
				Skipped:     int(skippedCount.Load()),
				StartTime:   start,
			})
		}
	}
	skipWG.Wait()

	if walkErr != nil {
		e.report(progress.ScanProgress{Phase: progress.PhaseError, StartTime: start, Error: walkErr})
		return nil, walkErr
	}
	if err := ctx.Err(); err != nil {
		e.report(progress.ScanProgress{Phase: progress.PhaseError, StartTime: start, Error: err})
		return nil, err
	}

	groups := agg.Groups()
	var dupBytes int64
	for _, g := range groups {
		dupBytes += g.WastedBytes()
	}

	report := &ScanReport{
		Root:                abs,
		Groups:              groups,
		TotalFiles:          int(discovered),
		TotalBytes:          totalBytes,
		TotalDuplicateBytes: dupBytes,
		Skipped:             skipped,
		Duration:            time.Since(start),
	}

	e.report(progress.ScanProgress{
		Phase:       progress.PhaseComplete,
		FilesHashed: int(filesHashed.Load()),
		FilesTotal:  int(total),
		BytesHashed: bytesHashed.Load(),
		Skipped:     len(skipped),
		StartTime:   start,
	})

	e.log.Info("scan complete",
		zap.String("root", abs),
		zap.Int("files", report.TotalFiles),
		zap.Int("groups", len(report.Groups)),
		zap.Int64("duplicate_bytes", report.TotalDuplicateBytes),
		zap.Int("skipped", len(report.Skipped)),
		zap.Duration("duration", report.Duration))

	return report, nil
}

func (e *Engine) report(sp progress.ScanProgress) {
	if e.reporter == nil {
		return
	}
	e.reporter.Update(sp)
}
