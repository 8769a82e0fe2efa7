// Package watch ingests documents dropped into a local folder. It exists
// so a running server picks up files copied in by hand or by other tools
// without anyone calling the upload endpoint.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is ingested.
// Copies arrive as bursts of write events; ingesting on the first one
// would read a half-written file.
const DefaultSettle = 2 * time.Second

// Watcher monitors one directory and ingests files dropped into it.
type Watcher struct {
	ingester   driving.IngestionService
	extensions map[string]struct{}
	settle     time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures the watcher.
type Option func(*Watcher)

// WithSettle overrides the quiet period before ingestion.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// NewWatcher creates a drop-folder watcher. extensions lists the file
// extensions to pick up, without the leading dot.
func NewWatcher(ingester driving.IngestionService, extensions []string, opts ...Option) *Watcher {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}

	w := &Watcher{
		ingester:   ingester,
		extensions: exts,
		settle:     DefaultSettle,
		timers:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches dir until ctx is cancelled. Files already present at start
// are not ingested; only new drops and modifications are.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.Info("Watching %s for new documents", dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelTimers()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !w.watched(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// schedule (re)arms the settle timer for one path. Every new event on the
// path pushes ingestion back until the file stops changing.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.ingest(ctx, path)
	})
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}

	result, err := w.ingester.Ingest(ctx, domain.Upload{
		Name: filepath.Base(path),
		Data: data,
	})
	if err != nil {
		logger.Warn("Failed to ingest %s: %v", path, err)
		return
	}
	logger.Info("Ingested %s: %d chunks", filepath.Base(path), result.ChunkCount)
}

func (w *Watcher) watched(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := w.extensions[ext]
	return ok
}

func (w *Watcher) cancelTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}
