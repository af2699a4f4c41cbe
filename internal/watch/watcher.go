// Package watch re-runs the content updater whenever its input document
// changes on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/logfields"
)

// RunFunc performs one update. Errors are logged and never stop the watcher.
type RunFunc func(ctx context.Context) error

// InputWatcher monitors an input document and triggers debounced runs.
type InputWatcher struct {
	inputPath   string
	run         RunFunc
	watcher     *fsnotify.Watcher
	runMu       sync.Mutex
	inFlight    sync.WaitGroup
	triggerChan chan struct{}
	debounce    time.Duration
}

// New creates a watcher for inputPath. Call Run to start it.
func New(inputPath string, debounce time.Duration, run RunFunc) (*InputWatcher, error) {
	// Resolve absolute path for consistent watching
	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve input path").
			Fatal().
			WithContext("path", inputPath).
			Build()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "cannot create file watcher").Fatal().Build()
	}

	return &InputWatcher{
		inputPath:   absPath,
		run:         run,
		watcher:     watcher,
		triggerChan: make(chan struct{}, 1),
		debounce:    debounce,
	}, nil
}

// Run performs an initial update, then watches until ctx is done. It waits
// for an in-flight update to finish before returning.
func (w *InputWatcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	// Watch the directory containing the input (more reliable than watching
	// the file directly, which atomic replacements would detach).
	inputDir := filepath.Dir(w.inputPath)
	if err := w.watcher.Add(inputDir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot watch input directory").
			Fatal().
			WithContext("path", inputDir).
			Build()
	}

	slog.Info("Watching input document", logfields.Input(w.inputPath), slog.Duration("debounce", w.debounce))
	w.perform(ctx)

	var timer *time.Timer
	defer func() {
		if timer != nil && timer.Stop() {
			w.inFlight.Done()
		}
		w.inFlight.Wait()
	}()

	inputFile := filepath.Base(w.inputPath)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping input watcher")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// Only process events for our input file
			if filepath.Base(event.Name) != inputFile {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Input change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.trigger()
			case event.Has(fsnotify.Remove):
				slog.Warn("Input document removed", logfields.Path(event.Name))
			}

		case <-w.triggerChan:
			// Reset/start debounce timer. A timer stopped before firing
			// releases its in-flight slot here.
			if timer != nil && timer.Stop() {
				w.inFlight.Done()
			}
			w.inFlight.Add(1)
			timer = time.AfterFunc(w.debounce, func() {
				defer w.inFlight.Done()
				if ctx.Err() != nil {
					return
				}
				w.perform(ctx)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Input watcher error", logfields.Error(err))
		}
	}
}

// trigger requests a debounced run; a pending request absorbs new ones.
func (w *InputWatcher) trigger() {
	select {
	case w.triggerChan <- struct{}{}:
	default:
	}
}

// perform runs one update; runs never overlap.
func (w *InputWatcher) perform(ctx context.Context) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if err := w.run(ctx); err != nil {
		slog.Error("Update failed, still watching", logfields.Input(w.inputPath), logfields.Error(err))
	}
}
