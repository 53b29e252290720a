// Package watcher submits audio files dropped into a directory to the
// transcribe API and writes the result next to each file.
package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/neurotrain/transcribe/internal/client"
)

// defaultSettle is how long a file must stay unchanged before it is
// considered fully written and submitted.
const defaultSettle = 2 * time.Second

var audioExts = map[string]bool{
	".ogg": true, ".oga": true, ".opus": true, ".m4a": true,
	".mp3": true, ".wav": true, ".aac": true, ".flac": true, ".webm": true,
}

// Watcher watches a directory for new audio files.
type Watcher struct {
	dir    string
	client *client.Client
	settle time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// New creates a watcher for dir submitting through c
func New(dir string, c *client.Client) *Watcher {
	return &Watcher{
		dir:    dir,
		client: c,
		settle: defaultSettle,
		timers: make(map[string]*time.Timer),
	}
}

// Run watches the directory until ctx is cancelled. Files already present
// at startup are not submitted; only new or rewritten files are.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	log.Printf("[Watcher] Watching %s for new audio files", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			w.wg.Wait()
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			log.Printf("[Watcher] Watch error: %v", err)
		}
	}
}

// schedule (re)arms the settle timer for a file. Every write pushes the
// submission back until the file goes quiet.
func (w *Watcher) schedule(ctx context.Context, path string) {
	if !audioExts[strings.ToLower(filepath.Ext(path))] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.settle)
		return
	}
	// The wg slot is claimed while the timer is armed so shutdown can wait
	// for in-flight submissions without racing the timer callback.
	w.wg.Add(1)
	w.timers[path] = time.AfterFunc(w.settle, func() {
		defer w.wg.Done()
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.process(ctx, path)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
}

// process submits one file and writes <name>.json beside it
func (w *Watcher) process(ctx context.Context, path string) {
	log.Printf("[Watcher] Submitting %s", filepath.Base(path))

	result, err := w.client.Transcribe(ctx, path)
	if err != nil {
		log.Printf("[Watcher] Transcription failed for %s: %v", filepath.Base(path), err)
		return
	}

	out := resultPath(path)
	data, err := json.MarshalIndent(map[string]any{
		"transcript": result.Transcript,
		"language":   result.Language,
		"tldr":       result.TLDR,
	}, "", "  ")
	if err != nil {
		log.Printf("[Watcher] Failed to encode result for %s: %v", filepath.Base(path), err)
		return
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		log.Printf("[Watcher] Failed to write %s: %v", out, err)
		return
	}
	log.Printf("[Watcher] Wrote %s (language: %s, %d characters)",
		filepath.Base(out), result.Language, len(result.Transcript))
}

// resultPath maps voice.ogg to voice.json
func resultPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + ".json"
}
