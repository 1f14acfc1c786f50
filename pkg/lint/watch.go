package lint

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const watchDebounce = 200 * time.Millisecond

// Watch lints the files once, then re-lints whenever one of them changes,
// invoking notify with each new set of results. It blocks until ctx is
// cancelled.
//
// The parent directories are watched rather than the files themselves, so
// editors that replace a file on save (write to temp, rename over) do not
// drop the watch.
func Watch(ctx context.Context, opts LintOptions, notify func([]LintResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	watched := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range opts.FilePaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", p)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	relint := func() {
		results, err := LintFiles(ctx, opts)
		if err != nil {
			// Atomic saves briefly replace the file, so a read can fail
			// without invalidating the results for the other files.
			klog.Errorf("Failed to lint after change: %v", err)
		}
		if len(results) > 0 {
			notify(results)
		}
	}

	relint()

	// Editors often emit several events per save, so debounce before
	// re-linting.
	var timer *time.Timer
	changed := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				klog.V(2).Infof("Change detected in %s", event.Name)
				schedule()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("File watcher error: %v", err)
		case <-changed:
			relint()
		}
	}
}
