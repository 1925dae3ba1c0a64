// Copyright 2025 Interlynk.io
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package folder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/source"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

type WatcherFetcher struct{}

func NewWatcherFetcher() *WatcherFetcher {
	return &WatcherFetcher{}
}

// Fetch watches config.FolderPath and yields a result each time a matching
// file is written. When FolderPath is a file its directory is watched and
// only that file is reported. The iterator ends with the context.
func (f *WatcherFetcher) Fetch(ctx tcontext.SyncMetadata, config *FolderConfig) (iterator.InputIterator, error) {
	info, err := os.Stat(config.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("reading input path: %w", err)
	}

	root := config.FolderPath
	target := ""
	if !info.IsDir() {
		root = filepath.Dir(config.FolderPath)
		target = filepath.Clean(config.FolderPath)
	}

	logger.LogDebug(ctx.Context, "Starting folder watcher", "path", root, "recursive", config.Recursive)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.LogError(ctx.Context, err, "Error accessing path", "path", path)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && (target != "" || !config.Recursive) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			logger.LogError(ctx.Context, err, "Failed to watch directory", "path", path)
		} else {
			logger.LogDebug(ctx.Context, "Watching directory", "path", path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	inputs := make(chan *iterator.Input, 10)

	go func() {
		defer close(inputs)
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				logger.LogDebug(ctx.Context, "Event Triggered", "name", event)

				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				path := filepath.Clean(event.Name)
				info, err := os.Stat(path)
				if err != nil {
					logger.LogDebug(ctx.Context, "Failed to stat path", "path", path, "error", err)
					continue
				}

				if info.IsDir() {
					if target == "" && config.Recursive && event.Has(fsnotify.Create) {
						if err := watcher.Add(path); err != nil {
							logger.LogError(ctx.Context, err, "Failed to watch new directory", "path", path)
						} else {
							logger.LogInfo(ctx.Context, "monitoring", "path", path)
						}
					}
					continue
				}

				if target != "" && path != target {
					continue
				}
				if target == "" && !source.IsResultFileName(path) {
					continue
				}

				content, err := os.ReadFile(path)
				if err != nil {
					logger.LogDebug(ctx.Context, "Failed to read result", "path", path, "error", err)
					continue
				}
				if !source.IsResultFile(content) {
					// partially written files land here as well
					logger.LogDebug(ctx.Context, "Skipping unknown document", "path", path)
					continue
				}

				select {
				case inputs <- &iterator.Input{Path: relativePath(root, path), Data: content, Source: root}:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.LogError(ctx.Context, err, "Watcher error")

			case <-ctx.Done():
				return
			}
		}
	}()

	return iterator.NewChannelIterator(inputs), nil
}
