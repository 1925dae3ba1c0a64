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

	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/source"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

type InputFetcher interface {
	Fetch(ctx tcontext.SyncMetadata, config *FolderConfig) (iterator.InputIterator, error)
}

type SequentialFetcher struct{}

// Fetch reads config.FolderPath. A file is returned as the only input, as
// long as it decodes to a known format. A folder is walked file by file
// and every recognised result is returned in walk order.
func (f *SequentialFetcher) Fetch(ctx tcontext.SyncMetadata, config *FolderConfig) (iterator.InputIterator, error) {
	info, err := os.Stat(config.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("reading input path: %w", err)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(config.FolderPath)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
		if !source.IsResultFile(content) {
			return nil, fmt.Errorf("%s is not an analysis result, SPDX or CycloneDX document", config.FolderPath)
		}
		return iterator.NewMemoryIterator([]*iterator.Input{{
			Path:   filepath.Base(config.FolderPath),
			Data:   content,
			Source: filepath.Dir(config.FolderPath),
		}}), nil
	}

	logger.LogDebug(ctx.Context, "Scanning folder for analysis results", "path", config.FolderPath)
	var inputs []*iterator.Input
	err = filepath.Walk(config.FolderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.LogInfo(ctx.Context, "error", "path", path, "error", err)
			return nil
		}

		if info.IsDir() {
			if !config.Recursive && path != config.FolderPath {
				return filepath.SkipDir
			}
			return nil
		}

		if !source.IsResultFileName(path) {
			logger.LogDebug(ctx.Context, "Skipping file", "path", relativePath(config.FolderPath, path))
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.LogError(ctx.Context, err, "Failed to read result", "path", path)
			return nil
		}

		if !source.IsResultFile(content) {
			logger.LogDebug(ctx.Context, "Skipping unknown document", "path", relativePath(config.FolderPath, path))
			return nil
		}

		inputs = append(inputs, &iterator.Input{
			Path:   relativePath(config.FolderPath, path),
			Data:   content,
			Source: config.FolderPath,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no analysis result found in %s", config.FolderPath)
	}
	return iterator.NewMemoryIterator(inputs), nil
}

// relativePath returns fullPath relative to basePath, falling back to the
// base name.
func relativePath(basePath, fullPath string) string {
	relPath, err := filepath.Rel(basePath, fullPath)
	if err != nil {
		return filepath.Base(fullPath)
	}
	return filepath.ToSlash(relPath)
}
