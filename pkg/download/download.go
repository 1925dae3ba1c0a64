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

// Package download retrieves package sources and packs them into archives.
package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/report"
	"github.com/viveksahu26/sw360sync/pkg/tree"
)

// ErrNoSource is returned when a package has no source location that the
// downloader can use.
var ErrNoSource = errors.New("no source location available")

// Downloader fills dir with the sources of pkg.
type Downloader interface {
	Download(ctx context.Context, pkg *tree.Package, dir string) error
}

// Noop never downloads anything.
type Noop struct{}

func (Noop) Download(context.Context, *tree.Package, string) error {
	return ErrNoSource
}

// ChainDownloader tries GitHub for GitHub VCS locations and falls back to
// the source artifact.
type ChainDownloader struct {
	GitHub   Downloader
	Artifact Downloader
}

func (c *ChainDownloader) Download(ctx context.Context, pkg *tree.Package, dir string) error {
	if c.GitHub != nil {
		if _, _, ok := ParseGitHubURL(pkg.VCS.URL); ok {
			err := c.GitHub.Download(ctx, pkg, dir)
			if err == nil {
				return nil
			}
			if c.Artifact == nil {
				return err
			}
			logger.LogDebug(ctx, "GitHub download failed, trying source artifact", "package", pkg.ID.String(), "error", err)
			if err := resetDir(dir); err != nil {
				return err
			}
		}
	}
	if c.Artifact == nil {
		return ErrNoSource
	}
	return c.Artifact.Download(ctx, pkg, dir)
}

// SourceArchive downloads the sources of pkg into a temporary directory
// below outDir and packs them into the package's source archive file.
func SourceArchive(ctx context.Context, d Downloader, pkg *tree.Package, outDir string) (string, error) {
	tmp := filepath.Join(outDir, tempDirName(pkg.ID))
	if _, err := os.Stat(tmp); err == nil {
		logger.LogWarn(ctx, "Source directory already exists", "path", tmp)
	}
	defer os.RemoveAll(tmp)

	src := filepath.Join(tmp, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		return "", fmt.Errorf("creating source directory: %w", err)
	}
	if err := d.Download(ctx, pkg, src); err != nil {
		return "", fmt.Errorf("downloading sources of %s: %w", pkg.ID, err)
	}

	archive := filepath.Join(outDir, report.FileName(report.SourceArchivePrefix, report.SourceArchiveExt, pkg.ID))
	if err := PackZip(src, archive); err != nil {
		return "", err
	}
	logger.LogDebug(ctx, "Packed source archive", "package", pkg.ID.String(), "file", archive)
	return archive, nil
}

func tempDirName(id tree.Identifier) string {
	parts := []string{id.Type, id.Namespace, id.Name, id.Version}
	for i, p := range parts {
		parts[i] = strings.NewReplacer("/", "%2F", ":", "%3A").Replace(p)
	}
	return ".src-" + strings.Join(parts, "-")
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("cleaning %s: %w", dir, err)
	}
	return os.MkdirAll(dir, 0o755)
}
