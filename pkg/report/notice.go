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

package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tree"
)

// ErrNoLicenseText is returned when none of a package's license files has
// text. No file is written in that case.
var ErrNoLicenseText = errors.New("no license text available")

// NoticeSeparator goes between two license texts of a notice file.
var NoticeSeparator = "\n\n" + strings.Repeat("=", 72) + "\n\n"

type NoticeWriter struct {
	info      LicenseInfoProvider
	outputDir string
}

func NewNoticeWriter(info LicenseInfoProvider, outputDir string) *NoticeWriter {
	return &NoticeWriter{info: info, outputDir: outputDir}
}

// Text joins the non-blank license texts of pkg.
func (w *NoticeWriter) Text(pkg *tree.Package) string {
	var texts []string
	for _, file := range w.info.LicenseFiles(pkg.ID) {
		if strings.TrimSpace(file.Text) == "" {
			continue
		}
		texts = append(texts, file.Text)
	}
	return strings.Join(texts, NoticeSeparator)
}

// Write stores the notice file of pkg and returns its path.
func (w *NoticeWriter) Write(ctx context.Context, pkg *tree.Package) (string, error) {
	text := w.Text(pkg)
	if text == "" {
		logger.LogWarn(ctx, "Unable to retrieve the license text", "name", pkg.ID.Name, "version", pkg.ID.Version)
		return "", ErrNoLicenseText
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(w.outputDir, FileName(NoticePrefix, NoticeExtension, pkg.ID))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing notice %s: %w", path, err)
	}
	logger.LogDebug(ctx, "Wrote notice file", "package", pkg.ID.String(), "file", path)
	return path, nil
}
