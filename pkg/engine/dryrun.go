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

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/viveksahu26/sw360sync/pkg/adapter"
	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/reconcile"
	"github.com/viveksahu26/sw360sync/pkg/report"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/tree"
	"github.com/viveksahu26/sw360sync/pkg/types"
)

// dryRun prints what a run would do for every input without calling the
// catalog.
func dryRun(ctx tcontext.SyncMetadata, inputs iterator.InputIterator, input adapter.InputAdapter, mirror adapter.MirrorAdapter, config types.Config, out io.Writer) error {
	if config.Daemon {
		logger.LogDebug(ctx.Context, "Dry-run mode in daemon: Previewing results in real-time")
		fmt.Fprintln(out, "\n------------------------------------------🌐 DAEMON MODE DRY-RUN PREVIEW 🌐------------------------------------------")
	}

	for {
		in, err := inputs.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				fmt.Fprintln(out, "\n✅ Dry-run stopped due to context cancellation")
				return nil
			}
			return err
		}

		fmt.Fprintln(out, "\n-----------------🌐 INPUT ADAPTER DRY-RUN OUTPUT 🌐-----------------")
		if err := input.DryRun(ctx, iterator.NewMemoryIterator([]*iterator.Input{in})); err != nil {
			return fmt.Errorf("failed to execute dry-run mode for input adapter: %w", err)
		}

		fmt.Fprintln(out, "\n-----------------🌐 CATALOG DRY-RUN OUTPUT 🌐-----------------")
		files, err := previewResult(ctx, in, config, out)
		if err != nil {
			if !config.Daemon {
				return err
			}
			logger.LogError(ctx.Context, err, "Failed to preview result", "input", in.Path)
			continue
		}

		if mirror != nil {
			fmt.Fprintln(out, "\n-----------------🌐 MIRROR DRY-RUN OUTPUT 🌐-----------------")
			mirror.DryRun(ctx, files)
		}
	}
}

// previewResult prints the tree summary of one result and returns the
// files the attachment stage would try to produce.
func previewResult(ctx tcontext.SyncMetadata, in *iterator.Input, config types.Config, out io.Writer) ([]string, error) {
	result, err := tree.Decode(ctx, in.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", in.Path, err)
	}
	if config.LicenseClassifications != "" {
		if err := result.LoadLicenseClassifications(config.LicenseClassifications); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(out, "📂 Input: %s\n", in.Path)
	fmt.Fprintf(out, "🗂  Root project: %s %s\n", config.Options.ProjectName, config.Options.ProjectVersion)
	if !result.HasScanResults {
		fmt.Fprintln(out, "⚠️  No scan results, the result would be skipped")
		return nil, nil
	}

	trees := result.Trees
	if config.Options.DeduplicateDependencyTree {
		trees = tree.Deduplicate(trees)
	}

	classifier := report.NewClassifier(result.LicenseClassifications)
	var files []string
	sets := projectPackageSets(trees)
	projects := tree.Projects(trees)

	for _, project := range projects {
		fmt.Fprintf(out, " - 📦 Project release: %s@%s\n", reconcile.ProjectReleaseName(project.Package.ID), reconcile.VersionOrDefault(project.Package.ID.Version))
	}

	total, copyleft := 0, 0
	for _, set := range sets {
		for _, pkg := range set {
			total++
			marker := ""
			if classifier.IsCopyleft(pkg) {
				copyleft++
				marker = " ⚠️ copyleft"
			}
			fmt.Fprintf(out, "   - %s@%s%s\n", reconcile.ReleaseName(pkg.ID), reconcile.VersionOrDefault(pkg.ID.Version), marker)
			files = append(files, plannedFiles(pkg, classifier, config)...)
		}
	}
	fmt.Fprintf(out, "📊 Projects: %d | Packages: %d | Copyleft: %d | Files: %d\n", len(projects), total, copyleft, len(files))
	return files, nil
}

// plannedFiles lists the files the attachment stage would try to write for
// pkg. Whether a file is really produced depends on the sources and
// license data available at run time.
func plannedFiles(pkg *tree.Package, classifier *report.Classifier, config types.Config) []string {
	var files []string
	if config.SourceDownload != types.SourceDownloadNone {
		files = append(files, filepath.Join(config.OutputDir, report.FileName(report.SourceArchivePrefix, report.SourceArchiveExt, pkg.ID)))
	}
	if len(pkg.LicenseFiles) > 0 {
		files = append(files, filepath.Join(config.OutputDir, report.FileName(report.ClixmlPrefix, report.ClixmlExtension, pkg.ID)))
	}
	if config.Options.LicenseTextAttachment && classifier.IncludeInNotice(pkg) {
		files = append(files, filepath.Join(config.OutputDir, report.FileName(report.NoticePrefix, report.NoticeExtension, pkg.ID)))
	}
	return files
}
