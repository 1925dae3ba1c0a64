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
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/viveksahu26/sw360sync/pkg/adapter"
	"github.com/viveksahu26/sw360sync/pkg/attachment"
	"github.com/viveksahu26/sw360sync/pkg/download"
	"github.com/viveksahu26/sw360sync/pkg/index"
	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/reconcile"
	"github.com/viveksahu26/sw360sync/pkg/report"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/tree"
	"github.com/viveksahu26/sw360sync/pkg/types"
)

// SyncRun runs the sync command. A value on interrupts aborts the package
// currently waiting on its throttle; when no package is waiting it stops the
// run. interrupts may be nil.
func SyncRun(ctx context.Context, cmd *cobra.Command, config types.Config, interrupts <-chan os.Signal) error {
	logger.LogDebug(ctx, "Starting sw360 sync process....")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	syncCtx := tcontext.NewSyncMetadata(ctx)

	inputAdapter, err := adapter.NewInputAdapter(*syncCtx, config)
	if err != nil {
		return fmt.Errorf("failed to initialize input adapter: %w", err)
	}
	if err := inputAdapter.ParseAndValidateParams(cmd); err != nil {
		return fmt.Errorf("input adapter error: %w", err)
	}

	mirror, err := adapter.NewMirrorAdapter(*syncCtx, config)
	if err != nil {
		return fmt.Errorf("failed to initialize mirror adapter: %w", err)
	}
	if mirror != nil {
		if err := mirror.ParseAndValidateParams(cmd); err != nil {
			return fmt.Errorf("mirror adapter error: %w", err)
		}
	}

	syncCtx.WithValue(tcontext.SourceKey, config.SourceAdapter)
	syncCtx.WithValue(tcontext.MirrorKey, config.MirrorAdapter)

	var inputs iterator.InputIterator
	if config.Daemon {
		ma, ok := inputAdapter.(adapter.MonitorAdapter)
		if !ok {
			return fmt.Errorf("input adapter %s does not support daemon mode", config.SourceAdapter)
		}
		if inputs, err = ma.Monitor(*syncCtx); err != nil {
			return fmt.Errorf("failed to monitor analysis results: %w", err)
		}
	} else if inputs, err = inputAdapter.FetchInputs(*syncCtx); err != nil {
		return fmt.Errorf("failed to fetch analysis results: %w", err)
	}

	if config.DryRun {
		logger.LogDebug(syncCtx.Context, "Dry-run mode enabled: no catalog request is made")
		go watchInterrupts(ctx, interrupts, nil, cancel)
		return dryRun(*syncCtx, inputs, inputAdapter, mirror, config, os.Stdout)
	}

	syncer, err := NewSyncer(*syncCtx, config, mirror)
	if err != nil {
		return err
	}
	go watchInterrupts(ctx, interrupts, syncer.Interrupter, cancel)
	if err := syncer.Run(*syncCtx, inputs, config.Daemon); err != nil {
		return err
	}

	logger.LogDebug(ctx, "sw360 sync process completed successfully ✅")
	return nil
}

// Syncer runs the catalog stages for each analysis result.
type Syncer struct {
	Catalog    *sw360.Client
	Downloader download.Downloader
	// Mirror is nil when produced files are not mirrored.
	Mirror adapter.MirrorAdapter

	Options                types.RunOptions
	OutputDir              string
	LicenseClassifications string
	CreatedBy              string
	Throttle               attachment.Throttle
	Interrupter            *attachment.Interrupter
	Now                    func() time.Time
}

// Summary describes the outcome of one analysis result.
type Summary struct {
	Input        string
	Skipped      bool
	ProjectID    string
	Releases     int
	Files        []string
	Mirrored     int
	MirrorFailed int
}

// NewSyncer resolves the catalog token, builds the client and checks the
// connection unless validation is skipped.
func NewSyncer(ctx tcontext.SyncMetadata, config types.Config, mirror adapter.MirrorAdapter) (*Syncer, error) {
	sw360Config := config.SW360
	token, err := sw360.ResolveToken(ctx, sw360Config)
	if err != nil {
		return nil, fmt.Errorf("resolving sw360 token: %w", err)
	}
	sw360Config.Token = token

	client, err := sw360.NewClient(sw360Config)
	if err != nil {
		return nil, err
	}
	if !config.SkipValidation {
		if err := client.Validate(ctx); err != nil {
			return nil, fmt.Errorf("sw360 connection check failed: %w", err)
		}
	}

	var throttle attachment.Throttle = attachment.NoThrottle
	if config.ThrottleSeconds > 0 {
		throttle = attachment.RandomThrottle(config.ThrottleSeconds)
	}

	return &Syncer{
		Catalog:                client,
		Downloader:             NewDownloader(ctx, config),
		Mirror:                 mirror,
		Options:                config.Options,
		OutputDir:              config.OutputDir,
		LicenseClassifications: config.LicenseClassifications,
		CreatedBy:              sw360Config.Username,
		Throttle:               throttle,
		Interrupter:            attachment.NewInterrupter(),
	}, nil
}

// watchInterrupts hands each signal to the waiting package, or cancels the
// run when none is waiting.
func watchInterrupts(ctx context.Context, interrupts <-chan os.Signal, interrupter *attachment.Interrupter, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-interrupts:
			if !ok {
				return
			}
			if interrupter != nil && interrupter.Interrupt() {
				logger.LogInfo(ctx, "Interrupted the current package wait", "signal", sig.String())
				continue
			}
			logger.LogInfo(ctx, "Stopping sync", "signal", sig.String())
			cancel()
			return
		}
	}
}

// NewDownloader returns the source downloader selected by the config.
func NewDownloader(ctx context.Context, config types.Config) download.Downloader {
	switch config.SourceDownload {
	case types.SourceDownloadNone:
		return download.Noop{}
	case types.SourceDownloadGitHub:
		return &download.ChainDownloader{
			GitHub:   download.NewGitHubDownloader(ctx, config.GitHubToken),
			Artifact: download.NewArtifactDownloader(nil),
		}
	default:
		return download.NewArtifactDownloader(nil)
	}
}

// Run processes inputs until the iterator ends. In daemon mode a failing
// result is logged and the run goes on until the context is done;
// otherwise the failures are returned together.
func (s *Syncer) Run(ctx tcontext.SyncMetadata, inputs iterator.InputIterator, daemon bool) error {
	var errs []error
	for {
		input, err := inputs.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.LogDebug(ctx.Context, "Stopping sync, context is done")
				break
			}
			return fmt.Errorf("reading next result: %w", err)
		}

		summary, err := s.Process(ctx, input)
		if err != nil {
			if daemon {
				logger.LogError(ctx.Context, err, "Failed to synchronize result", "input", input.Path)
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", input.Path, err))
			continue
		}
		logger.LogInfo(ctx.Context, "sync", "input", summary.Input, "skipped", summary.Skipped, "project", summary.ProjectID,
			"releases", summary.Releases, "files", len(summary.Files), "mirrored", summary.Mirrored, "mirror_failed", summary.MirrorFailed)
	}
	return errors.Join(errs...)
}

// Process reconciles one analysis result with the catalog and attaches the
// produced files to the package releases.
func (s *Syncer) Process(ctx tcontext.SyncMetadata, input *iterator.Input) (*Summary, error) {
	logger.LogDebug(ctx.Context, "Processing analysis result", "input", input.Path, "source", input.Source)
	summary := &Summary{Input: input.Path}

	result, err := s.decode(ctx, input)
	if err != nil {
		return nil, err
	}
	if !result.HasScanResults {
		logger.LogWarn(ctx.Context, "No scan results found, skipping the result", "input", input.Path)
		summary.Skipped = true
		return summary, nil
	}

	trees := result.Trees
	if s.Options.DeduplicateDependencyTree {
		trees = tree.Deduplicate(trees)
	}

	idx, err := index.Build(ctx, s.Catalog.Projects, s.Catalog.Components, s.Catalog.Releases)
	if err != nil {
		return nil, fmt.Errorf("indexing catalog: %w", err)
	}

	reconciler := reconcile.New(s.Catalog.Projects, s.Catalog.Components, s.Catalog.Releases, idx, reconcile.Options{
		ProjectName:       s.Options.ProjectName,
		ProjectVersion:    s.Options.ProjectVersion,
		DependencyNetwork: s.Options.DependencyNetwork,
		CreatedBy:         s.CreatedBy,
	})
	if s.Now != nil {
		reconciler.WithClock(s.Now)
	}

	state, err := reconciler.Run(ctx, trees)
	if err != nil {
		return nil, err
	}
	summary.ProjectID = state.ProjectID
	summary.Releases = len(state.Releases)

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	info := report.NewResultLicenseInfo(result)
	synchronizer := &attachment.Synchronizer{
		Releases:              reconciler,
		Attachments:           s.Catalog.Releases,
		Downloader:            s.Downloader,
		Clixml:                report.NewClixmlRenderer(info, s.OutputDir),
		Notice:                report.NewNoticeWriter(info, s.OutputDir),
		Classifier:            report.NewClassifier(result.LicenseClassifications),
		LicenseTextAttachment: s.Options.LicenseTextAttachment,
		OutputDir:             s.OutputDir,
		Throttle:              s.Throttle,
		Interrupter:           s.Interrupter,
	}
	for _, packages := range projectPackageSets(trees) {
		summary.Files = append(summary.Files, synchronizer.Run(ctx, packages)...)
	}

	if s.Mirror != nil && len(summary.Files) > 0 {
		uploaded, failed, err := s.Mirror.Mirror(ctx, summary.Files)
		if err != nil {
			logger.LogError(ctx.Context, err, "Failed to mirror produced files")
		}
		summary.Mirrored, summary.MirrorFailed = uploaded, failed
	}
	return summary, nil
}

func (s *Syncer) decode(ctx tcontext.SyncMetadata, input *iterator.Input) (*tree.Result, error) {
	result, err := tree.Decode(ctx, input.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", input.Path, err)
	}
	if s.LicenseClassifications != "" {
		if err := result.LoadLicenseClassifications(s.LicenseClassifications); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// projectPackageSets returns the package set of every project. A package
// shared by several projects is only listed for the first one.
func projectPackageSets(trees []*tree.Node) [][]*tree.Package {
	var sets [][]*tree.Package
	seen := map[string]bool{}
	for _, project := range tree.Projects(trees) {
		var set []*tree.Package
		for _, pkg := range tree.ProjectPackages(project) {
			key := pkg.ID.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			set = append(set, pkg)
		}
		if len(set) > 0 {
			sets = append(sets, set)
		}
	}
	return sets
}
