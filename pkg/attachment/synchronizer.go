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

// Package attachment produces the per package report files and uploads
// them to the package releases.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/viveksahu26/sw360sync/pkg/download"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/reconcile"
	"github.com/viveksahu26/sw360sync/pkg/report"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
	"github.com/viveksahu26/sw360sync/pkg/tree"
)

// ReleaseResolver finds or creates the release of a package.
type ReleaseResolver interface {
	FindPackageRelease(ctx context.Context, pkg *tree.Package) (*sw360.Release, bool, error)
	CreatePackageRelease(ctx context.Context, pkg *tree.Package) (*sw360.Release, error)
}

type AttachmentService interface {
	DeleteAttachment(ctx context.Context, id, attachmentID string) (*sw360.Release, error)
	AttachSource(ctx context.Context, id, filePath string) (*sw360.Release, error)
	AttachComponentLicenseInfo(ctx context.Context, id, filePath string) (*sw360.Release, error)
	AttachLicenseText(ctx context.Context, id, filePath string) (*sw360.Release, error)
}

type ClixmlRenderer interface {
	Render(ctx context.Context, pkg *tree.Package) (string, error)
}

type NoticeWriter interface {
	Write(ctx context.Context, pkg *tree.Package) (string, error)
}

type NoticeClassifier interface {
	IncludeInNotice(pkg *tree.Package) bool
}

// Synchronizer processes packages one after another.
type Synchronizer struct {
	Releases    ReleaseResolver
	Attachments AttachmentService
	Downloader  download.Downloader
	Clixml      ClixmlRenderer
	Notice      NoticeWriter
	Classifier  NoticeClassifier

	LicenseTextAttachment bool
	OutputDir             string
	Throttle              Throttle
	// Interrupter aborts the current package's wait. Nil gives the
	// synchronizer its own.
	Interrupter *Interrupter
}

type outputFile struct {
	attachmentType string
	path           string
}

// Run produces and uploads the files of every package and returns the
// paths of the files it produced. A failing or interrupted package is
// logged and does not stop the others.
func (s *Synchronizer) Run(ctx context.Context, packages []*tree.Package) []string {
	if s.Interrupter == nil {
		s.Interrupter = NewInterrupter()
	}
	var produced []string
	failed := 0

	for _, pkg := range packages {
		files, err := s.processPackage(ctx, pkg)
		for _, f := range files {
			produced = append(produced, f.path)
		}
		if err != nil {
			failed++
			logger.LogError(ctx, err, "Unable to update the release for the package",
				"name", pkg.ID.Name, "version", pkg.ID.Version)
		}
	}

	logger.LogInfo(ctx, "Attachment synchronization finished", "packages", len(packages), "failed", failed, "files", len(produced))
	return produced
}

func (s *Synchronizer) processPackage(ctx context.Context, pkg *tree.Package) ([]outputFile, error) {
	throttle := s.Throttle
	if throttle == nil {
		throttle = NoThrottle
	}
	if err := s.Interrupter.wait(ctx, throttle); err != nil {
		if ctx.Err() == nil {
			logger.LogWarn(ctx, "Wait interrupted, skipping package", "name", pkg.ID.Name, "version", pkg.ID.Version)
		}
		return nil, fmt.Errorf("waiting before package: %w", err)
	}

	var files []outputFile

	archive, err := download.SourceArchive(ctx, s.Downloader, pkg, s.OutputDir)
	switch {
	case err == nil:
		files = append(files, outputFile{sw360.AttachmentSource, archive})
	case errors.Is(err, download.ErrNoSource):
		logger.LogWarn(ctx, "No source available for package", "name", pkg.ID.Name, "version", pkg.ID.Version)
	default:
		return files, err
	}

	clixml, err := s.Clixml.Render(ctx, pkg)
	switch {
	case err == nil:
		files = append(files, outputFile{sw360.AttachmentComponentLicenseInfoXML, clixml})
	case errors.Is(err, report.ErrNoLicenseData):
		logger.LogWarn(ctx, "Unable to retrieve the CLIXML for package", "name", pkg.ID.Name, "version", pkg.ID.Version)
	default:
		return files, err
	}

	if s.LicenseTextAttachment && s.Classifier.IncludeInNotice(pkg) {
		notice, err := s.Notice.Write(ctx, pkg)
		switch {
		case err == nil:
			files = append(files, outputFile{sw360.AttachmentDocument, notice})
		case errors.Is(err, report.ErrNoLicenseText):
			// already reported by the writer
		default:
			return files, err
		}
	}

	release, err := s.release(ctx, pkg)
	if err != nil {
		return files, err
	}
	if len(files) == 0 {
		return files, nil
	}
	return files, s.upload(ctx, release, files)
}

func (s *Synchronizer) release(ctx context.Context, pkg *tree.Package) (*sw360.Release, error) {
	release, ok, err := s.Releases.FindPackageRelease(ctx, pkg)
	if err != nil {
		return nil, err
	}
	if ok {
		return release, nil
	}

	logger.LogWarn(ctx, "Missing release indicates an anomaly in the dependency tree",
		"release", reconcile.ReleaseName(pkg.ID), "version", reconcile.VersionOrDefault(pkg.ID.Version))
	return s.Releases.CreatePackageRelease(ctx, pkg)
}

// upload replaces same named attachments of the release with files.
func (s *Synchronizer) upload(ctx context.Context, release *sw360.Release, files []outputFile) error {
	releaseID, err := release.ID()
	if err != nil {
		return err
	}

	existing := map[string]string{}
	for _, a := range release.Attachments() {
		name, err := a.Filename()
		if err != nil {
			continue
		}
		id, err := a.ID()
		if err != nil {
			return fmt.Errorf("attachment %s: %w", name, err)
		}
		existing[name] = id
	}

	for _, f := range files {
		name := filepath.Base(f.path)
		if id, ok := existing[name]; ok {
			logger.LogDebug(ctx, "Replacing attachment", "release", releaseID, "file", name, "attachment", id)
			if _, err := s.Attachments.DeleteAttachment(ctx, releaseID, id); err != nil {
				return fmt.Errorf("deleting attachment %s: %w", name, err)
			}
		}

		switch f.attachmentType {
		case sw360.AttachmentSource:
			_, err = s.Attachments.AttachSource(ctx, releaseID, f.path)
		case sw360.AttachmentComponentLicenseInfoXML:
			_, err = s.Attachments.AttachComponentLicenseInfo(ctx, releaseID, f.path)
		case sw360.AttachmentDocument:
			_, err = s.Attachments.AttachLicenseText(ctx, releaseID, f.path)
		default:
			logger.LogWarn(ctx, "Unexpected attachment type", "release", releaseID, "type", f.attachmentType)
			continue
		}
		if err != nil {
			return fmt.Errorf("attaching %s: %w", name, err)
		}
	}
	return nil
}
