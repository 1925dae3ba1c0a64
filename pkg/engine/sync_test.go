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
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/viveksahu26/sw360sync/pkg/attachment"
	"github.com/viveksahu26/sw360sync/pkg/download"
	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360/fakesw360"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/tree"
	"github.com/viveksahu26/sw360sync/pkg/types"
)

const shopResult = `{
	"packages": [
		{"id": "NPM::shop:1.0", "isProject": true},
		{"id": "NPM::lodash:4.17.21", "declaredLicenses": ["MIT"],
		 "licenseFiles": [{"path": "LICENSE", "text": "MIT text", "licenses": ["MIT"]}]},
		{"id": "NPM::left-pad:1.3.0", "declaredLicenses": ["GPL-2.0-only"]}
	],
	"licenseClassifications": {"MIT": ["include-in-notice-file"], "GPL-2.0-only": ["copyleft"]},
	"dependencyTrees": [
		{"pkg": "NPM::shop:1.0", "children": [
			{"scope": "dependencies", "children": [
				{"pkg": "NPM::lodash:4.17.21", "children": [{"pkg": "NPM::left-pad:1.3.0"}]}
			]}
		]}
	]
}`

type stubMirror struct {
	files []string
}

func (m *stubMirror) AddCommandParams(*cobra.Command) {}
func (m *stubMirror) ParseAndValidateParams(*cobra.Command) error { return nil }
func (m *stubMirror) DryRun(_ tcontext.SyncMetadata, files []string) { m.files = append(m.files, files...) }

func (m *stubMirror) Mirror(_ tcontext.SyncMetadata, files []string) (int, int, error) {
	m.files = append(m.files, files...)
	return len(files), 0, nil
}

type stubInput struct{}

func (stubInput) AddCommandParams(*cobra.Command) {}
func (stubInput) ParseAndValidateParams(*cobra.Command) error { return nil }
func (stubInput) FetchInputs(tcontext.SyncMetadata) (iterator.InputIterator, error) {
	return iterator.NewMemoryIterator(nil), nil
}
func (stubInput) DryRun(tcontext.SyncMetadata, iterator.InputIterator) error { return nil }

type fixture struct {
	srv    *fakesw360.Server
	syncer *Syncer
	mirror *stubMirror
	logs   *observer.ObservedLogs
	ctx    tcontext.SyncMetadata
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := fakesw360.New(t)
	client, err := sw360.NewClient(sw360.Config{RestURL: srv.URL, Token: "t"})
	require.NoError(t, err)

	opts, err := types.ParseRunOptions(nil)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	mirror := &stubMirror{}
	return &fixture{
		srv:    srv,
		mirror: mirror,
		logs:   logs,
		ctx:    *tcontext.NewSyncMetadata(logger.NewContext(context.Background(), zap.New(core).Sugar())),
		syncer: &Syncer{
			Catalog:    client,
			Downloader: download.Noop{},
			Mirror:     mirror,
			Options:    opts,
			OutputDir:  t.TempDir(),
			CreatedBy:  "ci",
			Throttle:   attachment.NoThrottle,
			Now:        func() time.Time { return time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC) },
		},
	}
}

func releaseID(srv *fakesw360.Server, name string) string {
	for id, fields := range srv.Releases() {
		if fields["name"] == name {
			return id
		}
	}
	return ""
}

func TestProcessSynchronizesResult(t *testing.T) {
	f := newFixture(t)

	summary, err := f.syncer.Process(f.ctx, &iterator.Input{Path: "result.json", Data: []byte(shopResult)})
	require.NoError(t, err)

	assert.False(t, summary.Skipped)
	assert.NotEmpty(t, summary.ProjectID)
	assert.Equal(t, "ORT_LICENSE_REPORT", f.srv.Projects()[summary.ProjectID]["name"])

	lodash := releaseID(f.srv, "lodash")
	require.NotEmpty(t, lodash)
	require.NotEmpty(t, releaseID(f.srv, "left-pad"))

	out := f.syncer.OutputDir
	assert.Equal(t, []string{
		filepath.Join(out, "ort-cli_NPM-lodash@4.17.21.xml"),
		filepath.Join(out, "ort-license-text_NPM-lodash@4.17.21.txt"),
	}, summary.Files)
	assert.Len(t, f.srv.Attachments(lodash), 2)
	assert.Empty(t, f.srv.Attachments(releaseID(f.srv, "left-pad")))

	assert.Equal(t, summary.Files, f.mirror.files)
	assert.Equal(t, 2, summary.Mirrored)
}

func TestProcessSkipsResultWithoutScanResults(t *testing.T) {
	f := newFixture(t)

	summary, err := f.syncer.Process(f.ctx, &iterator.Input{Path: "r.yml", Data: []byte("hasScanResults: false\ndependencyTrees: []\n")})
	require.NoError(t, err)

	assert.True(t, summary.Skipped)
	assert.Empty(t, f.srv.Calls())
	assert.Equal(t, 1, f.logs.FilterMessage("No scan results found, skipping the result").Len())
}

func TestProcessDeduplicatesAndLoadsClassifications(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "license-classifications.yml")
	require.NoError(t, os.WriteFile(path, []byte("categorizations:\n  - id: GPL-2.0-only\n    categories: [include-in-notice-file]\n"), 0o644))

	f.syncer.LicenseClassifications = path
	f.syncer.Options.DeduplicateDependencyTree = true
	f.syncer.Options.LicenseTextAttachment = false

	summary, err := f.syncer.Process(f.ctx, &iterator.Input{Path: "result.json", Data: []byte(shopResult)})
	require.NoError(t, err)
	assert.Len(t, summary.Files, 1)

	f.syncer.LicenseClassifications = filepath.Join(t.TempDir(), "missing.yml")
	_, err = f.syncer.Process(f.ctx, &iterator.Input{Path: "result.json", Data: []byte(shopResult)})
	assert.ErrorContains(t, err, "reading license classifications")
}

func TestRunCollectsFailures(t *testing.T) {
	f := newFixture(t)
	inputs := []*iterator.Input{
		{Path: "broken.json", Data: []byte("not json{")},
		{Path: "result.json", Data: []byte(shopResult)},
	}

	err := f.syncer.Run(f.ctx, iterator.NewMemoryIterator(inputs), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
	assert.Len(t, f.srv.Projects(), 1)

	err = f.syncer.Run(f.ctx, iterator.NewMemoryIterator(inputs), true)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.logs.FilterMessage("Failed to synchronize result").Len())
}

func TestRunStopsOnRemoteFailure(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail = func(r *http.Request) int {
		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/components") {
			return http.StatusInternalServerError
		}
		return 0
	}

	_, err := f.syncer.Process(f.ctx, &iterator.Input{Path: "result.json", Data: []byte(shopResult)})
	assert.ErrorContains(t, err, "indexing catalog")
	assert.Empty(t, f.srv.Releases())
}

func TestDryRun(t *testing.T) {
	var out bytes.Buffer
	mirror := &stubMirror{}
	config := types.Config{
		OutputDir:      "reports",
		SourceDownload: types.SourceDownloadNone,
		Options:        types.RunOptions{ProjectName: "ORT_LICENSE_REPORT", LicenseTextAttachment: true},
	}
	inputs := iterator.NewMemoryIterator([]*iterator.Input{{Path: "result.json", Data: []byte(shopResult)}})

	require.NoError(t, dryRun(*tcontext.NewSyncMetadata(context.Background()), inputs, stubInput{}, mirror, config, &out))

	assert.Contains(t, out.String(), "Project release: ort-project/NPM/shop@1.0")
	assert.Contains(t, out.String(), "lodash@4.17.21\n")
	assert.Contains(t, out.String(), "left-pad@1.3.0 ⚠️ copyleft")
	assert.Contains(t, out.String(), "Projects: 1 | Packages: 2 | Copyleft: 1 | Files: 2")
	assert.Equal(t, []string{
		filepath.Join("reports", "ort-cli_NPM-lodash@4.17.21.xml"),
		filepath.Join("reports", "ort-license-text_NPM-lodash@4.17.21.txt"),
	}, mirror.files)
}

func TestNewDownloader(t *testing.T) {
	ctx := context.Background()
	assert.IsType(t, download.Noop{}, NewDownloader(ctx, types.Config{SourceDownload: types.SourceDownloadNone}))
	assert.IsType(t, &download.ArtifactDownloader{}, NewDownloader(ctx, types.Config{SourceDownload: types.SourceDownloadArtifact}))
	assert.IsType(t, &download.ChainDownloader{}, NewDownloader(ctx, types.Config{SourceDownload: types.SourceDownloadGitHub}))
}

func TestProjectPackageSets(t *testing.T) {
	shared := &tree.Package{ID: tree.Identifier{Type: "NPM", Name: "shared", Version: "1"}}
	only := &tree.Package{ID: tree.Identifier{Type: "NPM", Name: "only", Version: "1"}}
	a := tree.NewProjectNode(&tree.Package{ID: tree.Identifier{Type: "NPM", Name: "a", Version: "1"}, IsProject: true}, tree.NewPackageNode(shared))
	b := tree.NewProjectNode(&tree.Package{ID: tree.Identifier{Type: "NPM", Name: "b", Version: "1"}, IsProject: true}, tree.NewPackageNode(shared), tree.NewPackageNode(only))

	sets := projectPackageSets([]*tree.Node{a, b})
	assert.Equal(t, [][]*tree.Package{{shared}, {only}}, sets)
}

func TestWatchInterruptsStopsIdleRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupts := make(chan os.Signal, 1)
	interrupts <- os.Interrupt

	done := make(chan struct{})
	go func() {
		defer close(done)
		watchInterrupts(ctx, interrupts, attachment.NewInterrupter(), cancel)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("interrupt was not handled")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWatchInterruptsClosedChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupts := make(chan os.Signal)
	close(interrupts)
	watchInterrupts(ctx, interrupts, nil, cancel)
	assert.NoError(t, ctx.Err())
}
