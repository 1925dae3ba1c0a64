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

package reconcile_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/viveksahu26/sw360sync/pkg/index"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/reconcile"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360/fakesw360"
	"github.com/viveksahu26/sw360sync/pkg/tree"
)

var fixedClock = func() time.Time { return time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) }

type fixture struct {
	srv    *fakesw360.Server
	client *sw360.Client
	logs   *observer.ObservedLogs
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := fakesw360.New(t)
	client, err := sw360.NewClient(sw360.Config{RestURL: srv.URL, Token: "t"})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.NewContext(context.Background(), zap.New(core).Sugar())
	return &fixture{srv: srv, client: client, logs: logs, ctx: ctx}
}

func (f *fixture) reconciler(t *testing.T, opts reconcile.Options) *reconcile.Reconciler {
	t.Helper()
	idx, err := index.Build(f.ctx, f.client.Projects, f.client.Components, f.client.Releases)
	require.NoError(t, err)
	return reconcile.New(f.client.Projects, f.client.Components, f.client.Releases, idx, opts).WithClock(fixedClock)
}

// releaseByName returns the id and fields of the stored release.
func (f *fixture) releaseByName(t *testing.T, name, version string) (string, map[string]interface{}) {
	t.Helper()
	for id, fields := range f.srv.Releases() {
		if fields["name"] == name && fields["version"] == version {
			return id, fields
		}
	}
	t.Fatalf("no release %s %s", name, version)
	return "", nil
}

func sampleTree() *tree.Node {
	app := &tree.Package{ID: tree.Identifier{Type: "Maven", Namespace: "com.example", Name: "app", Version: "1.0"}, IsProject: true}
	lodash := &tree.Package{
		ID:               tree.Identifier{Type: "NPM", Name: "lodash", Version: "4.17.21"},
		DeclaredLicenses: []string{"MIT"},
		UnmappedLicenses: []string{"Some custom license"},
	}
	types := &tree.Package{ID: tree.Identifier{Type: "NPM", Namespace: "@types", Name: "node"}}
	guava := &tree.Package{ID: tree.Identifier{Type: "Maven", Namespace: "com.google.guava", Name: "guava", Version: "33.0"}}

	return tree.NewProjectNode(app,
		tree.NewScopeNode("compile",
			tree.NewPackageNode(lodash, tree.NewPackageNode(types)),
			tree.NewPackageNode(guava),
		),
	)
}

func TestReleaseNaming(t *testing.T) {
	id := tree.Identifier{Type: "Maven", Namespace: "org.apache", Name: "commons", Version: "2"}
	assert.Equal(t, "org.apache/commons", reconcile.ReleaseName(id))
	assert.Equal(t, "ort-project/Maven/org.apache/commons", reconcile.ProjectReleaseName(id))

	id.Namespace = ""
	assert.Equal(t, "commons", reconcile.ReleaseName(id))
	assert.Equal(t, "unknown", reconcile.VersionOrDefault(""))
	assert.Equal(t, "2", reconcile.VersionOrDefault("2"))
}

func TestRunCreatesCatalogState(t *testing.T) {
	f := newFixture(t)
	guavaComponent := f.srv.AddComponent("com.google.guava/guava")
	guavaRelease := f.srv.AddRelease("com.google.guava/guava", "33.0", guavaComponent)

	r := f.reconciler(t, reconcile.Options{
		ProjectName:       "ORT_LICENSE_REPORT",
		DependencyNetwork: true,
		CreatedBy:         "admin@sw360.org",
	})
	result, err := r.Run(f.ctx, []*tree.Node{sampleTree()})
	require.NoError(t, err)

	project := f.srv.Projects()[result.ProjectID]
	require.NotNil(t, project)
	assert.Equal(t, "ORT_LICENSE_REPORT", project["name"])
	assert.Equal(t, sw360.VisibilityEveryone, project["visibility"])
	_, hasVersion := project["version"]
	assert.False(t, hasVersion)

	appID, _ := f.releaseByName(t, "ort-project/Maven/com.example/app", "1.0")
	lodashID, lodash := f.releaseByName(t, "lodash", "4.17.21")
	typesID, types := f.releaseByName(t, "@types/node", "unknown")

	assert.Equal(t, []interface{}{"MIT"}, lodash["mainLicenseIds"])
	_, hasLicenses := types["mainLicenseIds"]
	assert.False(t, hasLicenses)

	assert.Equal(t, []string{appID}, f.srv.LinkedReleases(result.ProjectID))
	assert.Equal(t, []string{appID}, result.TopLevelReleaseIDs)
	assert.Equal(t, map[string]string{
		"Maven:com.example:app:1.0":         appID,
		"NPM::lodash:4.17.21":               lodashID,
		"NPM:@types:node:":                  typesID,
		"Maven:com.google.guava:guava:33.0": guavaRelease,
	}, result.Releases)

	// The seeded release is reused, so only one guava release exists.
	assert.Equal(t, 0, f.srv.CountCalls("GET", "/releases/"+lodashID))
	assert.Equal(t, 1, f.srv.CountCalls("GET", "/releases/"+guavaRelease))
	assert.Equal(t, 4, len(f.srv.Releases()))

	components := f.srv.Components()
	assert.Len(t, components, 4)
	for _, c := range components {
		assert.Equal(t, "OSS", c["componentType"])
	}

	app, err := f.client.Releases.Get(f.ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		lodashID:     sw360.RelationshipContained,
		guavaRelease: sw360.RelationshipContained,
	}, app.Relationships())

	lodashRelease, err := f.client.Releases.Get(f.ctx, lodashID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{typesID: sw360.RelationshipContained}, lodashRelease.Relationships())

	node := func(id string, children ...sw360.DependencyNetworkNode) sw360.DependencyNetworkNode {
		if children == nil {
			children = []sw360.DependencyNetworkNode{}
		}
		return sw360.DependencyNetworkNode{
			ReleaseID:           id,
			ReleaseRelationship: "CONTAINED",
			MainlineState:       "MAINLINE",
			CreateOn:            "2025-03-04",
			CreateBy:            "admin@sw360.org",
			ReleaseLink:         children,
		}
	}
	want := []sw360.DependencyNetworkNode{
		node(appID, node(lodashID, node(typesID)), node(guavaRelease)),
	}
	if diff := cmp.Diff(want, result.Network); diff != "" {
		t.Errorf("network mismatch (-want +got):\n%s", diff)
	}

	var stored []sw360.DependencyNetworkNode
	require.NoError(t, json.Unmarshal(f.srv.Network(result.ProjectID), &stored))
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Errorf("stored network mismatch (-want +got):\n%s", diff)
	}

	warnings := f.logs.FilterLevelExact(zapcore.WarnLevel).FilterField(zap.String("package", "NPM::lodash:4.17.21"))
	assert.Equal(t, 1, warnings.Len())
}

func TestRunReusesRootProject(t *testing.T) {
	f := newFixture(t)
	pid := f.srv.AddProject(map[string]interface{}{"name": "Demo", "version": "2.0"})

	r := f.reconciler(t, reconcile.Options{ProjectName: "demo", ProjectVersion: "2.0"})
	result, err := r.Run(f.ctx, []*tree.Node{sampleTree()})
	require.NoError(t, err)

	assert.Equal(t, pid, result.ProjectID)
	assert.Equal(t, 0, f.srv.CountCalls("POST", "/projects"))
	assert.Equal(t, 0, f.srv.CountMethod("PATCH", "/projects/network"))
	assert.Len(t, f.srv.LinkedReleases(pid), 1)
}

func TestRunNewProjectWithVersion(t *testing.T) {
	f := newFixture(t)
	r := f.reconciler(t, reconcile.Options{ProjectName: "Demo", ProjectVersion: "3.1"})
	result, err := r.Run(f.ctx, nil)
	require.NoError(t, err)

	project := f.srv.Projects()[result.ProjectID]
	assert.Equal(t, "3.1", project["version"])
	assert.Empty(t, result.TopLevelReleaseIDs)
	assert.Equal(t, 0, f.srv.CountMethod("POST", "/projects/"+result.ProjectID+"/releases"))
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	f := newFixture(t)
	opts := reconcile.Options{ProjectName: "ORT_LICENSE_REPORT"}

	_, err := f.reconciler(t, opts).Run(f.ctx, []*tree.Node{sampleTree()})
	require.NoError(t, err)
	releases := len(f.srv.Releases())
	components := len(f.srv.Components())

	_, err = f.reconciler(t, opts).Run(f.ctx, []*tree.Node{sampleTree()})
	require.NoError(t, err)
	assert.Equal(t, releases, len(f.srv.Releases()))
	assert.Equal(t, components, len(f.srv.Components()))
	assert.Len(t, f.srv.Projects(), 1)
}

func TestRunSharedComponent(t *testing.T) {
	f := newFixture(t)
	project := &tree.Package{ID: tree.Identifier{Type: "NPM", Name: "web"}, IsProject: true}
	v1 := &tree.Package{ID: tree.Identifier{Type: "NPM", Name: "lodash", Version: "3.0"}}
	v2 := &tree.Package{ID: tree.Identifier{Type: "NPM", Name: "lodash", Version: "4.0"}}

	r := f.reconciler(t, reconcile.Options{ProjectName: "P"})
	_, err := r.Run(f.ctx, []*tree.Node{
		tree.NewProjectNode(project, tree.NewPackageNode(v1), tree.NewPackageNode(v2)),
	})
	require.NoError(t, err)

	_, first := f.releaseByName(t, "lodash", "3.0")
	_, second := f.releaseByName(t, "lodash", "4.0")
	assert.Equal(t, first["componentId"], second["componentId"])
	_, projectRelease := f.releaseByName(t, "ort-project/NPM/web", "unknown")
	assert.NotEqual(t, first["componentId"], projectRelease["componentId"])
	assert.Equal(t, 2, f.srv.CountCalls("POST", "/components"))
}

func TestRunStructuralErrors(t *testing.T) {
	project := &tree.Package{ID: tree.Identifier{Type: "NPM", Name: "web"}, IsProject: true}
	dep := &tree.Package{ID: tree.Identifier{Type: "NPM", Name: "dep", Version: "1"}}

	tests := map[string]*tree.Node{
		"package at top level": tree.NewPackageNode(dep),
		"unknown child":        tree.NewProjectNode(project, &tree.Node{Kind: tree.NodeUnknown}),
		"scope inside scope":   tree.NewProjectNode(project, tree.NewScopeNode("a", tree.NewScopeNode("b"))),
		"package without data": tree.NewProjectNode(project, &tree.Node{Kind: tree.NodePackage}),
	}
	for name, root := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.reconciler(t, reconcile.Options{ProjectName: "P"}).Run(f.ctx, []*tree.Node{root})
			var structural *reconcile.StructuralInvariantError
			require.True(t, errors.As(err, &structural), "got %v", err)
		})
	}
}

func TestRunRemoteFailure(t *testing.T) {
	f := newFixture(t)
	r := f.reconciler(t, reconcile.Options{ProjectName: "P"})
	f.srv.Fail = func(req *http.Request) int {
		if req.Method == http.MethodPost && req.URL.Path == "/releases" {
			return http.StatusInternalServerError
		}
		return 0
	}

	_, err := r.Run(f.ctx, []*tree.Node{sampleTree()})
	var remote *sw360.RemoteOperationError
	require.True(t, errors.As(err, &remote), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, remote.StatusCode)
}

func TestCreateAndFindPackageRelease(t *testing.T) {
	f := newFixture(t)
	r := f.reconciler(t, reconcile.Options{ProjectName: "P"})
	pkg := &tree.Package{ID: tree.Identifier{Type: "PyPI", Name: "requests", Version: "2.31.0"}, DeclaredLicenses: []string{"Apache-2.0"}}

	_, ok, err := r.FindPackageRelease(f.ctx, pkg)
	require.NoError(t, err)
	assert.False(t, ok)

	created, err := r.CreatePackageRelease(f.ctx, pkg)
	require.NoError(t, err)
	createdID, err := created.ID()
	require.NoError(t, err)

	found, ok, err := r.FindPackageRelease(f.ctx, pkg)
	require.NoError(t, err)
	require.True(t, ok)
	foundID, err := found.ID()
	require.NoError(t, err)
	assert.Equal(t, createdID, foundID)
	assert.Equal(t, []string{"Apache-2.0"}, found.MainLicenseIDs())
}
