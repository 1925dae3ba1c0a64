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

// Package reconcile mirrors dependency trees into catalog projects and
// releases.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/viveksahu26/sw360sync/pkg/index"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
	"github.com/viveksahu26/sw360sync/pkg/tree"
)

const networkDateLayout = "2006-01-02"

type ProjectService interface {
	Create(ctx context.Context, draft *sw360.Project) (*sw360.Project, error)
	LinkReleases(ctx context.Context, id string, releaseIDs []string) (*sw360.Project, error)
	UpdateDependencyNetwork(ctx context.Context, id string, network []sw360.DependencyNetworkNode) (*sw360.Project, error)
}

type ComponentService interface {
	Create(ctx context.Context, draft *sw360.Component) (*sw360.Component, error)
}

type ReleaseService interface {
	Create(ctx context.Context, draft *sw360.Release) (*sw360.Release, error)
	Get(ctx context.Context, id string) (*sw360.Release, error)
	CreateRelationships(ctx context.Context, id string, relationships map[string]string) error
}

// Options are the run options that shape reconciliation.
type Options struct {
	ProjectName       string
	ProjectVersion    string
	DependencyNetwork bool
	// CreatedBy is written to every dependency network node.
	CreatedBy string
}

// StructuralInvariantError reports a tree shape that cannot be mirrored.
type StructuralInvariantError struct {
	Kind   tree.NodeKind
	Parent string
	Reason string
}

func (e *StructuralInvariantError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("invalid dependency tree: %s node %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid dependency tree below %s: %s node %s", e.Parent, e.Kind, e.Reason)
}

// Result describes the catalog state after a run.
type Result struct {
	ProjectID string
	// Releases maps a package identifier to its release id.
	Releases map[string]string
	// TopLevelReleaseIDs are the releases linked to the root project.
	TopLevelReleaseIDs []string
	Network            []sw360.DependencyNetworkNode
}

// Reconciler mirrors trees into the catalog. It is used by one run.
type Reconciler struct {
	projects   ProjectService
	components ComponentService
	releases   ReleaseService
	index      *index.Index
	opts       Options
	now        func() time.Time
}

func New(projects ProjectService, components ComponentService, releases ReleaseService, idx *index.Index, opts Options) *Reconciler {
	return &Reconciler{
		projects:   projects,
		components: components,
		releases:   releases,
		index:      idx,
		opts:       opts,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for network creation dates.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Run finds or creates the root project, resolves every tree and links the
// top level releases to the project.
func (r *Reconciler) Run(ctx context.Context, trees []*tree.Node) (*Result, error) {
	projectID, err := r.rootProject(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ProjectID: projectID,
		Releases:  map[string]string{},
		Network:   []sw360.DependencyNetworkNode{},
	}

	for _, t := range trees {
		if tree.Classify(t) != tree.NodeProject {
			return nil, &StructuralInvariantError{Kind: tree.Classify(t), Reason: "at top level, expected a project"}
		}
		releaseID, node, err := r.resolve(ctx, t, result)
		if err != nil {
			return nil, err
		}
		result.TopLevelReleaseIDs = append(result.TopLevelReleaseIDs, releaseID)
		result.Network = append(result.Network, node)
	}

	if len(result.TopLevelReleaseIDs) > 0 {
		logger.LogDebug(ctx, "Linking releases to project", "project", projectID, "releases", len(result.TopLevelReleaseIDs))
		if _, err := r.projects.LinkReleases(ctx, projectID, result.TopLevelReleaseIDs); err != nil {
			return nil, fmt.Errorf("linking releases to project %s: %w", projectID, err)
		}
	}

	if r.opts.DependencyNetwork {
		logger.LogDebug(ctx, "Updating dependency network", "project", projectID)
		if _, err := r.projects.UpdateDependencyNetwork(ctx, projectID, result.Network); err != nil {
			return nil, fmt.Errorf("updating dependency network of project %s: %w", projectID, err)
		}
	}

	return result, nil
}

func (r *Reconciler) rootProject(ctx context.Context) (string, error) {
	name, version := r.opts.ProjectName, r.opts.ProjectVersion
	if id, ok := r.index.Project(name, version); ok {
		logger.LogDebug(ctx, "Found root project", "name", name, "version", version, "id", id)
		return id, nil
	}

	draft, err := sw360.NewProjectDraft(name, version, sw360.VisibilityEveryone)
	if err != nil {
		return "", err
	}
	project, err := r.projects.Create(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("creating project %s: %w", name, err)
	}
	id, err := project.ID()
	if err != nil {
		return "", fmt.Errorf("creating project %s: %w", name, err)
	}
	r.index.PutProject(name, version, id)

	logger.LogInfo(ctx, "Created root project", "name", name, "version", version, "id", id)
	return id, nil
}

// resolve mirrors one project or package node and its subtree.
func (r *Reconciler) resolve(ctx context.Context, node *tree.Node, result *Result) (string, sw360.DependencyNetworkNode, error) {
	var release *sw360.Release
	var err error

	pkg := node.Package
	switch tree.Classify(node) {
	case tree.NodeProject:
		release, err = r.findOrCreate(ctx, ProjectReleaseName(pkg.ID), VersionOrDefault(pkg.ID.Version), nil)
	case tree.NodePackage:
		if len(pkg.UnmappedLicenses) > 0 {
			logger.LogWarn(ctx, "Package declares licenses that could not be mapped",
				"package", pkg.ID.String(), "licenses", pkg.UnmappedLicenses)
		}
		release, err = r.findOrCreate(ctx, ReleaseName(pkg.ID), VersionOrDefault(pkg.ID.Version), pkg.DeclaredLicenses)
	default:
		return "", sw360.DependencyNetworkNode{}, &StructuralInvariantError{Kind: tree.Classify(node), Reason: "cannot be mirrored"}
	}
	if err != nil {
		return "", sw360.DependencyNetworkNode{}, err
	}

	releaseID, err := release.ID()
	if err != nil {
		return "", sw360.DependencyNetworkNode{}, fmt.Errorf("release of %s: %w", pkg.ID, err)
	}
	result.Releases[pkg.ID.String()] = releaseID

	networkNode := sw360.DependencyNetworkNode{
		ReleaseID:           releaseID,
		ReleaseRelationship: sw360.RelationshipContained,
		MainlineState:       sw360.MainlineStateMainline,
		CreateOn:            r.now().Format(networkDateLayout),
		CreateBy:            r.opts.CreatedBy,
		ReleaseLink:         []sw360.DependencyNetworkNode{},
	}

	children, err := childNodes(node)
	if err != nil {
		return "", sw360.DependencyNetworkNode{}, err
	}

	relationships := map[string]string{}
	for _, child := range children {
		childID, childNetwork, err := r.resolve(ctx, child, result)
		if err != nil {
			return "", sw360.DependencyNetworkNode{}, err
		}
		relationships[childID] = sw360.RelationshipContained
		networkNode.ReleaseLink = append(networkNode.ReleaseLink, childNetwork)
	}

	if len(relationships) > 0 {
		if err := r.releases.CreateRelationships(ctx, releaseID, relationships); err != nil {
			return "", sw360.DependencyNetworkNode{}, fmt.Errorf("linking children of %s: %w", pkg.ID, err)
		}
	}
	return releaseID, networkNode, nil
}

// childNodes returns the project and package children of node, with scope
// children flattened into it.
func childNodes(node *tree.Node) ([]*tree.Node, error) {
	parent := node.Package.ID.String()

	var children []*tree.Node
	for _, child := range node.Children {
		switch tree.Classify(child) {
		case tree.NodeProject, tree.NodePackage:
			children = append(children, child)
		case tree.NodeScope:
			for _, scoped := range child.Children {
				switch tree.Classify(scoped) {
				case tree.NodeProject, tree.NodePackage:
					children = append(children, scoped)
				default:
					return nil, &StructuralInvariantError{
						Kind:   tree.Classify(scoped),
						Parent: parent + " scope " + child.Scope,
						Reason: "inside a scope, expected a project or package",
					}
				}
			}
		default:
			return nil, &StructuralInvariantError{Kind: tree.Classify(child), Parent: parent, Reason: "cannot be mirrored"}
		}
	}
	return children, nil
}

func (r *Reconciler) findOrCreate(ctx context.Context, name, version string, licenses []string) (*sw360.Release, error) {
	release, ok, err := r.FindRelease(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if ok {
		return release, nil
	}
	return r.createRelease(ctx, name, version, licenses)
}

// FindRelease looks the release up in the index and reads it from the
// catalog. ok is false when the index has no such release.
func (r *Reconciler) FindRelease(ctx context.Context, name, version string) (*sw360.Release, bool, error) {
	id, ok := r.index.Release(name, version)
	if !ok {
		return nil, false, nil
	}
	release, err := r.releases.Get(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("reading release %s %s: %w", name, version, err)
	}
	return release, true, nil
}

// FindPackageRelease finds the release of a package by its derived name.
func (r *Reconciler) FindPackageRelease(ctx context.Context, pkg *tree.Package) (*sw360.Release, bool, error) {
	return r.FindRelease(ctx, ReleaseName(pkg.ID), VersionOrDefault(pkg.ID.Version))
}

// CreatePackageRelease creates the release of a package with its declared
// licenses.
func (r *Reconciler) CreatePackageRelease(ctx context.Context, pkg *tree.Package) (*sw360.Release, error) {
	return r.createRelease(ctx, ReleaseName(pkg.ID), VersionOrDefault(pkg.ID.Version), pkg.DeclaredLicenses)
}

func (r *Reconciler) createRelease(ctx context.Context, name, version string, licenses []string) (*sw360.Release, error) {
	componentID, err := r.component(ctx, name)
	if err != nil {
		return nil, err
	}

	draft, err := sw360.NewReleaseDraft(name, version, componentID, licenses)
	if err != nil {
		return nil, err
	}
	release, err := r.releases.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("creating release %s %s: %w", name, version, err)
	}
	id, err := release.ID()
	if err != nil {
		return nil, fmt.Errorf("creating release %s %s: %w", name, version, err)
	}
	r.index.PutRelease(name, version, id)

	logger.LogDebug(ctx, "Created release", "name", name, "version", version, "id", id)
	return release, nil
}

func (r *Reconciler) component(ctx context.Context, name string) (string, error) {
	if id, ok := r.index.Component(name); ok {
		return id, nil
	}

	draft, err := sw360.NewComponentDraft(name, sw360.ComponentTypeOSS)
	if err != nil {
		return "", err
	}
	component, err := r.components.Create(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("creating component %s: %w", name, err)
	}
	id, err := component.ID()
	if err != nil {
		return "", fmt.Errorf("creating component %s: %w", name, err)
	}
	r.index.PutComponent(name, id)

	logger.LogDebug(ctx, "Created component", "name", name, "id", id)
	return id, nil
}
