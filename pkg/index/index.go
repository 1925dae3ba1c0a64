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

// Package index maps catalog names and versions to entity ids for one run.
package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
)

// Key is a case-insensitive (name, version) pair.
type Key struct {
	Name    string
	Version string
}

// NewKey lower-cases name and version.
func NewKey(name, version string) Key {
	return Key{Name: strings.ToLower(name), Version: strings.ToLower(version)}
}

type ProjectLister interface {
	List(ctx context.Context) ([]*sw360.Project, error)
}

type ComponentLister interface {
	List(ctx context.Context) ([]*sw360.Component, error)
}

type ReleaseLister interface {
	List(ctx context.Context) ([]*sw360.Release, error)
}

// Index holds the id lookups built from the catalog. It is not safe for
// concurrent use.
type Index struct {
	components map[string]string
	projects   map[Key]string
	releases   map[Key]string
}

// New returns an empty index.
func New() *Index {
	return &Index{
		components: map[string]string{},
		projects:   map[Key]string{},
		releases:   map[Key]string{},
	}
}

// Build lists every component, project and release once and indexes them.
func Build(ctx context.Context, projects ProjectLister, components ComponentLister, releases ReleaseLister) (*Index, error) {
	idx := New()

	componentList, err := components.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing components: %w", err)
	}
	for _, c := range componentList {
		name, err := c.Field("name")
		if err != nil {
			return nil, fmt.Errorf("indexing component: %w", err)
		}
		id, err := c.ID()
		if err != nil {
			return nil, fmt.Errorf("indexing component %s: %w", name, err)
		}
		idx.PutComponent(name, id)
	}

	projectList, err := projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for _, p := range projectList {
		name, err := p.Field("name")
		if err != nil {
			return nil, fmt.Errorf("indexing project: %w", err)
		}
		version := ""
		if p.Has("version") {
			if version, err = p.Field("version"); err != nil {
				return nil, err
			}
		}
		id, err := p.ID()
		if err != nil {
			return nil, fmt.Errorf("indexing project %s: %w", name, err)
		}
		idx.PutProject(name, version, id)
	}

	releaseList, err := releases.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}
	for _, r := range releaseList {
		name, err := r.Field("name")
		if err != nil {
			return nil, fmt.Errorf("indexing release: %w", err)
		}
		version, err := r.Field("version")
		if err != nil {
			return nil, fmt.Errorf("indexing release %s: %w", name, err)
		}
		id, err := r.ID()
		if err != nil {
			return nil, fmt.Errorf("indexing release %s: %w", name, err)
		}
		idx.PutRelease(name, version, id)
	}

	logger.LogDebug(ctx, "Built catalog index",
		"components", len(idx.components),
		"projects", len(idx.projects),
		"releases", len(idx.releases))

	return idx, nil
}

func (i *Index) Component(name string) (string, bool) {
	id, ok := i.components[strings.ToLower(name)]
	return id, ok
}

func (i *Index) PutComponent(name, id string) {
	i.components[strings.ToLower(name)] = id
}

func (i *Index) Project(name, version string) (string, bool) {
	id, ok := i.projects[NewKey(name, version)]
	return id, ok
}

func (i *Index) PutProject(name, version, id string) {
	i.projects[NewKey(name, version)] = id
}

func (i *Index) Release(name, version string) (string, bool) {
	id, ok := i.releases[NewKey(name, version)]
	return id, ok
}

func (i *Index) PutRelease(name, version, id string) {
	i.releases[NewKey(name, version)] = id
}

// Len returns the number of indexed components, projects and releases.
func (i *Index) Len() (components, projects, releases int) {
	return len(i.components), len(i.projects), len(i.releases)
}
