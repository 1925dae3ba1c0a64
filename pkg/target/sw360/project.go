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

package sw360

import (
	"context"
	"fmt"

	"github.com/viveksahu26/sw360sync/pkg/logger"
)

// DependencyNetworkNode is one entry of a project's dependency network.
type DependencyNetworkNode struct {
	ReleaseID           string                  `json:"releaseId"`
	ReleaseRelationship string                  `json:"releaseRelationship"`
	MainlineState       string                  `json:"mainlineState"`
	CreateOn            string                  `json:"createOn"`
	CreateBy            string                  `json:"createBy"`
	ReleaseLink         []DependencyNetworkNode `json:"releaseLink"`
}

// ProjectClient accesses /projects.
type ProjectClient struct {
	c *Client
}

func (p *ProjectClient) Create(ctx context.Context, draft *Project) (*Project, error) {
	body, err := p.c.postJSON(ctx, "create project", p.c.url(pathProjects), draft)
	if err != nil {
		return nil, err
	}
	return &Project{Document: newDocumentBytes(body)}, nil
}

func (p *ProjectClient) Get(ctx context.Context, id string) (*Project, error) {
	body, err := p.c.get(ctx, "get project", p.c.url(pathProjects, id))
	if err != nil {
		return nil, err
	}
	return &Project{Document: newDocumentBytes(body)}, nil
}

func (p *ProjectClient) Update(ctx context.Context, id string, patch *Project) (*Project, error) {
	body, err := p.c.patchJSON(ctx, "update project", p.c.url(pathProjects, id), patch)
	if err != nil {
		return nil, err
	}
	return &Project{Document: newDocumentBytes(body)}, nil
}

func (p *ProjectClient) Delete(ctx context.Context, id string) error {
	_, err := p.c.delete(ctx, "delete project", p.c.url(pathProjects, id))
	return err
}

// LinkReleases links the given releases to the project.
func (p *ProjectClient) LinkReleases(ctx context.Context, id string, releaseIDs []string) (*Project, error) {
	if releaseIDs == nil {
		releaseIDs = []string{}
	}
	body, err := p.c.postJSON(ctx, "link releases", p.c.url(pathProjects, id, pathReleases), releaseIDs)
	if err != nil {
		return nil, err
	}
	return &Project{Document: newDocumentBytes(body)}, nil
}

// UpdateDependencyNetwork replaces the project's dependency network.
func (p *ProjectClient) UpdateDependencyNetwork(ctx context.Context, id string, network []DependencyNetworkNode) (*Project, error) {
	if network == nil {
		network = []DependencyNetworkNode{}
	}
	payload := map[string][]DependencyNetworkNode{"dependencyNetwork": network}

	body, err := p.c.patchJSON(ctx, "update dependency network", p.c.url(pathProjects, "network", id), payload)
	if err != nil {
		return nil, err
	}
	return &Project{Document: newDocumentBytes(body)}, nil
}

// List returns every project. The first request is unpaged; when the
// response carries page information the remaining pages are fetched one
// by one and the total is checked against totalElements.
func (p *ProjectClient) List(ctx context.Context) ([]*Project, error) {
	first, err := p.page(ctx, p.c.url(pathProjects))
	if err != nil {
		return nil, err
	}

	info, ok, err := first.PageInfo()
	if err != nil {
		return nil, err
	}
	projects := first.Projects()
	if !ok {
		return projects, nil
	}

	logger.LogDebug(ctx, "Listing paged projects", "total_pages", info.TotalPages, "total_elements", info.TotalElements)

	for number := 1; number <= info.TotalPages; number++ {
		page, err := p.page(ctx, fmt.Sprintf("%s?page=%d", p.c.url(pathProjects), number))
		if err != nil {
			return nil, err
		}

		pageInfo, ok, err := page.PageInfo()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &PaginationConsistencyError{Field: "page", Expected: number}
		}
		if pageInfo.Number != number {
			return nil, &PaginationConsistencyError{Field: "number", Expected: number, Actual: pageInfo.Number}
		}
		projects = append(projects, page.Projects()...)
	}

	if len(projects) != info.TotalElements {
		return nil, &PaginationConsistencyError{Field: "totalElements", Expected: info.TotalElements, Actual: len(projects)}
	}
	return projects, nil
}

func (p *ProjectClient) page(ctx context.Context, url string) (*ProjectPage, error) {
	body, err := p.c.get(ctx, "list projects", url)
	if err != nil {
		return nil, err
	}
	return &ProjectPage{Document: newDocumentBytes(body)}, nil
}
