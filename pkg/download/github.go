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

package download

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	githublib "github.com/google/go-github/v62/github"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tree"
	"golang.org/x/oauth2"
)

// GitHubDownloader fetches the zipball of a package's VCS revision from
// GitHub.
type GitHubDownloader struct {
	client *githublib.Client
	http   *http.Client
}

// NewGitHubDownloader builds a downloader for the public GitHub API. A
// non-empty token authenticates the requests.
func NewGitHubDownloader(ctx context.Context, token string) *GitHubDownloader {
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		logger.LogDebug(ctx, "Using unauthenticated GitHub client; rate limit is 60 requests/hour")
	}
	return &GitHubDownloader{client: githublib.NewClient(httpClient), http: httpClient}
}

// WithBaseURL points the downloader at another API endpoint.
func (g *GitHubDownloader) WithBaseURL(baseURL string) (*GitHubDownloader, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing GitHub base url: %w", err)
	}
	g.client.BaseURL = u
	return g, nil
}

func (g *GitHubDownloader) Download(ctx context.Context, pkg *tree.Package, dir string) error {
	owner, repo, ok := ParseGitHubURL(pkg.VCS.URL)
	if !ok {
		return ErrNoSource
	}

	opts := &githublib.RepositoryContentGetOptions{Ref: pkg.VCS.Revision}
	link, _, err := g.client.Repositories.GetArchiveLink(ctx, owner, repo, githublib.Zipball, opts, 1)
	if err != nil {
		return fmt.Errorf("resolving zipball of %s/%s: %w", owner, repo, err)
	}
	logger.LogDebug(ctx, "Downloading GitHub zipball", "repo", owner+"/"+repo, "ref", pkg.VCS.Revision)

	data, err := fetch(ctx, g.http, link.String())
	if err != nil {
		return err
	}
	return extractZip(data, dir, true)
}

// ParseGitHubURL extracts owner and repository from a github.com clone or
// browse URL.
func ParseGitHubURL(raw string) (owner, repo string, ok bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")

	var rest string
	switch {
	case strings.HasPrefix(s, "git@github.com:"):
		rest = strings.TrimPrefix(s, "git@github.com:")
	default:
		u, err := url.Parse(s)
		if err != nil || !strings.EqualFold(u.Hostname(), "github.com") {
			return "", "", false
		}
		rest = u.Path
	}

	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}
