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

package sw360_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360/fakesw360"
)

const testToken = "secret-token"

func newTestClient(t *testing.T) (*sw360.Client, *fakesw360.Server) {
	t.Helper()
	srv := fakesw360.New(t)
	srv.Token = testToken
	client, err := sw360.NewClient(sw360.Config{RestURL: srv.URL + "/", Token: testToken})
	require.NoError(t, err)
	return client, srv
}

func TestNewClientConfiguration(t *testing.T) {
	cases := []struct {
		name string
		cfg  sw360.Config
	}{
		{"missing url", sw360.Config{Token: "t"}},
		{"blank url", sw360.Config{RestURL: "  ", Token: "t"}},
		{"missing token", sw360.Config{RestURL: "https://sw360.example/api"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sw360.NewClient(tc.cfg)
			var cfgErr *sw360.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			code, ok := sw360.CodeOf(err)
			assert.True(t, ok)
			assert.Equal(t, sw360.CodeConfiguration, code)
		})
	}

	client, err := sw360.NewClient(sw360.Config{RestURL: "https://sw360.example/api/", Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, "https://sw360.example/api", client.RestURL())
}

func TestRequestHeaders(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)

	draft, err := sw360.NewProjectDraft("demo", "1.0", sw360.VisibilityEveryone)
	require.NoError(t, err)
	created, err := client.Projects.Create(ctx, draft)
	require.NoError(t, err)
	id, err := created.ID()
	require.NoError(t, err)

	_, err = client.Projects.Get(ctx, id)
	require.NoError(t, err)

	calls := srv.Calls()
	require.Len(t, calls, 2)

	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/projects", calls[0].Path)
	assert.Equal(t, "Bearer "+testToken, calls[0].Header.Get("Authorization"))
	assert.Equal(t, "COOKIE_SUPPORT=true; GUEST_LANGUAGE_ID=en_US", calls[0].Header.Get("Cookie"))
	assert.Equal(t, "application/json", calls[0].Header.Get("Content-Type"))

	assert.Equal(t, http.MethodGet, calls[1].Method)
	assert.Equal(t, "/projects/"+id, calls[1].Path)
	assert.Empty(t, calls[1].Header.Get("Cookie"))
}

func TestRemoteOperationError(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	_, err := client.Releases.Get(ctx, "missing")
	var remoteErr *sw360.RemoteOperationError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusNotFound, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Body, "not found")
	assert.Equal(t, "get release", remoteErr.Operation)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := sw360.NewClient(sw360.Config{RestURL: url, Token: "t"})
	require.NoError(t, err)

	_, err = client.Components.List(context.Background())
	var remoteErr *sw360.RemoteOperationError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 0, remoteErr.StatusCode)
	assert.Error(t, remoteErr.Err)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)
	require.NoError(t, client.Validate(ctx))

	bad, err := sw360.NewClient(sw360.Config{RestURL: srv.URL, Token: "wrong"})
	require.NoError(t, err)
	err = bad.Validate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sw360 token")
}

func TestProjectsListUnpaged(t *testing.T) {
	client, srv := newTestClient(t)
	srv.AddProject(map[string]interface{}{"name": "a", "version": "1"})
	srv.AddProject(map[string]interface{}{"name": "b"})

	projects, err := client.Projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, 1, srv.CountCalls(http.MethodGet, "/projects"))
}

func TestProjectsListEmpty(t *testing.T) {
	client, _ := newTestClient(t)
	projects, err := client.Projects.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectsListPaged(t *testing.T) {
	client, srv := newTestClient(t)
	srv.PageSize = 2
	for i := 0; i < 5; i++ {
		srv.AddProject(map[string]interface{}{"name": fmt.Sprintf("p-%d", i)})
	}

	projects, err := client.Projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 5)

	var names []string
	for _, p := range projects {
		name, err := p.Field("name")
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.Equal(t, []string{"p-0", "p-1", "p-2", "p-3", "p-4"}, names)

	var queries []string
	for _, call := range srv.Calls() {
		queries = append(queries, call.Query)
	}
	assert.Equal(t, []string{"", "page=1", "page=2", "page=3"}, queries)
}

func TestProjectsListPageNumberMismatch(t *testing.T) {
	client, srv := newTestClient(t)
	srv.PageSize = 1
	srv.AddProject(map[string]interface{}{"name": "a"})
	srv.AddProject(map[string]interface{}{"name": "b"})
	srv.PageNumber = func(requested int) int {
		if requested == 1 {
			return 7
		}
		return requested
	}

	_, err := client.Projects.List(context.Background())
	var pageErr *sw360.PaginationConsistencyError
	require.True(t, errors.As(err, &pageErr))
	assert.Equal(t, "number", pageErr.Field)
	assert.Equal(t, 1, pageErr.Expected)
	assert.Equal(t, 7, pageErr.Actual)
}

func TestProjectsListTotalMismatch(t *testing.T) {
	client, srv := newTestClient(t)
	srv.PageSize = 2
	srv.AddProject(map[string]interface{}{"name": "a"})
	srv.AddProject(map[string]interface{}{"name": "b"})
	srv.AddProject(map[string]interface{}{"name": "c"})
	srv.TotalElements = func(actual int) int { return actual + 1 }

	_, err := client.Projects.List(context.Background())
	var pageErr *sw360.PaginationConsistencyError
	require.True(t, errors.As(err, &pageErr))
	assert.Equal(t, "totalElements", pageErr.Field)
	assert.Equal(t, 4, pageErr.Expected)
	assert.Equal(t, 3, pageErr.Actual)
}

func TestProjectsListPageFailure(t *testing.T) {
	client, srv := newTestClient(t)
	srv.PageSize = 1
	srv.AddProject(map[string]interface{}{"name": "a"})
	srv.AddProject(map[string]interface{}{"name": "b"})
	srv.Fail = func(r *http.Request) int {
		if r.URL.Query().Get("page") == "2" {
			return http.StatusBadGateway
		}
		return 0
	}

	_, err := client.Projects.List(context.Background())
	var remoteErr *sw360.RemoteOperationError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusBadGateway, remoteErr.StatusCode)
}

func TestLinkReleasesAndNetwork(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)
	pid := srv.AddProject(map[string]interface{}{"name": "root"})
	cid := srv.AddComponent("lib")
	r1 := srv.AddRelease("lib", "1.0", cid)
	r2 := srv.AddRelease("lib", "2.0", cid)

	project, err := client.Projects.LinkReleases(ctx, pid, []string{r1, r2})
	require.NoError(t, err)
	linked, err := project.LinkedReleaseIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{r1, r2}, linked)

	network := []sw360.DependencyNetworkNode{{
		ReleaseID:           r1,
		ReleaseRelationship: sw360.RelationshipContained,
		MainlineState:       sw360.MainlineStateMainline,
		CreateOn:            "2024-01-02",
		CreateBy:            "admin",
		ReleaseLink:         []sw360.DependencyNetworkNode{},
	}}
	_, err = client.Projects.UpdateDependencyNetwork(ctx, pid, network)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.CountCalls(http.MethodPatch, "/projects/network/"+pid))
	assert.JSONEq(t, fmt.Sprintf(`[{"releaseId":%q,"releaseRelationship":"CONTAINED","mainlineState":"MAINLINE","createOn":"2024-01-02","createBy":"admin","releaseLink":[]}]`, r1), string(srv.Network(pid)))
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)
	cid := srv.AddComponent("lib")

	patch := sw360.NewComponent("")
	require.NoError(t, patch.SetDescription("a library"))
	updated, err := client.Components.Update(ctx, cid, patch)
	require.NoError(t, err)
	description, err := updated.Field("description")
	require.NoError(t, err)
	assert.Equal(t, "a library", description)

	require.NoError(t, client.Components.Delete(ctx, cid))
	_, err = client.Components.Get(ctx, cid)
	assert.Error(t, err)
}

func TestCreateRelationships(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)
	cid := srv.AddComponent("lib")
	parent := srv.AddRelease("app", "1.0", cid)
	child := srv.AddRelease("lib", "1.0", cid)

	err := client.Releases.CreateRelationships(ctx, parent, map[string]string{child: sw360.RelationshipContained})
	require.NoError(t, err)

	release, err := client.Releases.Get(ctx, parent)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{child: "CONTAINED"}, release.Relationships())
	componentID, err := release.ComponentID()
	require.NoError(t, err)
	assert.Equal(t, cid, componentID)
}

func TestAttachAndDeleteAttachment(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)
	cid := srv.AddComponent("lib")
	rid := srv.AddRelease("lib", "1.0", cid)

	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "ort-cli_lib@1.0.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte("<ComponentLicenseInformation/>"), 0o600))
	txtPath := filepath.Join(dir, "ort-license-text_lib@1.0.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("MIT License"), 0o600))

	_, err := client.Releases.AttachComponentLicenseInfo(ctx, rid, xmlPath)
	require.NoError(t, err)
	release, err := client.Releases.AttachLicenseText(ctx, rid, txtPath)
	require.NoError(t, err)

	stored := srv.Attachments(rid)
	require.Len(t, stored, 2)
	assert.Equal(t, "ort-cli_lib@1.0.xml", stored[0].Filename)
	assert.Equal(t, sw360.AttachmentComponentLicenseInfoXML, stored[0].AttachmentType)
	assert.Equal(t, "application/xml", stored[0].ContentType)
	assert.Equal(t, "<ComponentLicenseInformation/>", string(stored[0].Content))
	assert.Equal(t, sw360.AttachmentDocument, stored[1].AttachmentType)
	assert.Equal(t, "text/plain", stored[1].ContentType)

	attachments := release.Attachments()
	require.Len(t, attachments, 2)
	aid, err := attachments[0].ID()
	require.NoError(t, err)

	release, err = client.Releases.DeleteAttachment(ctx, rid, aid)
	require.NoError(t, err)
	require.Len(t, release.Attachments(), 1)
	name, err := release.Attachments()[0].Filename()
	require.NoError(t, err)
	assert.Equal(t, "ort-license-text_lib@1.0.txt", name)
}

func TestAttachMissingFile(t *testing.T) {
	client, srv := newTestClient(t)
	rid := srv.AddRelease("lib", "1.0", srv.AddComponent("lib"))

	_, err := client.Releases.AttachSource(context.Background(), rid, filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)
	assert.Equal(t, 0, srv.CountMethod(http.MethodPost, "/releases"))
}

func TestResolveToken(t *testing.T) {
	ctx := context.Background()

	token, err := sw360.ResolveToken(ctx, sw360.Config{Token: "given"})
	require.NoError(t, err)
	assert.Equal(t, "given", token)

	_, err = sw360.ResolveToken(ctx, sw360.Config{AuthURL: "https://auth.example/token"})
	var cfgErr *sw360.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("grant_type") != "password" || r.Form.Get("username") != "admin" || r.Form.Get("password") != "pw" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"granted","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenServer.Close)

	token, err = sw360.ResolveToken(ctx, sw360.Config{
		AuthURL:      tokenServer.URL,
		Username:     "admin",
		Password:     "pw",
		ClientID:     "trusted-sw360-client",
		ClientSecret: "sw360-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "granted", token)
}
