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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		id      string
		wantErr bool
	}{
		{"self link", `{"_links":{"self":{"href":"https://sw360.example/resource/api/releases/abc123"}}}`, "abc123", false},
		{"no links", `{"name":"foo"}`, "", true},
		{"empty href", `{"_links":{"self":{"href":""}}}`, "", true},
		{"trailing slash", `{"_links":{"self":{"href":"https://sw360.example/releases/"}}}`, "", true},
		{"empty text", ``, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := NewDocument(tc.body).ID()
			if tc.wantErr {
				var linkErr *MissingLinkError
				assert.True(t, errors.As(err, &linkErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, id)
		})
	}
}

func TestDocumentField(t *testing.T) {
	doc := NewDocument(`{"name":"lodash","version":"4.17.21","a.b":"dotted"}`)

	name, err := doc.Field("name")
	require.NoError(t, err)
	assert.Equal(t, "lodash", name)

	dotted, err := doc.Field("a.b")
	require.NoError(t, err)
	assert.Equal(t, "dotted", dotted)

	_, err = doc.Field("homepage")
	var fieldErr *MissingFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "homepage", fieldErr.Field)

	assert.True(t, doc.Has("version"))
	assert.False(t, doc.Has("homepage"))
	assert.Equal(t, "{}", NewDocument("   ").String())
}

func TestNewProjectDraft(t *testing.T) {
	p, err := NewProjectDraft("ORT_LICENSE_REPORT", "", VisibilityEveryone)
	require.NoError(t, err)
	assert.False(t, p.Has("version"))
	assert.JSONEq(t, `{"name":"ORT_LICENSE_REPORT","visibility":"EVERYONE"}`, p.String())

	p, err = NewProjectDraft("demo", "1.0", VisibilityPrivate)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"demo","version":"1.0","visibility":"PRIVATE"}`, p.String())

	_, err = p.ID()
	assert.Error(t, err, "a draft has no id until it is persisted")
}

func TestNewReleaseDraft(t *testing.T) {
	r, err := NewReleaseDraft("org.example/lib", "2.0", "c1", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"org.example/lib","version":"2.0","componentId":"c1"}`, r.String())

	r, err = NewReleaseDraft("lib", "unknown", "c2", []string{"MIT", "Apache-2.0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MIT", "Apache-2.0"}, r.MainLicenseIDs())
}

func TestNewComponentDraft(t *testing.T) {
	c, err := NewComponentDraft("lib", ComponentTypeOSS)
	require.NoError(t, err)
	require.NoError(t, c.SetHomepage("https://example.org"))
	assert.JSONEq(t, `{"name":"lib","componentType":"OSS","homepage":"https://example.org"}`, c.String())
}

func TestProjectLinkedReleaseIDs(t *testing.T) {
	p := NewProject(`{"linkedReleases":[{"release":"https://h/api/releases/r1"},{"release":"https://h/api/releases/r2"}]}`)
	ids, err := p.LinkedReleaseIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, ids)

	ids, err = NewProject(`{}`).LinkedReleaseIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = NewProject(`{"linkedReleases":[{"mainlineState":"OPEN"}]}`).LinkedReleaseIDs()
	assert.Error(t, err)
}

func TestReleaseViews(t *testing.T) {
	r := NewRelease(`{
		"name": "lib",
		"releaseIdToRelationship": {"r2": "CONTAINED", "r3": "CONTAINED"},
		"_links": {
			"self": {"href": "https://h/api/releases/r1"},
			"sw360:component": {"href": "https://h/api/components/c9"}
		},
		"_embedded": {
			"sw360:attachments": [
				{"filename": "a.zip", "sha1": "da39", "attachmentType": "SOURCE", "_links": {"self": {"href": "https://h/api/attachments/a1"}}}
			]
		}
	}`)

	cid, err := r.ComponentID()
	require.NoError(t, err)
	assert.Equal(t, "c9", cid)
	assert.Equal(t, map[string]string{"r2": "CONTAINED", "r3": "CONTAINED"}, r.Relationships())

	attachments := r.Attachments()
	require.Len(t, attachments, 1)
	id, err := attachments[0].ID()
	require.NoError(t, err)
	assert.Equal(t, "a1", id)
	name, err := attachments[0].Filename()
	require.NoError(t, err)
	assert.Equal(t, "a.zip", name)
	kind, err := attachments[0].AttachmentType()
	require.NoError(t, err)
	assert.Equal(t, AttachmentSource, kind)

	empty := NewRelease(`{"name":"x"}`)
	assert.Empty(t, empty.Relationships())
	assert.Empty(t, empty.Attachments())
	_, err = empty.ComponentID()
	assert.Error(t, err)
}

func TestProjectPageInfo(t *testing.T) {
	page := &ProjectPage{Document: NewDocument(`{"_embedded":{"sw360:projects":[{"name":"a"}]}}`)}
	_, ok, err := page.PageInfo()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, page.Projects(), 1)

	page = &ProjectPage{Document: NewDocument(`{"page":{"size":20,"totalElements":41,"totalPages":3,"number":0}}`)}
	info, ok, err := page.PageInfo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, PageInfo{Size: 20, TotalElements: 41, TotalPages: 3, Number: 0}, info)
	assert.Empty(t, page.Projects())
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(&PaginationConsistencyError{Field: "number", Expected: 1, Actual: 2})
	assert.True(t, ok)
	assert.Equal(t, CodePaginationMismatch, code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}
