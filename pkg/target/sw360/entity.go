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
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	linkSelf      = "self"
	linkComponent = "sw360:component"

	embeddedProjects    = "sw360:projects"
	embeddedComponents  = "sw360:components"
	embeddedReleases    = "sw360:releases"
	embeddedAttachments = "sw360:attachments"
)

// Document is a catalog entity as returned by the HAL+JSON API. It keeps the
// raw bytes and reads or writes fields by path.
type Document struct {
	raw []byte
}

// NewDocument wraps raw JSON text. Blank text yields an empty object.
func NewDocument(text string) *Document {
	return newDocumentBytes([]byte(text))
}

func newDocumentBytes(raw []byte) *Document {
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = []byte("{}")
	}
	return &Document{raw: raw}
}

// Bytes returns the JSON encoding of the document.
func (d *Document) Bytes() []byte {
	return d.raw
}

func (d *Document) String() string {
	return string(d.raw)
}

// Has reports whether the root key is present.
func (d *Document) Has(key string) bool {
	return gjson.GetBytes(d.raw, escapeKey(key)).Exists()
}

// Field returns the root value of key as a string.
func (d *Document) Field(key string) (string, error) {
	value := gjson.GetBytes(d.raw, escapeKey(key))
	if !value.Exists() {
		return "", &MissingFieldError{Field: key}
	}
	return value.String(), nil
}

// Int returns the root value of key as an integer.
func (d *Document) Int(key string) (int, error) {
	value := gjson.GetBytes(d.raw, escapeKey(key))
	if !value.Exists() {
		return 0, &MissingFieldError{Field: key}
	}
	return int(value.Int()), nil
}

func (d *Document) set(key string, value interface{}) error {
	raw, err := sjson.SetBytes(d.raw, escapeKey(key), value)
	if err != nil {
		return fmt.Errorf("setting field %q: %w", key, err)
	}
	d.raw = raw
	return nil
}

func (d *Document) link(name string) (string, error) {
	href := gjson.GetBytes(d.raw, "_links."+escapeKey(name)+".href").String()
	if href == "" {
		return "", &MissingLinkError{Link: name}
	}
	return href, nil
}

// SelfURL returns the entity's self link.
func (d *Document) SelfURL() (string, error) {
	return d.link(linkSelf)
}

// ID returns the last path segment of the self link. Entities that were
// never persisted have no self link and fail here.
func (d *Document) ID() (string, error) {
	href, err := d.SelfURL()
	if err != nil {
		return "", err
	}
	return idFromURL(linkSelf, href)
}

// Attachments returns the embedded attachment entries. A document without
// embedded attachments yields an empty list.
func (d *Document) Attachments() []*Attachment {
	docs := d.embedded(embeddedAttachments)
	attachments := make([]*Attachment, 0, len(docs))
	for _, doc := range docs {
		attachments = append(attachments, &Attachment{Document: doc})
	}
	return attachments
}

func (d *Document) embedded(collection string) []*Document {
	result := gjson.GetBytes(d.raw, "_embedded."+escapeKey(collection))
	if !result.IsArray() {
		return nil
	}

	var docs []*Document
	result.ForEach(func(_, value gjson.Result) bool {
		docs = append(docs, newDocumentBytes([]byte(value.Raw)))
		return true
	})
	return docs
}

// IDFromURL extracts the trailing id segment of a resource URL.
func IDFromURL(url string) (string, error) {
	return idFromURL("", url)
}

func idFromURL(link, url string) (string, error) {
	idx := strings.LastIndex(url, "/")
	id := url[idx+1:]
	if id == "" {
		return "", &MissingLinkError{Link: link, URL: url}
	}
	return id, nil
}

// escapeKey makes a single root key safe to use as a gjson/sjson path.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Project is the catalog Project entity.
type Project struct {
	*Document
}

// NewProject parses a Project response body.
func NewProject(text string) *Project {
	return &Project{Document: NewDocument(text)}
}

// NewProjectDraft builds the body of a new Project. The version field is
// only written when it is not empty.
func NewProjectDraft(name, version, visibility string) (*Project, error) {
	p := &Project{Document: NewDocument("")}
	if err := p.set("name", name); err != nil {
		return nil, err
	}
	if version != "" {
		if err := p.set("version", version); err != nil {
			return nil, err
		}
	}
	if err := p.set("visibility", visibility); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) SetDescription(description string) error {
	return p.set("description", description)
}

// LinkedReleaseIDs returns the ids of the releases linked to the project.
func (p *Project) LinkedReleaseIDs() ([]string, error) {
	linked := gjson.GetBytes(p.raw, "linkedReleases")
	if !linked.IsArray() {
		return []string{}, nil
	}

	ids := []string{}
	var err error
	linked.ForEach(func(_, entry gjson.Result) bool {
		release := entry.Get("release")
		if !release.Exists() {
			err = &MissingFieldError{Field: "release"}
			return false
		}
		var id string
		id, err = IDFromURL(release.String())
		if err != nil {
			return false
		}
		ids = append(ids, id)
		return true
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Component is the catalog Component entity.
type Component struct {
	*Document
}

// NewComponent parses a Component response body.
func NewComponent(text string) *Component {
	return &Component{Document: NewDocument(text)}
}

// NewComponentDraft builds the body of a new Component.
func NewComponentDraft(name, componentType string) (*Component, error) {
	c := &Component{Document: NewDocument("")}
	if err := c.set("name", name); err != nil {
		return nil, err
	}
	if err := c.set("componentType", componentType); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Component) SetHomepage(homepage string) error {
	return c.set("homepage", homepage)
}

func (c *Component) SetDescription(description string) error {
	return c.set("description", description)
}

// Release is the catalog Release entity.
type Release struct {
	*Document
}

// NewRelease parses a Release response body.
func NewRelease(text string) *Release {
	return &Release{Document: NewDocument(text)}
}

// NewReleaseDraft builds the body of a new Release. mainLicenseIds is only
// written when licenses are given.
func NewReleaseDraft(name, version, componentID string, mainLicenseIDs []string) (*Release, error) {
	r := &Release{Document: NewDocument("")}
	if err := r.set("name", name); err != nil {
		return nil, err
	}
	if err := r.set("version", version); err != nil {
		return nil, err
	}
	if err := r.set("componentId", componentID); err != nil {
		return nil, err
	}
	if len(mainLicenseIDs) > 0 {
		if err := r.SetMainLicenseIDs(mainLicenseIDs); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Release) SetMainLicenseIDs(ids []string) error {
	return r.set("mainLicenseIds", ids)
}

// ComponentID returns the id of the owning component, taken from the
// sw360:component link.
func (r *Release) ComponentID() (string, error) {
	href, err := r.link(linkComponent)
	if err != nil {
		return "", err
	}
	return idFromURL(linkComponent, href)
}

// Relationships returns the releaseIdToRelationship map, empty when absent.
func (r *Release) Relationships() map[string]string {
	relationships := map[string]string{}
	gjson.GetBytes(r.raw, "releaseIdToRelationship").ForEach(func(key, value gjson.Result) bool {
		relationships[key.String()] = value.String()
		return true
	})
	return relationships
}

// MainLicenseIDs returns the license short names of the release.
func (r *Release) MainLicenseIDs() []string {
	var ids []string
	gjson.GetBytes(r.raw, "mainLicenseIds").ForEach(func(_, value gjson.Result) bool {
		ids = append(ids, value.String())
		return true
	})
	return ids
}

// Attachment is an entry of a release's embedded attachment list.
type Attachment struct {
	*Document
}

func (a *Attachment) Filename() (string, error) {
	return a.Field("filename")
}

func (a *Attachment) SHA1() (string, error) {
	return a.Field("sha1")
}

func (a *Attachment) AttachmentType() (string, error) {
	return a.Field("attachmentType")
}

// PageInfo is the page block of a paged listing.
type PageInfo struct {
	Size          int
	TotalElements int
	TotalPages    int
	Number        int
}

// ProjectPage is one page of the project listing.
type ProjectPage struct {
	*Document
}

func (p *ProjectPage) Projects() []*Project {
	var projects []*Project
	for _, doc := range p.embedded(embeddedProjects) {
		projects = append(projects, &Project{Document: doc})
	}
	return projects
}

// PageInfo returns the page block. ok is false when the listing is not paged.
func (p *ProjectPage) PageInfo() (info PageInfo, ok bool, err error) {
	page := gjson.GetBytes(p.raw, "page")
	if !page.IsObject() {
		return PageInfo{}, false, nil
	}

	pageDoc := newDocumentBytes([]byte(page.Raw))
	if info.Size, err = pageDoc.Int("size"); err != nil {
		return PageInfo{}, false, err
	}
	if info.TotalElements, err = pageDoc.Int("totalElements"); err != nil {
		return PageInfo{}, false, err
	}
	if info.TotalPages, err = pageDoc.Int("totalPages"); err != nil {
		return PageInfo{}, false, err
	}
	if info.Number, err = pageDoc.Int("number"); err != nil {
		return PageInfo{}, false, err
	}
	return info, true, nil
}

func componentsOf(d *Document) []*Component {
	var components []*Component
	for _, doc := range d.embedded(embeddedComponents) {
		components = append(components, &Component{Document: doc})
	}
	return components
}

func releasesOf(d *Document) []*Release {
	var releases []*Release
	for _, doc := range d.embedded(embeddedReleases) {
		releases = append(releases, &Release{Document: doc})
	}
	return releases
}
