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

// Package fakesw360 provides an in-memory catalog server for tests.
package fakesw360

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Call is one request received by the server.
type Call struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Attachment is an uploaded file.
type Attachment struct {
	ID             string
	Filename       string
	AttachmentType string
	ContentType    string
	Content        []byte
}

type entity struct {
	id     string
	fields map[string]interface{}
}

// Server is a catalog fake speaking HAL+JSON.
type Server struct {
	*httptest.Server

	// Token, when set, is the only bearer token accepted.
	Token string
	// PageSize enables paged project listings.
	PageSize int
	// PageNumber rewrites the page number reported for a requested page.
	PageNumber func(requested int) int
	// TotalElements rewrites the reported totalElements.
	TotalElements func(actual int) int
	// Fail returns a non-zero status to fail the request with.
	Fail func(r *http.Request) int

	mu          sync.Mutex
	seq         int
	projects    []*entity
	components  []*entity
	releases    []*entity
	links       map[string][]string
	networks    map[string]json.RawMessage
	attachments map[string][]*Attachment
	calls       []Call
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		links:       map[string][]string{},
		networks:    map[string]json.RawMessage{},
		attachments: map[string][]*Attachment{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("POST /projects", s.handleCreate(&s.projects, "p"))
	mux.HandleFunc("GET /projects", s.handleListProjects)
	mux.HandleFunc("GET /projects/{id}", s.handleGet(&s.projects))
	mux.HandleFunc("PATCH /projects/{id}", s.handleUpdate(&s.projects))
	mux.HandleFunc("DELETE /projects/{id}", s.handleDelete(&s.projects))
	mux.HandleFunc("POST /projects/{id}/releases", s.handleLinkReleases)
	mux.HandleFunc("PATCH /projects/network/{id}", s.handleNetwork)

	mux.HandleFunc("POST /components", s.handleCreate(&s.components, "c"))
	mux.HandleFunc("GET /components", s.handleList(&s.components, "sw360:components"))
	mux.HandleFunc("GET /components/{id}", s.handleGet(&s.components))
	mux.HandleFunc("PATCH /components/{id}", s.handleUpdate(&s.components))
	mux.HandleFunc("DELETE /components/{id}", s.handleDelete(&s.components))

	mux.HandleFunc("POST /releases", s.handleCreate(&s.releases, "r"))
	mux.HandleFunc("GET /releases", s.handleList(&s.releases, "sw360:releases"))
	mux.HandleFunc("GET /releases/{id}", s.handleGet(&s.releases))
	mux.HandleFunc("PATCH /releases/{id}", s.handleUpdate(&s.releases))
	mux.HandleFunc("DELETE /releases/{id}", s.handleDelete(&s.releases))
	mux.HandleFunc("POST /releases/{id}/releases", s.handleRelationships)
	mux.HandleFunc("POST /releases/{id}/attachments", s.handleAttach)
	mux.HandleFunc("DELETE /releases/{id}/attachments/{aid}", s.handleDeleteAttachment)

	s.Server = httptest.NewServer(s.intercept(mux))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		fail := s.Fail
		s.mu.Unlock()

		if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		if fail != nil {
			if status := fail(r); status != 0 {
				http.Error(w, `{"error":"injected failure"}`, status)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Calls returns a copy of the request log.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CountCalls counts logged requests with the given method and path.
func (s *Server) CountCalls(method, path string) int {
	n := 0
	for _, call := range s.Calls() {
		if call.Method == method && call.Path == path {
			n++
		}
	}
	return n
}

// CountMethod counts logged requests with the given method whose path
// starts with prefix.
func (s *Server) CountMethod(method, prefix string) int {
	n := 0
	for _, call := range s.Calls() {
		if call.Method == method && strings.HasPrefix(call.Path, prefix) {
			n++
		}
	}
	return n
}

// AddProject seeds a project and returns its id.
func (s *Server) AddProject(fields map[string]interface{}) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(&s.projects, "p", fields)
}

// AddComponent seeds a component and returns its id.
func (s *Server) AddComponent(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(&s.components, "c", map[string]interface{}{"name": name, "componentType": "OSS"})
}

// AddRelease seeds a release and returns its id.
func (s *Server) AddRelease(name, version, componentID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(&s.releases, "r", map[string]interface{}{"name": name, "version": version, "componentId": componentID})
}

// AddAttachment seeds an attachment on a release and returns its id.
func (s *Server) AddAttachment(releaseID, filename, attachmentType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("a%d", s.seq)
	s.attachments[releaseID] = append(s.attachments[releaseID], &Attachment{ID: id, Filename: filename, AttachmentType: attachmentType})
	return id
}

// Projects returns the stored projects' fields keyed by id.
func (s *Server) Projects() map[string]map[string]interface{} {
	return s.snapshot(&s.projects)
}

// Components returns the stored components' fields keyed by id.
func (s *Server) Components() map[string]map[string]interface{} {
	return s.snapshot(&s.components)
}

// Releases returns the stored releases' fields keyed by id.
func (s *Server) Releases() map[string]map[string]interface{} {
	return s.snapshot(&s.releases)
}

// LinkedReleases returns the release ids linked to a project.
func (s *Server) LinkedReleases(projectID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.links[projectID]...)
}

// Network returns the last dependency network stored for a project.
func (s *Server) Network(projectID string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.networks[projectID]
}

// Attachments returns the attachments of a release.
func (s *Server) Attachments(releaseID string) []Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Attachment
	for _, a := range s.attachments[releaseID] {
		out = append(out, *a)
	}
	return out
}

func (s *Server) snapshot(list *[]*entity) map[string]map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]map[string]interface{}{}
	for _, e := range *list {
		fields := map[string]interface{}{}
		for k, v := range e.fields {
			fields[k] = v
		}
		out[e.id] = fields
	}
	return out
}

func (s *Server) add(list *[]*entity, prefix string, fields map[string]interface{}) string {
	s.seq++
	id := fmt.Sprintf("%s%d", prefix, s.seq)
	copied := map[string]interface{}{}
	for k, v := range fields {
		copied[k] = v
	}
	*list = append(*list, &entity{id: id, fields: copied})
	return id
}

func find(list []*entity, id string) *entity {
	for _, e := range list {
		if e.id == id {
			return e
		}
	}
	return nil
}

func (s *Server) collection(list *[]*entity) string {
	switch list {
	case &s.projects:
		return "projects"
	case &s.components:
		return "components"
	default:
		return "releases"
	}
}

// render must be called with mu held.
func (s *Server) render(list *[]*entity, e *entity) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range e.fields {
		out[k] = v
	}
	collection := s.collection(list)
	links := map[string]interface{}{
		"self": map[string]string{"href": fmt.Sprintf("%s/%s/%s", s.URL, collection, e.id)},
	}

	switch collection {
	case "projects":
		var linked []map[string]string
		for _, rid := range s.links[e.id] {
			linked = append(linked, map[string]string{"release": fmt.Sprintf("%s/releases/%s", s.URL, rid)})
		}
		if len(linked) > 0 {
			out["linkedReleases"] = linked
		}
	case "releases":
		if cid, ok := e.fields["componentId"].(string); ok && cid != "" {
			links["sw360:component"] = map[string]string{"href": fmt.Sprintf("%s/components/%s", s.URL, cid)}
		}
		var attachments []map[string]interface{}
		for _, a := range s.attachments[e.id] {
			sum := sha1.Sum(a.Content)
			attachments = append(attachments, map[string]interface{}{
				"filename":       a.Filename,
				"attachmentType": a.AttachmentType,
				"sha1":           hex.EncodeToString(sum[:]),
				"_links": map[string]interface{}{
					"self": map[string]string{"href": fmt.Sprintf("%s/attachments/%s", s.URL, a.ID)},
				},
			})
		}
		if len(attachments) > 0 {
			out["_embedded"] = map[string]interface{}{"sw360:attachments": attachments}
		}
	}
	out["_links"] = links
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/hal+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"_links": map[string]interface{}{}})
}

func (s *Server) handleCreate(list *[]*entity, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		id := s.add(list, prefix, fields)
		writeJSON(w, http.StatusCreated, s.render(list, find(*list, id)))
	}
}

func (s *Server) handleGet(list *[]*entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := find(*list, r.PathValue("id"))
		if e == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, s.render(list, e))
	}
}

func (s *Server) handleUpdate(list *[]*entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		e := find(*list, r.PathValue("id"))
		if e == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		for k, v := range fields {
			e.fields[k] = v
		}
		writeJSON(w, http.StatusOK, s.render(list, e))
	}
}

func (s *Server) handleDelete(list *[]*entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id := r.PathValue("id")
		for i, e := range *list {
			if e.id == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}
}

func (s *Server) handleList(list *[]*entity, key string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		items := make([]map[string]interface{}, 0, len(*list))
		for _, e := range *list {
			items = append(items, s.render(list, e))
		}
		out := map[string]interface{}{}
		if len(items) > 0 {
			out["_embedded"] = map[string]interface{}{key: items}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]map[string]interface{}, 0, len(s.projects))
	for _, e := range s.projects {
		all = append(all, s.render(&s.projects, e))
	}

	if s.PageSize <= 0 {
		out := map[string]interface{}{}
		if len(all) > 0 {
			out["_embedded"] = map[string]interface{}{"sw360:projects": all}
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	number := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		number = n
	}

	start := number * s.PageSize
	end := start + s.PageSize
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}

	total := len(all)
	if s.TotalElements != nil {
		total = s.TotalElements(total)
	}
	reported := number
	if s.PageNumber != nil {
		reported = s.PageNumber(number)
	}

	out := map[string]interface{}{
		"page": map[string]int{
			"size":          s.PageSize,
			"totalElements": total,
			"totalPages":    (len(all) + s.PageSize - 1) / s.PageSize,
			"number":        reported,
		},
	}
	if page := all[start:end]; len(page) > 0 {
		out["_embedded"] = map[string]interface{}{"sw360:projects": page}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLinkReleases(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	e := find(s.projects, id)
	if e == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	for _, rid := range ids {
		if !contains(s.links[id], rid) {
			s.links[id] = append(s.links[id], rid)
		}
	}
	writeJSON(w, http.StatusCreated, s.render(&s.projects, e))
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DependencyNetwork json.RawMessage `json:"dependencyNetwork"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	e := find(s.projects, id)
	if e == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	s.networks[id] = payload.DependencyNetwork
	writeJSON(w, http.StatusOK, s.render(&s.projects, e))
}

func (s *Server) handleRelationships(w http.ResponseWriter, r *http.Request) {
	var relationships map[string]string
	if err := json.NewDecoder(r.Body).Decode(&relationships); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := find(s.releases, r.PathValue("id"))
	if e == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	merged := map[string]interface{}{}
	if existing, ok := e.fields["releaseIdToRelationship"].(map[string]interface{}); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	keys := make([]string, 0, len(relationships))
	for k := range relationships {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged[k] = relationships[k]
	}
	e.fields["releaseIdToRelationship"] = merged
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var meta struct {
		Filename       string `json:"filename"`
		AttachmentType string `json:"attachmentType"`
	}
	if err := json.Unmarshal([]byte(r.FormValue("attachment")), &meta); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	e := find(s.releases, id)
	if e == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	s.seq++
	s.attachments[id] = append(s.attachments[id], &Attachment{
		ID:             fmt.Sprintf("a%d", s.seq),
		Filename:       meta.Filename,
		AttachmentType: meta.AttachmentType,
		ContentType:    header.Header.Get("Content-Type"),
		Content:        content,
	})
	writeJSON(w, http.StatusCreated, s.render(&s.releases, e))
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	e := find(s.releases, id)
	if e == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	aid := r.PathValue("aid")
	kept := s.attachments[id][:0]
	found := false
	for _, a := range s.attachments[id] {
		if a.ID == aid {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		http.Error(w, `{"error":"attachment not found"}`, http.StatusNotFound)
		return
	}
	s.attachments[id] = kept
	writeJSON(w, http.StatusOK, s.render(&s.releases, e))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
