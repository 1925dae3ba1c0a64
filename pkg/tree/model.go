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

// Package tree holds the dependency analysis result: packages, their
// license findings and the dependency trees of each project.
package tree

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"
)

// Identifier names a package as type:namespace:name:version.
type Identifier struct {
	Type      string
	Namespace string
	Name      string
	Version   string
}

func (id Identifier) String() string {
	return strings.Join([]string{id.Type, id.Namespace, id.Name, id.Version}, ":")
}

// ParseIdentifier parses the four colon separated segments. The version is
// the remainder and may itself contain colons.
func ParseIdentifier(s string) (Identifier, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) != 4 {
		return Identifier{}, fmt.Errorf("invalid package identifier %q: want type:namespace:name:version", s)
	}
	if parts[2] == "" {
		return Identifier{}, fmt.Errorf("invalid package identifier %q: empty name", s)
	}
	return Identifier{Type: parts[0], Namespace: parts[1], Name: parts[2], Version: parts[3]}, nil
}

// purl types with a distinct package manager spelling.
var purlTypes = map[string]string{
	"maven":    "Maven",
	"npm":      "NPM",
	"pypi":     "PyPI",
	"golang":   "Go",
	"cargo":    "Crate",
	"gem":      "Gem",
	"nuget":    "NuGet",
	"composer": "Composer",
	"deb":      "Debian",
	"github":   "GitHub",
}

// FromPURL derives an Identifier from a package URL.
func FromPURL(purl string) (Identifier, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return Identifier{}, fmt.Errorf("parsing purl %q: %w", purl, err)
	}

	typ, ok := purlTypes[p.Type]
	if !ok {
		typ = strings.ToUpper(p.Type[:1]) + p.Type[1:]
	}
	return Identifier{Type: typ, Namespace: p.Namespace, Name: p.Name, Version: p.Version}, nil
}

// PURL renders the identifier as a package URL.
func (id Identifier) PURL() string {
	typ := strings.ToLower(id.Type)
	for purlType, name := range purlTypes {
		if name == id.Type {
			typ = purlType
			break
		}
	}
	return packageurl.NewPackageURL(typ, id.Namespace, id.Name, id.Version, nil, "").ToString()
}

type Hash struct {
	Value     string `json:"value" yaml:"value"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
}

// RemoteArtifact is a downloadable source or binary artifact.
type RemoteArtifact struct {
	URL  string `json:"url" yaml:"url"`
	Hash Hash   `json:"hash" yaml:"hash"`
}

type VCSInfo struct {
	Type     string `json:"type" yaml:"type"`
	URL      string `json:"url" yaml:"url"`
	Revision string `json:"revision" yaml:"revision"`
}

// LicenseFile is a license text found in the package sources.
type LicenseFile struct {
	Path     string   `json:"path" yaml:"path"`
	Text     string   `json:"text" yaml:"text"`
	Licenses []string `json:"licenses" yaml:"licenses"`
	SHA1     string   `json:"sha1" yaml:"sha1"`
}

// Copyright is a copyright statement found in the package sources.
type Copyright struct {
	Path      string `json:"path" yaml:"path"`
	Statement string `json:"statement" yaml:"statement"`
	SHA1      string `json:"sha1" yaml:"sha1"`
}

// Package is one project or package of the analysis result.
type Package struct {
	ID               Identifier
	IsProject        bool
	DeclaredLicenses []string
	// UnmappedLicenses are declared licenses that could not be mapped to
	// a license id.
	UnmappedLicenses []string
	Homepage         string
	SourceArtifact   RemoteArtifact
	BinaryArtifact   RemoteArtifact
	VCS              VCSInfo
	LicenseFiles     []LicenseFile
	Copyrights       []Copyright
}

type NodeKind int

const (
	NodeUnknown NodeKind = iota
	NodeProject
	NodePackage
	NodeScope
)

func (k NodeKind) String() string {
	switch k {
	case NodeProject:
		return "project"
	case NodePackage:
		return "package"
	case NodeScope:
		return "scope"
	default:
		return "unknown"
	}
}

// Node is a dependency tree node. Project and package nodes carry a
// Package; scope nodes carry a Scope name.
type Node struct {
	Kind     NodeKind
	Package  *Package
	Scope    string
	Children []*Node
}

func NewProjectNode(pkg *Package, children ...*Node) *Node {
	return &Node{Kind: NodeProject, Package: pkg, Children: children}
}

func NewPackageNode(pkg *Package, children ...*Node) *Node {
	return &Node{Kind: NodePackage, Package: pkg, Children: children}
}

func NewScopeNode(scope string, children ...*Node) *Node {
	return &Node{Kind: NodeScope, Scope: scope, Children: children}
}

// Classify returns the node's kind. A project or package node without a
// package is unknown.
func Classify(n *Node) NodeKind {
	if n == nil {
		return NodeUnknown
	}
	switch n.Kind {
	case NodeProject, NodePackage:
		if n.Package == nil {
			return NodeUnknown
		}
		return n.Kind
	case NodeScope:
		return NodeScope
	default:
		return NodeUnknown
	}
}

// Result is a decoded analysis result.
type Result struct {
	Trees    []*Node
	Packages map[string]*Package
	// LicenseClassifications maps a license id to its categories.
	LicenseClassifications map[string][]string
	HasScanResults         bool
}

// NewResult returns an empty result with scan results enabled.
func NewResult() *Result {
	return &Result{
		Packages:               map[string]*Package{},
		LicenseClassifications: map[string][]string{},
		HasScanResults:         true,
	}
}

// Package returns the package with the given identifier.
func (r *Result) Package(id Identifier) (*Package, bool) {
	pkg, ok := r.Packages[id.String()]
	return pkg, ok
}

// AddPackage stores pkg, keeping an already stored package with the same id.
func (r *Result) AddPackage(pkg *Package) *Package {
	if existing, ok := r.Packages[pkg.ID.String()]; ok {
		return existing
	}
	r.Packages[pkg.ID.String()] = pkg
	return pkg
}
