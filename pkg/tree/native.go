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

package tree

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type nativeResult struct {
	HasScanResults         *bool               `json:"hasScanResults" yaml:"hasScanResults"`
	Packages               []nativePackage     `json:"packages" yaml:"packages"`
	LicenseClassifications map[string][]string `json:"licenseClassifications" yaml:"licenseClassifications"`
	DependencyTrees        []nativeNode        `json:"dependencyTrees" yaml:"dependencyTrees"`
}

type nativePackage struct {
	ID               string         `json:"id" yaml:"id"`
	PURL             string         `json:"purl" yaml:"purl"`
	IsProject        bool           `json:"isProject" yaml:"isProject"`
	DeclaredLicenses []string       `json:"declaredLicenses" yaml:"declaredLicenses"`
	UnmappedLicenses []string       `json:"unmappedLicenses" yaml:"unmappedLicenses"`
	Homepage         string         `json:"homepage" yaml:"homepage"`
	SourceArtifact   RemoteArtifact `json:"sourceArtifact" yaml:"sourceArtifact"`
	BinaryArtifact   RemoteArtifact `json:"binaryArtifact" yaml:"binaryArtifact"`
	VCS              VCSInfo        `json:"vcs" yaml:"vcs"`
	LicenseFiles     []LicenseFile  `json:"licenseFiles" yaml:"licenseFiles"`
	Copyrights       []Copyright    `json:"copyrights" yaml:"copyrights"`
}

type nativeNode struct {
	Pkg      string       `json:"pkg" yaml:"pkg"`
	Scope    string       `json:"scope" yaml:"scope"`
	Children []nativeNode `json:"children" yaml:"children"`
}

// DecodeNative decodes the native JSON or YAML result document. A missing
// hasScanResults means scan results are present.
func DecodeNative(data []byte) (*Result, error) {
	var doc nativeResult
	if json.Valid(data) {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}

	result := NewResult()
	if doc.HasScanResults != nil {
		result.HasScanResults = *doc.HasScanResults
	}
	result.MergeLicenseClassifications(doc.LicenseClassifications)

	for _, np := range doc.Packages {
		pkg, err := np.toPackage()
		if err != nil {
			return nil, err
		}
		if _, exists := result.Packages[pkg.ID.String()]; exists {
			return nil, fmt.Errorf("duplicate package %s", pkg.ID)
		}
		result.AddPackage(pkg)
	}

	for _, nn := range doc.DependencyTrees {
		node, err := nn.toNode(result)
		if err != nil {
			return nil, err
		}
		result.Trees = append(result.Trees, node)
	}
	return result, nil
}

func (np nativePackage) toPackage() (*Package, error) {
	var id Identifier
	var err error
	switch {
	case np.ID != "":
		id, err = ParseIdentifier(np.ID)
	case np.PURL != "":
		id, err = FromPURL(np.PURL)
	default:
		err = fmt.Errorf("package without id or purl")
	}
	if err != nil {
		return nil, err
	}

	return &Package{
		ID:               id,
		IsProject:        np.IsProject,
		DeclaredLicenses: np.DeclaredLicenses,
		UnmappedLicenses: np.UnmappedLicenses,
		Homepage:         np.Homepage,
		SourceArtifact:   np.SourceArtifact,
		BinaryArtifact:   np.BinaryArtifact,
		VCS:              np.VCS,
		LicenseFiles:     np.LicenseFiles,
		Copyrights:       np.Copyrights,
	}, nil
}

// toNode resolves package references. A node naming neither a package nor
// a scope decodes as an unknown node.
func (nn nativeNode) toNode(result *Result) (*Node, error) {
	node := &Node{Kind: NodeUnknown}

	switch {
	case nn.Pkg != "":
		id, err := ParseIdentifier(nn.Pkg)
		if err != nil {
			return nil, err
		}
		pkg, ok := result.Package(id)
		if !ok {
			return nil, fmt.Errorf("tree references unknown package %s", id)
		}
		node.Package = pkg
		node.Kind = NodePackage
		if pkg.IsProject {
			node.Kind = NodeProject
		}
	case nn.Scope != "":
		node.Kind = NodeScope
		node.Scope = nn.Scope
	}

	for _, child := range nn.Children {
		childNode, err := child.toNode(result)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}
