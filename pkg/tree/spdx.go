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
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spdx/tools-golang/convert"
	"github.com/spdx/tools-golang/spdx/v2/common"
	"github.com/spdx/tools-golang/spdx/v2/v2_2"
	"github.com/spdx/tools-golang/spdx/v2/v2_3"
	"github.com/viveksahu26/sw360sync/pkg/logger"
)

const (
	spdxDescribes    = "DESCRIBES"
	spdxDescribedBy  = "DESCRIBED_BY"
	spdxDependsOn    = "DEPENDS_ON"
	spdxContains     = "CONTAINS"
	spdxDependencyOf = "DEPENDENCY_OF"
	spdxContainedBy  = "CONTAINED_BY"
	spdxDocumentID   = "DOCUMENT"
	spdxNoAssertion  = "NOASSERTION"
	spdxNone         = "NONE"
	spdxPurlRefType  = "purl"
	unknownType      = "Unknown"
)

// DecodeSPDX decodes an SPDX JSON document. SPDX 2.2 documents are
// converted to 2.3 first.
func DecodeSPDX(ctx context.Context, data []byte, version string) (*Result, error) {
	var doc v2_3.Document

	if version == SPDXVersion22 {
		logger.LogDebug(ctx, "Converting SPDX 2.2 to 2.3")

		var source v2_2.Document
		if err := json.Unmarshal(data, &source); err != nil {
			return nil, fmt.Errorf("unmarshaling SPDX 2.2 JSON: %w", err)
		}
		if err := convert.Document(&source, &doc); err != nil {
			return nil, fmt.Errorf("converting SPDX 2.2 to 2.3: %w", err)
		}
	} else if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling SPDX JSON: %w", err)
	}

	return fromSPDX(ctx, &doc)
}

func fromSPDX(ctx context.Context, doc *v2_3.Document) (*Result, error) {
	result := NewResult()
	g := newGraph()

	byID := map[string]*Package{}
	for _, p := range doc.Packages {
		if p == nil {
			continue
		}
		pkg, err := spdxPackage(p)
		if err != nil {
			return nil, err
		}
		pkg = result.AddPackage(pkg)
		byID[string(p.PackageSPDXIdentifier)] = pkg
		g.addNode(string(p.PackageSPDXIdentifier))
	}

	for _, rel := range doc.Relationships {
		if rel == nil {
			continue
		}
		a := string(rel.RefA.ElementRefID)
		b := string(rel.RefB.ElementRefID)

		switch strings.ToUpper(rel.Relationship) {
		case spdxDescribes:
			if a == spdxDocumentID {
				g.addRoot(b)
			}
		case spdxDescribedBy:
			if b == spdxDocumentID {
				g.addRoot(a)
			}
		case spdxDependsOn, spdxContains:
			g.addEdge(a, b)
		case spdxDependencyOf, spdxContainedBy:
			g.addEdge(b, a)
		}
	}

	roots := g.rootsOrTopLevel()
	if len(roots) == 0 {
		return nil, fmt.Errorf("SPDX document %q has no packages", doc.DocumentName)
	}

	var projects []string
	for _, root := range roots {
		pkg, ok := byID[root]
		if !ok {
			logger.LogWarn(ctx, "SPDX root element is not a package, skipping", "element", root)
			continue
		}
		pkg.IsProject = true
		projects = append(projects, root)
	}
	for _, root := range projects {
		result.Trees = append(result.Trees, g.build(root, byID))
	}
	return result, nil
}

func spdxPackage(p *v2_3.Package) (*Package, error) {
	id := Identifier{Type: unknownType, Name: p.PackageName, Version: p.PackageVersion}
	for _, ref := range p.PackageExternalReferences {
		if ref == nil || ref.RefType != spdxPurlRefType {
			continue
		}
		purlID, err := FromPURL(ref.Locator)
		if err != nil {
			return nil, err
		}
		id = purlID
		break
	}

	pkg := &Package{ID: id}
	if p.PackageHomePage != spdxNoAssertion && p.PackageHomePage != spdxNone {
		pkg.Homepage = p.PackageHomePage
	}

	expr := p.PackageLicenseDeclared
	if expr == "" || expr == spdxNoAssertion || expr == spdxNone {
		expr = p.PackageLicenseConcluded
	}
	pkg.DeclaredLicenses = SplitLicenseExpression(expr)

	location := p.PackageDownloadLocation
	switch {
	case strings.HasPrefix(location, "git+"):
		pkg.VCS = parseVCSLocation(location)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		pkg.SourceArtifact.URL = location
	}

	for _, checksum := range p.PackageChecksums {
		if checksum.Algorithm == common.SHA1 {
			pkg.SourceArtifact.Hash = Hash{Value: checksum.Value, Algorithm: "SHA-1"}
			break
		}
	}

	if text := p.PackageCopyrightText; text != "" && text != spdxNoAssertion && text != spdxNone {
		pkg.Copyrights = append(pkg.Copyrights, Copyright{Statement: text})
	}
	return pkg, nil
}

// parseVCSLocation splits git+https://host/repo.git@rev into url and revision.
func parseVCSLocation(location string) VCSInfo {
	vcs := VCSInfo{Type: "Git", URL: strings.TrimPrefix(location, "git+")}
	if idx := strings.LastIndex(vcs.URL, "@"); idx > strings.LastIndex(vcs.URL, "/") {
		vcs.Revision = vcs.URL[idx+1:]
		vcs.URL = vcs.URL[:idx]
	}
	if idx := strings.Index(vcs.URL, "#"); idx >= 0 {
		vcs.URL = vcs.URL[:idx]
	}
	return vcs
}
