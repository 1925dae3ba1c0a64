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
	"bytes"
	"context"
	"fmt"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/viveksahu26/sw360sync/pkg/logger"
)

// DecodeCycloneDX decodes a CycloneDX JSON BOM. The metadata component is
// the project; without one, every component that nothing depends on is.
func DecodeCycloneDX(ctx context.Context, data []byte) (*Result, error) {
	bom := new(cdx.BOM)
	if err := cdx.NewBOMDecoder(bytes.NewReader(data), cdx.BOMFileFormatJSON).Decode(bom); err != nil {
		return nil, fmt.Errorf("decoding CycloneDX BOM: %w", err)
	}

	result := NewResult()
	g := newGraph()
	byRef := map[string]*Package{}

	add := func(c *cdx.Component) (string, error) {
		pkg, err := cdxPackage(c)
		if err != nil {
			return "", err
		}
		ref := c.BOMRef
		if ref == "" {
			ref = pkg.ID.String()
		}
		byRef[ref] = result.AddPackage(pkg)
		g.addNode(ref)
		return ref, nil
	}

	if bom.Metadata != nil && bom.Metadata.Component != nil {
		ref, err := add(bom.Metadata.Component)
		if err != nil {
			return nil, err
		}
		g.addRoot(ref)
	}

	for _, c := range flattenComponents(bom.Components) {
		if _, err := add(c); err != nil {
			return nil, err
		}
	}

	if bom.Dependencies != nil {
		for _, dep := range *bom.Dependencies {
			if dep.Dependencies == nil {
				continue
			}
			for _, to := range *dep.Dependencies {
				g.addEdge(dep.Ref, to)
			}
		}
	}

	roots := g.rootsOrTopLevel()
	if len(roots) == 0 {
		return nil, fmt.Errorf("CycloneDX BOM %q has no components", bom.SerialNumber)
	}

	var projects []string
	for _, root := range roots {
		pkg, ok := byRef[root]
		if !ok {
			logger.LogWarn(ctx, "CycloneDX root reference has no component, skipping", "bom-ref", root)
			continue
		}
		pkg.IsProject = true
		projects = append(projects, root)
	}
	for _, root := range projects {
		result.Trees = append(result.Trees, g.build(root, byRef))
	}
	return result, nil
}

func flattenComponents(components *[]cdx.Component) []*cdx.Component {
	if components == nil {
		return nil
	}

	var out []*cdx.Component
	for i := range *components {
		c := &(*components)[i]
		out = append(out, c)
		out = append(out, flattenComponents(c.Components)...)
	}
	return out
}

func cdxPackage(c *cdx.Component) (*Package, error) {
	id := Identifier{Type: unknownType, Namespace: c.Group, Name: c.Name, Version: c.Version}
	if c.PackageURL != "" {
		purlID, err := FromPURL(c.PackageURL)
		if err != nil {
			return nil, err
		}
		id = purlID
	}

	pkg := &Package{ID: id}

	if c.Licenses != nil {
		for _, choice := range *c.Licenses {
			switch {
			case choice.Expression != "":
				for _, license := range SplitLicenseExpression(choice.Expression) {
					pkg.DeclaredLicenses = appendUnique(pkg.DeclaredLicenses, license)
				}
			case choice.License != nil && choice.License.ID != "":
				pkg.DeclaredLicenses = appendUnique(pkg.DeclaredLicenses, choice.License.ID)
			case choice.License != nil && choice.License.Name != "":
				pkg.UnmappedLicenses = appendUnique(pkg.UnmappedLicenses, choice.License.Name)
			}
		}
	}

	if c.ExternalReferences != nil {
		for _, ref := range *c.ExternalReferences {
			switch string(ref.Type) {
			case "vcs":
				pkg.VCS = VCSInfo{Type: "Git", URL: ref.URL}
			case "website":
				pkg.Homepage = ref.URL
			case "source-distribution":
				pkg.SourceArtifact.URL = ref.URL
			case "distribution":
				pkg.BinaryArtifact.URL = ref.URL
			}
		}
	}

	if c.Hashes != nil {
		for _, h := range *c.Hashes {
			if h.Algorithm == cdx.HashAlgoSHA1 {
				pkg.BinaryArtifact.Hash = Hash{Value: h.Value, Algorithm: "SHA-1"}
				break
			}
		}
	}

	if c.Copyright != "" {
		pkg.Copyrights = append(pkg.Copyrights, Copyright{Statement: c.Copyright})
	}
	return pkg, nil
}

func appendUnique(list []string, v string) []string {
	if containsString(list, v) {
		return list
	}
	return append(list, v)
}
