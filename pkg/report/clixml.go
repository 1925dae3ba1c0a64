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

package report

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tree"
)

// ErrNoLicenseData is returned when a package has no license files.
var ErrNoLicenseData = errors.New("no license file information available")

const (
	assessmentNA   = "NA"
	assessmentNone = "None"
	toolUsed       = "sw360sync"
	sha1Algorithm  = "SHA-1"
)

// cdata is element text written as a CDATA section.
type cdata struct {
	Text string `xml:",cdata"`
}

// ComponentLicenseInformation is the CLIXML document of one package.
type ComponentLicenseInformation struct {
	XMLName                  xml.Name `xml:"ComponentLicenseInformation"`
	Component                string   `xml:"component,attr"`
	Creator                  string   `xml:"creator,attr"`
	Date                     string   `xml:"date,attr"`
	BaseDoc                  string   `xml:"baseDoc,attr"`
	ToolUsed                 string   `xml:"toolUsed,attr"`
	ComponentID              string   `xml:"componentID,attr"`
	IncludesAcknowledgements bool     `xml:"includesAcknowledgements,attr"`
	ComponentSHA1            string   `xml:"componentSHA1,attr"`
	Version                  string   `xml:"Version,attr"`

	GeneralInformation GeneralInformation `xml:"GeneralInformation"`
	AssessmentSummary  AssessmentSummary  `xml:"AssessmentSummary"`
	Licenses           []License          `xml:"License"`
	Copyrights         []CopyrightEntry   `xml:"Copyright"`
}

type GeneralInformation struct {
	ReportID                string `xml:"ReportId"`
	ReviewedBy              string `xml:"ReviewedBy"`
	ComponentName           string `xml:"ComponentName"`
	Community               string `xml:"Community"`
	ComponentVersion        string `xml:"ComponentVersion"`
	ComponentHash           string `xml:"ComponentHash"`
	ComponentReleaseDate    string `xml:"ComponentReleaseDate"`
	LinkComponentManagement string `xml:"LinkComponentManagement"`
	ComponentID             struct {
		Type string `xml:"Type"`
		ID   string `xml:"Id"`
	} `xml:"ComponentId"`
}

type AssessmentSummary struct {
	GeneralAssessment       cdata  `xml:"GeneralAssessment"`
	CriticalFilesFound      string `xml:"CriticalFilesFound"`
	DependencyNotes         string `xml:"DependencyNotes"`
	ExportRestrictionsFound string `xml:"ExportRestrictionsFound"`
	UsageRestrictionsFound  string `xml:"UsageRestrictionsFound"`
	AdditionalNotes         cdata  `xml:"AdditionalNotes"`
}

// License collects every license file that names one license id.
type License struct {
	Type             string `xml:"type,attr"`
	Name             string `xml:"name,attr"`
	SPDXIdentifier   string `xml:"spdxidentifier,attr"`
	Content          cdata  `xml:"Content"`
	Files            cdata  `xml:"Files"`
	FileHash         cdata  `xml:"FileHash"`
	Acknowledgements cdata  `xml:"Acknowledgements"`
}

type CopyrightEntry struct {
	Content  cdata `xml:"Content"`
	Files    cdata `xml:"Files"`
	FileHash cdata `xml:"FileHash"`
	Comment  cdata `xml:"Comment"`
}

// ClixmlRenderer writes component license information files.
type ClixmlRenderer struct {
	info      LicenseInfoProvider
	outputDir string
	reportID  func() string
	now       func() time.Time
}

func NewClixmlRenderer(info LicenseInfoProvider, outputDir string) *ClixmlRenderer {
	return &ClixmlRenderer{
		info:      info,
		outputDir: outputDir,
		reportID:  func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

// Model builds the CLIXML document of pkg. It returns ErrNoLicenseData
// when no license files are known.
func (r *ClixmlRenderer) Model(pkg *tree.Package) (*ComponentLicenseInformation, error) {
	files := r.info.LicenseFiles(pkg.ID)
	if len(files) == 0 {
		return nil, ErrNoLicenseData
	}

	doc := &ComponentLicenseInformation{
		Component:     pkg.ID.Name,
		Date:          r.now().Format("2006-01-02"),
		ToolUsed:      toolUsed,
		ComponentSHA1: componentHash(pkg, sha1Algorithm),
		Version:       pkg.ID.Version,
		GeneralInformation: GeneralInformation{
			ReportID:         r.reportID(),
			ComponentName:    pkg.ID.Name,
			ComponentVersion: pkg.ID.Version,
			ComponentHash:    componentHash(pkg, ""),
		},
		AssessmentSummary: AssessmentSummary{
			GeneralAssessment:       cdata{assessmentNA},
			CriticalFilesFound:      assessmentNone,
			DependencyNotes:         assessmentNone,
			ExportRestrictionsFound: assessmentNone,
			UsageRestrictionsFound:  assessmentNone,
			AdditionalNotes:         cdata{assessmentNA},
		},
		Licenses:   licenseEntries(files),
		Copyrights: copyrightEntries(r.info.Copyrights(pkg.ID)),
	}
	return doc, nil
}

// Render writes the CLIXML file of pkg into the output directory and
// returns its path.
func (r *ClixmlRenderer) Render(ctx context.Context, pkg *tree.Package) (string, error) {
	doc, err := r.Model(pkg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(r.outputDir, FileName(ClixmlPrefix, ClixmlExtension, pkg.ID))
	logger.LogDebug(ctx, "Generating CLIXML", "package", pkg.ID.String(), "file", path)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, f.Close()
}

// componentHash returns the hash of the first artifact that has a URL. A
// non-empty algorithm also requires the hash to use it.
func componentHash(pkg *tree.Package, algorithm string) string {
	for _, artifact := range []tree.RemoteArtifact{pkg.SourceArtifact, pkg.BinaryArtifact} {
		if strings.TrimSpace(artifact.URL) == "" {
			continue
		}
		if algorithm == "" || strings.EqualFold(artifact.Hash.Algorithm, algorithm) {
			return artifact.Hash.Value
		}
	}
	return ""
}

// licenseEntries groups files by license id in first seen order.
func licenseEntries(files []tree.LicenseFile) []License {
	var order []string
	grouped := map[string][]tree.LicenseFile{}
	for _, file := range files {
		for _, id := range file.Licenses {
			if id == "" {
				continue
			}
			if _, ok := grouped[id]; !ok {
				order = append(order, id)
			}
			grouped[id] = append(grouped[id], file)
		}
	}

	licenses := make([]License, 0, len(order))
	for _, id := range order {
		var texts, paths, hashes []string
		for _, file := range grouped[id] {
			if file.Text != "" && !containsText(texts, file.Text) {
				texts = append(texts, file.Text)
			}
			paths = append(paths, file.Path)
			hashes = append(hashes, file.SHA1)
		}
		licenses = append(licenses, License{
			Type:           "global",
			Name:           id,
			SPDXIdentifier: id,
			Content:        cdata{strings.Join(texts, "\n\n")},
			Files:          cdata{strings.Join(paths, "\n")},
			FileHash:       cdata{strings.Join(hashes, "\n")},
		})
	}
	return licenses
}

// copyrightEntries keeps the last finding per path, sorted by path.
func copyrightEntries(copyrights []tree.Copyright) []CopyrightEntry {
	byPath := map[string]tree.Copyright{}
	for _, c := range copyrights {
		byPath[c.Path] = c
	}
	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]CopyrightEntry, 0, len(paths))
	for _, path := range paths {
		c := byPath[path]
		entries = append(entries, CopyrightEntry{
			Content:  cdata{c.Statement},
			Files:    cdata{c.Path},
			FileHash: cdata{c.SHA1},
		})
	}
	return entries
}

func containsText(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
