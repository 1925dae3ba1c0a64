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
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SplitLicenseExpression returns the distinct license ids of an SPDX
// expression in order of appearance. NONE and NOASSERTION are dropped.
func SplitLicenseExpression(expr string) []string {
	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == '(' || r == ')' || r == ' ' || r == '\t' || r == '\n'
	})

	var ids []string
	seen := map[string]bool{}
	for i := 0; i < len(fields); i++ {
		field := fields[i]
		switch strings.ToUpper(field) {
		case "AND", "OR":
			continue
		case "WITH":
			// the exception belongs to the preceding license
			i++
			continue
		case "NONE", "NOASSERTION":
			continue
		}
		field = strings.TrimSuffix(field, "+")
		if field == "" || seen[field] {
			continue
		}
		seen[field] = true
		ids = append(ids, field)
	}
	return ids
}

type classificationFile struct {
	Categorizations []struct {
		ID         string   `yaml:"id"`
		Categories []string `yaml:"categories"`
	} `yaml:"categorizations"`
}

// ParseLicenseClassifications decodes a license-classifications.yml
// document into license id to categories.
func ParseLicenseClassifications(data []byte) (map[string][]string, error) {
	var file classificationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding license classifications: %w", err)
	}

	classifications := map[string][]string{}
	for _, c := range file.Categorizations {
		if c.ID == "" {
			return nil, fmt.Errorf("license classification without id")
		}
		classifications[c.ID] = append(classifications[c.ID], c.Categories...)
	}
	return classifications, nil
}

// LoadLicenseClassifications reads the classification file at path and
// merges it into the result.
func (r *Result) LoadLicenseClassifications(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading license classifications: %w", err)
	}

	classifications, err := ParseLicenseClassifications(data)
	if err != nil {
		return err
	}
	r.MergeLicenseClassifications(classifications)
	return nil
}

// MergeLicenseClassifications adds categories, skipping ones already known.
func (r *Result) MergeLicenseClassifications(classifications map[string][]string) {
	if r.LicenseClassifications == nil {
		r.LicenseClassifications = map[string][]string{}
	}
	for id, categories := range classifications {
		existing := r.LicenseClassifications[id]
		for _, category := range categories {
			if !containsString(existing, category) {
				existing = append(existing, category)
			}
		}
		r.LicenseClassifications[id] = existing
	}
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
