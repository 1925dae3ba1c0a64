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

import "github.com/viveksahu26/sw360sync/pkg/tree"

const CategoryIncludeInNoticeFile = "include-in-notice-file"

var copyleftCategories = map[string]bool{
	"copyleft":         true,
	"strong-copyleft":  true,
	"copyleft-limited": true,
}

// Classifier answers category questions about a package's declared licenses.
type Classifier struct {
	categories map[string][]string
}

// NewClassifier takes license ids mapped to their categories.
func NewClassifier(categories map[string][]string) *Classifier {
	if categories == nil {
		categories = map[string][]string{}
	}
	return &Classifier{categories: categories}
}

// IncludeInNotice reports whether a declared license of pkg is categorized
// include-in-notice-file.
func (c *Classifier) IncludeInNotice(pkg *tree.Package) bool {
	return c.anyCategory(pkg, func(category string) bool { return category == CategoryIncludeInNoticeFile })
}

func (c *Classifier) IsCopyleft(pkg *tree.Package) bool {
	return c.anyCategory(pkg, func(category string) bool { return copyleftCategories[category] })
}

func (c *Classifier) anyCategory(pkg *tree.Package, match func(string) bool) bool {
	if pkg == nil {
		return false
	}
	for _, license := range pkg.DeclaredLicenses {
		for _, category := range c.categories[license] {
			if match(category) {
				return true
			}
		}
	}
	return false
}
