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

package source

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viveksahu26/sw360sync/pkg/tree"
)

var resultNameRegex = regexp.MustCompile(`\.(json|ya?ml)$`)

// IsResultFile reports whether content decodes to a known input format.
func IsResultFile(content []byte) bool {
	format, _, err := tree.DetectFormat(content)
	if err != nil {
		return false
	}
	return format != tree.FormatUnknown
}

// FormatOf describes the format of content, with the spec version when
// there is one.
func FormatOf(content []byte) string {
	format, version, err := tree.DetectFormat(content)
	if err != nil {
		return string(tree.FormatUnknown)
	}
	if version != "" {
		return string(format) + " " + version
	}
	return string(format)
}

// IsResultFileName reports whether name has an extension the decoders read.
// Editor swap files and hidden files are rejected.
func IsResultFileName(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return resultNameRegex.MatchString(strings.ToLower(base))
}
