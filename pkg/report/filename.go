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

// Package report renders the per package files that are attached to
// catalog releases.
package report

import (
	"strings"

	"github.com/viveksahu26/sw360sync/pkg/tree"
)

const (
	ClixmlPrefix        = "ort-cli_"
	ClixmlExtension     = "xml"
	NoticePrefix        = "ort-license-text_"
	NoticeExtension     = "txt"
	SourceArchivePrefix = "ort-source-archive_"
	SourceArchiveExt    = "zip"
)

// FileName builds {prefix}{type-}{namespace-}{name}@{version}.{ext}. Blank
// type or namespace segments are left out.
func FileName(prefix, ext string, id tree.Identifier) string {
	var b strings.Builder
	b.WriteString(prefix)
	if strings.TrimSpace(id.Type) != "" {
		b.WriteString(segment(id.Type))
		b.WriteString("-")
	}
	if strings.TrimSpace(id.Namespace) != "" {
		b.WriteString(segment(id.Namespace))
		b.WriteString("-")
	}
	b.WriteString(segment(id.Name))
	b.WriteString("@")
	b.WriteString(segment(id.Version))
	b.WriteString(".")
	b.WriteString(ext)
	return b.String()
}

// segment keeps a name part inside one path element.
func segment(s string) string {
	return strings.ReplaceAll(s, "/", "%2F")
}
