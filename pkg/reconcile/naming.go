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

package reconcile

import "github.com/viveksahu26/sw360sync/pkg/tree"

const (
	// DefaultVersion replaces an empty package version.
	DefaultVersion = "unknown"

	projectReleasePrefix = "ort-project"
)

// ReleaseName is namespace/name, or name when there is no namespace.
func ReleaseName(id tree.Identifier) string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "/" + id.Name
}

// ProjectReleaseName names the release that stands for a project node.
func ProjectReleaseName(id tree.Identifier) string {
	return projectReleasePrefix + "/" + id.Type + "/" + ReleaseName(id)
}

func VersionOrDefault(version string) string {
	if version == "" {
		return DefaultVersion
	}
	return version
}
