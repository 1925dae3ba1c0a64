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

// LicenseInfoProvider resolves the license files and copyright findings of
// a package.
type LicenseInfoProvider interface {
	LicenseFiles(id tree.Identifier) []tree.LicenseFile
	Copyrights(id tree.Identifier) []tree.Copyright
}

// ResultLicenseInfo serves license data recorded in a decoded result.
type ResultLicenseInfo struct {
	result *tree.Result
}

func NewResultLicenseInfo(result *tree.Result) *ResultLicenseInfo {
	return &ResultLicenseInfo{result: result}
}

func (r *ResultLicenseInfo) LicenseFiles(id tree.Identifier) []tree.LicenseFile {
	if pkg, ok := r.result.Package(id); ok {
		return pkg.LicenseFiles
	}
	return nil
}

func (r *ResultLicenseInfo) Copyrights(id tree.Identifier) []tree.Copyright {
	if pkg, ok := r.result.Package(id); ok {
		return pkg.Copyrights
	}
	return nil
}
