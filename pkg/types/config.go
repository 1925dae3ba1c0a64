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

package types

import "github.com/viveksahu26/sw360sync/pkg/target/sw360"

// Config is the parsed command line of a sync run.
type Config struct {
	SourceAdapter string
	// MirrorAdapter is empty when produced files are not mirrored.
	MirrorAdapter string

	DryRun    bool
	Daemon    bool
	OutputDir string

	SourceDownload         SourceDownload
	GitHubToken            string
	LicenseClassifications string
	// ThrottleSeconds bounds the random pause before each package.
	ThrottleSeconds int

	Options RunOptions
	SW360   sw360.Config
	// SkipValidation skips the connection check before the run.
	SkipValidation bool
}
