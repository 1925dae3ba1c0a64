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

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
)

// Run option keys.
const (
	OptionDeduplicateDependencyTree = "deduplicateDependencyTree"
	OptionDependencyNetwork         = "dependencyNetwork"
	OptionProjectName               = "projectName"
	OptionProjectVersion            = "projectVersion"
	OptionLicenseTextAttachment     = "licenseTextAttachment"
)

// DefaultRunOptions holds the value used for every option that is not set.
var DefaultRunOptions = map[string]string{
	OptionDeduplicateDependencyTree: "false",
	OptionDependencyNetwork:         "false",
	OptionProjectName:               "ORT_LICENSE_REPORT",
	OptionProjectVersion:            "",
	OptionLicenseTextAttachment:     "true",
}

// RunOptions are the typed run options.
type RunOptions struct {
	DeduplicateDependencyTree bool
	DependencyNetwork         bool
	ProjectName               string
	ProjectVersion            string
	LicenseTextAttachment     bool
}

// ParseRunOptions applies values over DefaultRunOptions. Boolean options
// accept what strconv.ParseBool accepts; anything else is a
// ConfigurationError. Unknown keys are ignored.
func ParseRunOptions(values map[string]string) (RunOptions, error) {
	get := func(key string) string {
		if v, ok := values[key]; ok {
			return strings.TrimSpace(v)
		}
		return DefaultRunOptions[key]
	}

	var (
		opts RunOptions
		err  error
	)
	if opts.DeduplicateDependencyTree, err = parseBool(OptionDeduplicateDependencyTree, get(OptionDeduplicateDependencyTree)); err != nil {
		return RunOptions{}, err
	}
	if opts.DependencyNetwork, err = parseBool(OptionDependencyNetwork, get(OptionDependencyNetwork)); err != nil {
		return RunOptions{}, err
	}
	if opts.LicenseTextAttachment, err = parseBool(OptionLicenseTextAttachment, get(OptionLicenseTextAttachment)); err != nil {
		return RunOptions{}, err
	}

	opts.ProjectName = get(OptionProjectName)
	if opts.ProjectName == "" {
		return RunOptions{}, &sw360.ConfigurationError{Setting: OptionProjectName, Reason: "must not be empty"}
	}
	opts.ProjectVersion = get(OptionProjectVersion)
	return opts, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &sw360.ConfigurationError{Setting: key, Reason: fmt.Sprintf("%q is not a boolean", value)}
	}
	return b, nil
}
