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
	"context"
	"encoding/json"
	"fmt"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatNative    Format = "native"
	FormatSPDX      Format = "spdx"
	FormatCycloneDX Format = "cyclonedx"
	FormatUnknown   Format = "unknown"
)

const (
	SPDXVersion22 = "SPDX-2.2"
	SPDXVersion23 = "SPDX-2.3"
)

// DetectFormat inspects the top level keys of a JSON or YAML document and
// returns its format and, for SBOMs, the spec version.
func DetectFormat(data []byte) (Format, string, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		if yamlErr := yaml.Unmarshal(data, &raw); yamlErr != nil {
			return FormatUnknown, "", fmt.Errorf("unmarshaling input: %w", err)
		}
	}

	if _, ok := raw["dependencyTrees"]; ok {
		return FormatNative, "", nil
	}
	if version, ok := raw["spdxVersion"].(string); ok {
		return FormatSPDX, version, nil
	}
	if version, ok := raw["specVersion"].(string); ok {
		return FormatCycloneDX, version, nil
	}
	if format, ok := raw["bomFormat"].(string); ok && format == "CycloneDX" {
		return FormatCycloneDX, "", nil
	}
	return FormatUnknown, "", nil
}

// Decode detects the input format and decodes the analysis result.
func Decode(ctx context.Context, data []byte) (*Result, error) {
	format, version, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	logger.LogDebug(ctx, "Decoding analysis result", "format", format, "version", version)

	switch format {
	case FormatNative:
		return DecodeNative(data)
	case FormatSPDX:
		return DecodeSPDX(ctx, data, version)
	case FormatCycloneDX:
		return DecodeCycloneDX(ctx, data)
	default:
		return nil, fmt.Errorf("unsupported input format")
	}
}
