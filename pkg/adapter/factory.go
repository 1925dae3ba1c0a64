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

package adapter

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	ifolder "github.com/viveksahu26/sw360sync/pkg/source/folder"
	is3 "github.com/viveksahu26/sw360sync/pkg/source/s3"
	ofolder "github.com/viveksahu26/sw360sync/pkg/target/folder"
	os3 "github.com/viveksahu26/sw360sync/pkg/target/s3"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/types"
)

// InputAdapter supplies analysis results.
type InputAdapter interface {
	// Adds CLI flags to the commands
	AddCommandParams(cmd *cobra.Command)

	// Parses & validates input params
	ParseAndValidateParams(cmd *cobra.Command) error

	// Fetch results lazily using iterator
	FetchInputs(ctx tcontext.SyncMetadata) (iterator.InputIterator, error)

	// Dry-Run: display the fetched results
	DryRun(ctx tcontext.SyncMetadata, iter iterator.InputIterator) error
}

// MonitorAdapter is implemented by input adapters that support daemon mode.
type MonitorAdapter interface {
	Monitor(ctx tcontext.SyncMetadata) (iterator.InputIterator, error)
}

// MirrorAdapter copies the produced files somewhere else.
type MirrorAdapter interface {
	AddCommandParams(cmd *cobra.Command)
	ParseAndValidateParams(cmd *cobra.Command) error
	Mirror(ctx tcontext.SyncMetadata, files []string) (uploaded, failed int, err error)
	DryRun(ctx tcontext.SyncMetadata, files []string)
}

// NewInputAdapter returns the input adapter named by config.SourceAdapter.
func NewInputAdapter(ctx tcontext.SyncMetadata, config types.Config) (InputAdapter, error) {
	logger.LogDebug(ctx.Context, "Initializing Input Adapter", "InputAdapter", config.SourceAdapter)

	switch types.AdapterType(config.SourceAdapter) {
	case types.FolderAdapterType:
		return &ifolder.FolderAdapter{Role: types.InputAdapterRole, Config: &ifolder.FolderConfig{Daemon: config.Daemon}}, nil

	case types.S3AdapterType:
		if config.Daemon {
			return nil, fmt.Errorf("input adapter %s does not support daemon mode", config.SourceAdapter)
		}
		return &is3.S3Adapter{Role: types.InputAdapterRole}, nil

	default:
		return nil, fmt.Errorf("unsupported input adapter type: %q", config.SourceAdapter)
	}
}

// NewMirrorAdapter returns the mirror named by config.MirrorAdapter, or
// nil when no mirror is configured.
func NewMirrorAdapter(ctx tcontext.SyncMetadata, config types.Config) (MirrorAdapter, error) {
	if config.MirrorAdapter == "" {
		return nil, nil
	}
	logger.LogDebug(ctx.Context, "Initializing Mirror Adapter", "MirrorAdapter", config.MirrorAdapter)

	switch types.AdapterType(config.MirrorAdapter) {
	case types.FolderAdapterType:
		return &ofolder.FolderAdapter{Role: types.OutputAdapterRole}, nil

	case types.S3AdapterType:
		return &os3.S3Adapter{Role: types.OutputAdapterRole}, nil

	default:
		return nil, fmt.Errorf("unsupported mirror adapter type: %q", config.MirrorAdapter)
	}
}

// RegisterFlags adds the flags of every adapter to cmd.
func RegisterFlags(cmd *cobra.Command) {
	(&ifolder.FolderAdapter{}).AddCommandParams(cmd)
	(&is3.S3Adapter{}).AddCommandParams(cmd)
	(&ofolder.FolderAdapter{}).AddCommandParams(cmd)
	(&os3.S3Adapter{}).AddCommandParams(cmd)
}
