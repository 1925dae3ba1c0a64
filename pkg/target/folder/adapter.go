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

package folder

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/types"
	"github.com/viveksahu26/sw360sync/pkg/utils"
)

type FolderConfig struct {
	FolderPath string
	Overwrite  bool
}

// FolderAdapter copies the produced report files into a local folder.
type FolderAdapter struct {
	Role   types.AdapterRole
	Config *FolderConfig
}

// AddCommandParams defines folder mirror CLI flags
func (f *FolderAdapter) AddCommandParams(cmd *cobra.Command) {
	cmd.Flags().String("out-folder-path", "", "The folder where report files are copied")
	cmd.Flags().Bool("out-folder-overwrite", false, "Overwrite report files already in the folder")
}

// ParseAndValidateParams validates the folder path
func (f *FolderAdapter) ParseAndValidateParams(cmd *cobra.Command) error {
	if f.Role != types.OutputAdapterRole {
		return fmt.Errorf("the folder mirror can only be used as output adapter")
	}

	err := utils.FlagValidation(cmd, types.FolderAdapterType, types.OutputAdapterFlagPrefix)
	if err != nil {
		return fmt.Errorf("folder flag validation failed: %w", err)
	}

	folderPath, _ := cmd.Flags().GetString("out-folder-path")
	if folderPath == "" {
		return fmt.Errorf("missing output adapter required flags: [--out-folder-path]\n\nUse 'sw360sync sync --help' for usage details.")
	}
	overwrite, _ := cmd.Flags().GetBool("out-folder-overwrite")

	f.Config = &FolderConfig{FolderPath: folderPath, Overwrite: overwrite}
	logger.LogDebug(cmd.Context(), "Folder Mirror Adapter Initialized", "path", folderPath)
	return nil
}

// Mirror copies files into the folder.
func (f *FolderAdapter) Mirror(ctx tcontext.SyncMetadata, files []string) (uploaded, failed int, err error) {
	return (&Copier{}).Copy(ctx, f.Config, files)
}

// DryRun prints where the files would be copied.
func (f *FolderAdapter) DryRun(ctx tcontext.SyncMetadata, files []string) {
	NewFolderReporter(f.Config.FolderPath).DryRun(ctx, files)
}
