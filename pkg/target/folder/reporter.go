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
	"io"
	"os"
	"path/filepath"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

type FolderReporter struct {
	folderPath string
	out        io.Writer
}

func NewFolderReporter(folderPath string) *FolderReporter {
	return &FolderReporter{folderPath: folderPath, out: os.Stdout}
}

func (r *FolderReporter) DryRun(ctx tcontext.SyncMetadata, files []string) {
	logger.LogDebug(ctx.Context, "Dry-run mode: Displaying files that would be copied to the folder")
	fmt.Fprintln(r.out, "\n📦 Files the folder mirror would write")
	for _, f := range files {
		fmt.Fprintf(r.out, " - 📁 %s\n", filepath.Join(r.folderPath, filepath.Base(f)))
	}
	fmt.Fprintf(r.out, "📊 Total files: %d\n", len(files))
}
