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

	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/source"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

type FolderReporter struct {
	folderPath string
	out        io.Writer
}

func NewFolderReporter(folderPath string) *FolderReporter {
	return &FolderReporter{folderPath: folderPath, out: os.Stdout}
}

func (r *FolderReporter) DryRun(ctx tcontext.SyncMetadata, iter iterator.InputIterator) error {
	logger.LogDebug(ctx.Context, "Dry-run mode: Displaying results read from folder")
	count := 0
	fmt.Fprintln(r.out, "\n📦 Details of all analysis results read by Folder Input Adapter")

	for {
		input, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.LogError(ctx.Context, err, "Error retrieving result from iterator")
			return err
		}
		count++
		fmt.Fprintf(r.out, " - 📁 Folder: %s | Format: %s | Size: %d bytes | Filename: %s\n",
			r.folderPath, source.FormatOf(input.Data), len(input.Data), input.Path)
	}
	fmt.Fprintf(r.out, "📊 Total results: %d\n", count)
	return nil
}
