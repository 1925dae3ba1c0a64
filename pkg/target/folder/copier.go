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

type Copier struct{}

// Copy writes every file into the folder sequentially. Without overwrite
// an existing file is kept and counted as mirrored.
func (c *Copier) Copy(ctx tcontext.SyncMetadata, config *FolderConfig, files []string) (copied, failed int, err error) {
	logger.LogDebug(ctx.Context, "Copying files sequentially", "folder", config.FolderPath, "files", len(files))

	if err := os.MkdirAll(config.FolderPath, 0o755); err != nil {
		return 0, len(files), fmt.Errorf("creating folder %s: %w", config.FolderPath, err)
	}

	for _, file := range files {
		target := filepath.Join(config.FolderPath, filepath.Base(file))

		if !config.Overwrite {
			if _, err := os.Stat(target); err == nil {
				logger.LogDebug(ctx.Context, "File already exists, skipping write (overwrite=false)", "path", target)
				copied++
				continue
			} else if !os.IsNotExist(err) {
				failed++
				logger.LogError(ctx.Context, err, "Failed to check file existence", "path", target)
				continue
			}
		}

		if err := copyFile(file, target); err != nil {
			failed++
			logger.LogError(ctx.Context, err, "Failed to mirror file", "path", target)
			continue
		}
		copied++
		logger.LogDebug(ctx.Context, "Mirrored file", "path", target)
	}

	logger.LogInfo(ctx.Context, "mirror", "total", len(files), "success", copied, "failed", failed)
	return copied, failed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
