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

package s3

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	is3 "github.com/viveksahu26/sw360sync/pkg/source/s3"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

type Uploader struct {
	Client is3.API
}

// ObjectKey returns prefix/filename of file.
func ObjectKey(prefix, file string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return filepath.Base(file)
	}
	return path.Join(prefix, filepath.Base(file))
}

// Upload puts every file sequentially. A failing file is logged and counted.
func (u *Uploader) Upload(ctx tcontext.SyncMetadata, s3cfg *is3.S3Config, files []string) (uploaded, failed int, err error) {
	logger.LogDebug(ctx.Context, "Mirroring files sequentially", "bucket", s3cfg.BucketName, "prefix", s3cfg.Key, "files", len(files))

	for _, file := range files {
		key := ObjectKey(s3cfg.Key, file)
		if err := u.put(ctx, s3cfg.BucketName, key, file); err != nil {
			failed++
			logger.LogError(ctx.Context, err, "Failed to mirror file", "bucket", s3cfg.BucketName, "key", key)
			continue
		}
		uploaded++
		logger.LogDebug(ctx.Context, "Mirrored file", "bucket", s3cfg.BucketName, "key", key)
	}

	logger.LogInfo(ctx.Context, "mirror", "total", len(files), "success", uploaded, "failed", failed)
	return uploaded, failed, nil
}

func (u *Uploader) put(ctx tcontext.SyncMetadata, bucket, key, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	_, err = u.Client.PutObject(ctx.Context, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	return err
}
