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
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/source"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

// Fetcher reads results from a bucket.
type Fetcher struct {
	Client API
}

// Fetch downloads the configured object. A prefix key lists the objects
// below it and returns every recognised result.
func (f *Fetcher) Fetch(ctx tcontext.SyncMetadata, s3cfg *S3Config) (iterator.InputIterator, error) {
	if !s3cfg.IsPrefix() {
		content, err := f.get(ctx, s3cfg.BucketName, s3cfg.Key)
		if err != nil {
			return nil, err
		}
		if !source.IsResultFile(content) {
			return nil, fmt.Errorf("s3://%s/%s is not an analysis result, SPDX or CycloneDX document", s3cfg.BucketName, s3cfg.Key)
		}
		return iterator.NewMemoryIterator([]*iterator.Input{{
			Path:   path.Base(s3cfg.Key),
			Data:   content,
			Source: "s3://" + s3cfg.BucketName,
		}}), nil
	}

	logger.LogDebug(ctx.Context, "Listing results in S3 bucket", "bucket", s3cfg.BucketName, "prefix", s3cfg.Key, "region", s3cfg.Region)

	var inputs []*iterator.Input
	paginator := s3.NewListObjectsV2Paginator(f.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s3cfg.BucketName),
		Prefix: aws.String(s3cfg.Key),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx.Context)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !source.IsResultFileName(key) {
				continue
			}

			content, err := f.get(ctx, s3cfg.BucketName, key)
			if err != nil {
				logger.LogDebug(ctx.Context, "Failed to download", "key", key, "error", err)
				continue
			}
			if !source.IsResultFile(content) {
				logger.LogDebug(ctx.Context, "Skipping unknown document", "key", key)
				continue
			}

			inputs = append(inputs, &iterator.Input{
				Path:   strings.TrimPrefix(key, s3cfg.Key),
				Data:   content,
				Source: "s3://" + s3cfg.BucketName + "/" + s3cfg.Key,
			})
			logger.LogDebug(ctx.Context, "Fetched result", "key", key, "size", len(content))
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no analysis result found in s3://%s/%s", s3cfg.BucketName, s3cfg.Key)
	}
	return iterator.NewMemoryIterator(inputs), nil
}

func (f *Fetcher) get(ctx tcontext.SyncMetadata, bucket, key string) ([]byte, error) {
	resp, err := f.Client.GetObject(ctx.Context, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}
	return content, nil
}
