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
	"os"

	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/source"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

type S3Reporter struct {
	bucketName string
	key        string
	out        io.Writer
}

func NewS3Reporter(bucketName, key string) *S3Reporter {
	return &S3Reporter{bucketName: bucketName, key: key, out: os.Stdout}
}

func (s *S3Reporter) DryRun(ctx tcontext.SyncMetadata, iter iterator.InputIterator) error {
	logger.LogDebug(ctx.Context, "Dry-run mode: Displaying results fetched from S3")
	count := 0
	fmt.Fprintln(s.out, "\n📦 Details of all analysis results fetched by S3 Input Adapter")
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
		fmt.Fprintf(s.out, " - 📁 Bucket: %s | Key: %s | Format: %s | Filename: %s\n",
			s.bucketName, s.key, source.FormatOf(input.Data), input.Path)
	}
	fmt.Fprintf(s.out, "\n📦 Total results fetched: %d\n", count)
	return nil
}
