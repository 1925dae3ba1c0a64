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

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

type S3Reporter struct {
	bucketName string
	prefix     string
	out        io.Writer
}

func NewS3Reporter(bucketName, prefix string) *S3Reporter {
	return &S3Reporter{bucketName: bucketName, prefix: prefix, out: os.Stdout}
}

func (r *S3Reporter) DryRun(ctx tcontext.SyncMetadata, files []string) {
	logger.LogDebug(ctx.Context, "Dry-run mode: Displaying files that would be mirrored to S3")
	fmt.Fprintln(r.out, "\n📦 Files the S3 mirror would upload")
	for _, f := range files {
		fmt.Fprintf(r.out, " - 🪣 s3://%s/%s\n", r.bucketName, ObjectKey(r.prefix, f))
	}
	fmt.Fprintf(r.out, "📊 Total files: %d\n", len(files))
}
