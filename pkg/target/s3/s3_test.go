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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	is3 "github.com/viveksahu26/sw360sync/pkg/source/s3"
	"github.com/viveksahu26/sw360sync/pkg/source/s3/fakes3"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/types"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "ort-cli_NPM-lodash@1.0.0.xml", ObjectKey("", "/out/ort-cli_NPM-lodash@1.0.0.xml"))
	assert.Equal(t, "reports/a.zip", ObjectKey("reports", "out/a.zip"))
	assert.Equal(t, "reports/2025/a.zip", ObjectKey("/reports/2025/", "a.zip"))
}

func TestParseAndValidateParams(t *testing.T) {
	cmd := &cobra.Command{Use: "sync"}
	adapter := &S3Adapter{Role: types.OutputAdapterRole}
	adapter.AddCommandParams(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--out-s3-bucket-name=reports", "--out-s3-prefix=ort"}))

	require.NoError(t, adapter.ParseAndValidateParams(cmd))
	assert.Equal(t, "reports", adapter.Config.BucketName)
	assert.Equal(t, "ort", adapter.Config.Key)
	assert.Equal(t, is3.DefaultRegion, adapter.Config.Region)

	missing := &cobra.Command{Use: "sync"}
	adapter.AddCommandParams(missing)
	require.NoError(t, missing.ParseFlags(nil))
	assert.ErrorContains(t, adapter.ParseAndValidateParams(missing), "--out-s3-bucket-name")
}

func TestMirrorCountsFailures(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.zip", "b.xml", "c.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
		files = append(files, path)
	}
	files = append(files, filepath.Join(dir, "missing.txt"))

	client := fakes3.New()
	client.FailPut = func(key string) bool { return key == "ort/b.xml" }

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := *tcontext.NewSyncMetadata(logger.NewContext(context.Background(), zap.New(core).Sugar()))

	adapter := &S3Adapter{Role: types.OutputAdapterRole, Client: client, Config: &is3.S3Config{BucketName: "reports", Key: "ort"}}
	uploaded, failed, err := adapter.Mirror(ctx, files)
	require.NoError(t, err)

	assert.Equal(t, 2, uploaded)
	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{"ort/a.zip", "ort/c.txt"}, client.Keys("reports"))
	content, _ := client.Object("reports", "ort/a.zip")
	assert.Equal(t, "a.zip", string(content))
	assert.Equal(t, 2, logs.FilterMessage("Failed to mirror file").Len())
}

func TestS3Reporter(t *testing.T) {
	var buf bytes.Buffer
	r := &S3Reporter{bucketName: "reports", prefix: "ort", out: &buf}
	r.DryRun(*tcontext.NewSyncMetadata(context.Background()), []string{"/out/a.zip"})

	assert.Contains(t, buf.String(), "s3://reports/ort/a.zip")
	assert.Contains(t, buf.String(), "Total files: 1")
}
