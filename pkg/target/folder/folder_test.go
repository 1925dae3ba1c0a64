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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/types"
)

func writeReports(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var files []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("new "+name), 0o644))
		files = append(files, path)
	}
	return files
}

func TestParseAndValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		role    types.AdapterRole
		args    []string
		wantErr string
	}{
		{name: "valid", role: types.OutputAdapterRole, args: []string{"--out-folder-path=mirror", "--out-folder-overwrite"}},
		{name: "missing path", role: types.OutputAdapterRole, wantErr: "--out-folder-path"},
		{name: "input role", role: types.InputAdapterRole, args: []string{"--out-folder-path=mirror"}, wantErr: "only be used as output adapter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "sync"}
			cmd.SetContext(context.Background())
			adapter := &FolderAdapter{Role: tt.role}
			adapter.AddCommandParams(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			err := adapter.ParseAndValidateParams(cmd)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &FolderConfig{FolderPath: "mirror", Overwrite: true}, adapter.Config)
		})
	}
}

func TestMirrorKeepsExistingFiles(t *testing.T) {
	files := writeReports(t, "ort-cli_NPM-lodash@1.0.xml", "ort-license-text_NPM-lodash@1.0.txt")
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "ort-cli_NPM-lodash@1.0.xml"), []byte("old"), 0o644))

	adapter := &FolderAdapter{Role: types.OutputAdapterRole, Config: &FolderConfig{FolderPath: target}}
	copied, failed, err := adapter.Mirror(*tcontext.NewSyncMetadata(context.Background()), files)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)
	assert.Equal(t, 0, failed)

	kept, err := os.ReadFile(filepath.Join(target, "ort-cli_NPM-lodash@1.0.xml"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(kept))
	assert.FileExists(t, filepath.Join(target, "ort-license-text_NPM-lodash@1.0.txt"))
}

func TestMirrorOverwrite(t *testing.T) {
	files := writeReports(t, "ort-cli_NPM-lodash@1.0.xml")
	target := filepath.Join(t.TempDir(), "nested")
	missing := filepath.Join(t.TempDir(), "gone.zip")

	adapter := &FolderAdapter{Role: types.OutputAdapterRole, Config: &FolderConfig{FolderPath: target, Overwrite: true}}
	copied, failed, err := adapter.Mirror(*tcontext.NewSyncMetadata(context.Background()), append(files, missing))
	require.NoError(t, err)
	assert.Equal(t, 1, copied)
	assert.Equal(t, 1, failed)

	data, err := os.ReadFile(filepath.Join(target, "ort-cli_NPM-lodash@1.0.xml"))
	require.NoError(t, err)
	assert.Equal(t, "new ort-cli_NPM-lodash@1.0.xml", string(data))
}

func TestDryRun(t *testing.T) {
	var out bytes.Buffer
	reporter := &FolderReporter{folderPath: "mirror", out: &out}
	reporter.DryRun(*tcontext.NewSyncMetadata(context.Background()), []string{"/tmp/reports/a.xml"})

	assert.Contains(t, out.String(), filepath.Join("mirror", "a.xml"))
	assert.Contains(t, out.String(), "Total files: 1")
}
