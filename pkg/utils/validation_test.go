package utils

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viveksahu26/sw360sync/pkg/types"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "sync"}
	cmd.Flags().String("in-folder-path", "", "")
	cmd.Flags().String("in-s3-bucket-name", "", "")
	cmd.Flags().String("out-s3-prefix", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestFlagValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		adapter types.AdapterType
		prefix  types.FlagPrefix
		wantErr string
	}{
		{"matching input flags", []string{"--in-folder-path=x"}, types.FolderAdapterType, types.InputAdapterFlagPrefix, ""},
		{"other prefix ignored", []string{"--in-folder-path=x", "--out-s3-prefix=p"}, types.FolderAdapterType, types.InputAdapterFlagPrefix, ""},
		{"foreign input flag", []string{"--in-s3-bucket-name=b"}, types.FolderAdapterType, types.InputAdapterFlagPrefix, "--in-s3-bucket-name is invalid for input adapter folder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidation(newCommand(t, tt.args...), tt.adapter, tt.prefix)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://sw360.example.org/resource/api"))
	assert.True(t, IsValidURL("http://localhost:8080"))
	assert.False(t, IsValidURL("ftp://example.org"))
	assert.False(t, IsValidURL("sw360.example.org"))
	assert.False(t, IsValidURL("https://"))
}
