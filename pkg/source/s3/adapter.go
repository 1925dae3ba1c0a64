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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/types"
	"github.com/viveksahu26/sw360sync/pkg/utils"
)

// S3Adapter reads analysis results from an S3 bucket.
type S3Adapter struct {
	Config *S3Config
	Role   types.AdapterRole
	// Client overrides the client built from Config.
	Client API
}

// AddCommandParams adds S3-specific CLI flags
func (s *S3Adapter) AddCommandParams(cmd *cobra.Command) {
	cmd.Flags().String("in-s3-bucket-name", "", "S3 bucket name")
	cmd.Flags().String("in-s3-key", "", "Object key of the result, or a prefix ending in /")
	cmd.Flags().String("in-s3-region", "", "S3 region (default: us-east-1)")
}

// ParseAndValidateParams validates the S3 adapter params. Credentials are
// read from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
func (s *S3Adapter) ParseAndValidateParams(cmd *cobra.Command) error {
	var missingFlags []string

	if s.Role != types.InputAdapterRole {
		return fmt.Errorf("the s3 input adapter can only be used as input adapter")
	}

	if err := utils.FlagValidation(cmd, types.S3AdapterType, types.InputAdapterFlagPrefix); err != nil {
		return fmt.Errorf("s3 flag validation failed: %w", err)
	}

	bucketName, _ := cmd.Flags().GetString("in-s3-bucket-name")
	if bucketName == "" {
		missingFlags = append(missingFlags, "--in-s3-bucket-name")
	}

	key, _ := cmd.Flags().GetString("in-s3-key")

	region, _ := cmd.Flags().GetString("in-s3-region")
	if region == "" {
		region = DefaultRegion
	}

	if len(missingFlags) > 0 {
		return fmt.Errorf("missing input adapter required flags: %s\n\nUse 'sw360sync sync --help' for usage details", strings.Join(missingFlags, ", "))
	}

	cfg := NewS3Config()
	cfg.BucketName = bucketName
	cfg.Key = key
	cfg.Region = region
	cfg.AccessKey = viper.GetString("AWS_ACCESS_KEY_ID")
	cfg.SecretKey = viper.GetString("AWS_SECRET_ACCESS_KEY")
	s.Config = cfg

	return nil
}

// FetchInputs downloads the configured object or prefix.
func (s *S3Adapter) FetchInputs(ctx tcontext.SyncMetadata) (iterator.InputIterator, error) {
	client := s.Client
	if client == nil {
		c, err := s.Config.GetAWSClient(ctx.Context)
		if err != nil {
			return nil, err
		}
		client = c
	}
	logger.LogDebug(ctx.Context, "Fetching analysis results from S3", "bucket", s.Config.BucketName, "key", s.Config.Key)
	return (&Fetcher{Client: client}).Fetch(ctx, s.Config)
}

// DryRun lists the objects read by the adapter.
func (s *S3Adapter) DryRun(ctx tcontext.SyncMetadata, iter iterator.InputIterator) error {
	reporter := NewS3Reporter(s.Config.BucketName, s.Config.Key)
	return reporter.DryRun(ctx, iter)
}
