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
	is3 "github.com/viveksahu26/sw360sync/pkg/source/s3"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/types"
	"github.com/viveksahu26/sw360sync/pkg/utils"
)

// S3Adapter mirrors the produced report files to a bucket.
type S3Adapter struct {
	Config *is3.S3Config
	Role   types.AdapterRole
	// Client overrides the client built from Config.
	Client is3.API
}

// AddCommandParams adds S3-specific CLI flags
func (s *S3Adapter) AddCommandParams(cmd *cobra.Command) {
	cmd.Flags().String("out-s3-bucket-name", "", "S3 bucket name")
	cmd.Flags().String("out-s3-region", "", "S3 region (default: us-east-1)")
	cmd.Flags().String("out-s3-prefix", "", "S3 prefix")
}

// ParseAndValidateParams validates the S3 mirror params
func (s *S3Adapter) ParseAndValidateParams(cmd *cobra.Command) error {
	var missingFlags []string

	if s.Role != types.OutputAdapterRole {
		return fmt.Errorf("the s3 mirror can only be used as output adapter")
	}

	err := utils.FlagValidation(cmd, types.S3AdapterType, types.OutputAdapterFlagPrefix)
	if err != nil {
		return fmt.Errorf("s3 flag validation failed: %w", err)
	}

	bucketName, _ := cmd.Flags().GetString("out-s3-bucket-name")
	if bucketName == "" {
		missingFlags = append(missingFlags, "--out-s3-bucket-name")
	}

	region, _ := cmd.Flags().GetString("out-s3-region")
	if region == "" {
		region = is3.DefaultRegion
	}

	// an empty prefix uploads into the bucket root
	prefix, _ := cmd.Flags().GetString("out-s3-prefix")

	if len(missingFlags) > 0 {
		return fmt.Errorf("missing flags: %s", strings.Join(missingFlags, ", "))
	}

	cfg := is3.NewS3Config()
	cfg.BucketName = bucketName
	cfg.Region = region
	cfg.Key = prefix
	cfg.AccessKey = viper.GetString("AWS_ACCESS_KEY_ID")
	cfg.SecretKey = viper.GetString("AWS_SECRET_ACCESS_KEY")
	s.Config = cfg

	return nil
}

// Mirror uploads files and returns how many were uploaded and how many
// failed. Only a client setup failure is returned as error.
func (s *S3Adapter) Mirror(ctx tcontext.SyncMetadata, files []string) (uploaded, failed int, err error) {
	client := s.Client
	if client == nil {
		c, err := s.Config.GetAWSClient(ctx.Context)
		if err != nil {
			return 0, len(files), err
		}
		client = c
	}
	return (&Uploader{Client: client}).Upload(ctx, s.Config, files)
}

// DryRun prints where the files would be mirrored.
func (s *S3Adapter) DryRun(ctx tcontext.SyncMetadata, files []string) {
	reporter := NewS3Reporter(s.Config.BucketName, s.Config.Key)
	reporter.DryRun(ctx, files)
}
