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
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/viveksahu26/sw360sync/pkg/logger"
)

const DefaultRegion = "us-east-1"

// API is the part of the S3 client used by the adapters.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	AccessKey  string
	SecretKey  string
	BucketName string
	Region     string
	// Key is an object key, or a prefix ending in "/" when reading.
	Key string
}

func NewS3Config() *S3Config {
	return &S3Config{Region: DefaultRegion}
}

// IsPrefix reports whether Key names a set of objects rather than one.
func (s *S3Config) IsPrefix() bool {
	return s.Key == "" || strings.HasSuffix(s.Key, "/")
}

// GetAWSClient builds an S3 client. Static credentials are used when both
// keys are set, the default credential chain otherwise.
func (s *S3Config) GetAWSClient(ctx context.Context) (*s3.Client, error) {
	logger.LogDebug(ctx, "Initializing AWS S3 client", "region", s.Region, "bucket", s.BucketName, "key", s.Key)

	var cfg aws.Config
	var err error
	if s.AccessKey != "" && s.SecretKey != "" {
		creds := aws.Credentials{
			AccessKeyID:     s.AccessKey,
			SecretAccessKey: s.SecretKey,
		}
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(s.Region),
			config.WithCredentialsProvider(aws.NewCredentialsCache(credentials.StaticCredentialsProvider{Value: creds})),
		)
	} else {
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(s.Region))
	}

	if err != nil {
		logger.LogError(ctx, err, "Failed to load AWS config")
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}
