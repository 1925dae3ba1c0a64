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

// Package fakes3 is an in-memory bucket store for adapter tests.
package fakes3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client implements the GetObject, ListObjectsV2 and PutObject calls over
// a map of bucket/key to content.
type Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	// PageSize limits the keys per ListObjectsV2 page. Zero means all.
	PageSize int
	// FailPut makes PutObject fail for the keys it returns true for.
	FailPut func(key string) bool
}

func New() *Client {
	return &Client{objects: map[string][]byte{}}
}

func id(bucket, key string) string {
	return bucket + "/" + key
}

// Put stores an object.
func (c *Client) Put(bucket, key string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[id(bucket, key)] = content
}

// Object returns a stored object.
func (c *Client) Object(bucket, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	content, ok := c.objects[id(bucket, key)]
	return content, ok
}

// Keys returns the sorted keys of bucket.
func (c *Client) Keys(bucket string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []string
	for k := range c.objects {
		if strings.HasPrefix(k, bucket+"/") {
			keys = append(keys, strings.TrimPrefix(k, bucket+"/"))
		}
	}
	sort.Strings(keys)
	return keys
}

func (c *Client) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	content, ok := c.Object(aws.ToString(in.Bucket), aws.ToString(in.Key))
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("no such key: " + aws.ToString(in.Key))}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(content)),
		ContentLength: aws.Int64(int64(len(content))),
	}, nil
}

func (c *Client) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(in.Prefix)
	start := aws.ToString(in.ContinuationToken)

	var matching []string
	for _, k := range c.Keys(aws.ToString(in.Bucket)) {
		if strings.HasPrefix(k, prefix) && k > start {
			matching = append(matching, k)
		}
	}

	out := &s3.ListObjectsV2Output{Prefix: in.Prefix, IsTruncated: aws.Bool(false)}
	if c.PageSize > 0 && len(matching) > c.PageSize {
		matching = matching[:c.PageSize]
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(matching[len(matching)-1])
	}
	for _, k := range matching {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k)})
	}
	out.KeyCount = aws.Int32(int32(len(out.Contents)))
	return out, nil
}

func (c *Client) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if c.FailPut != nil && c.FailPut(key) {
		return nil, fmt.Errorf("access denied for %s", key)
	}
	content, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	c.Put(aws.ToString(in.Bucket), key, content)
	return &s3.PutObjectOutput{}, nil
}
