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

package iterator

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

func TestMemoryIterator(t *testing.T) {
	ctx := *tcontext.NewSyncMetadata(context.Background())
	it := NewMemoryIterator([]*Input{{Path: "a.json"}, {Path: "b.json"}})

	first, err := it.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a.json", first.Path)

	second, err := it.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b.json", second.Path)

	_, err = it.Next(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestChannelIterator(t *testing.T) {
	ch := make(chan *Input, 1)
	ch <- &Input{Path: "result.yml"}

	base, cancel := context.WithCancel(context.Background())
	ctx := *tcontext.NewSyncMetadata(base)
	it := NewChannelIterator(ch)

	got, err := it.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "result.yml", got.Path)

	cancel()
	_, err = it.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(ch)
	_, err = NewChannelIterator(ch).Next(*tcontext.NewSyncMetadata(context.Background()))
	assert.Equal(t, io.EOF, err)
}
