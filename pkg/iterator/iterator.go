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
	"io"

	"github.com/viveksahu26/sw360sync/pkg/tcontext"
)

// Input is one analysis result handed over by an input adapter.
type Input struct {
	Path   string // file name or object key
	Data   []byte
	Source string // folder path or s3://bucket, for reporting
}

// InputIterator yields inputs one by one. io.EOF ends the stream; in
// daemon mode the stream ends when the context is done.
type InputIterator interface {
	Next(ctx tcontext.SyncMetadata) (*Input, error)
}

// MemoryIterator is an iterator over a preloaded slice of inputs.
type MemoryIterator struct {
	inputs []*Input
	index  int
}

// NewMemoryIterator creates a new MemoryIterator from a slice of inputs.
func NewMemoryIterator(inputs []*Input) *MemoryIterator {
	return &MemoryIterator{inputs: inputs}
}

// Next retrieves the next input in memory.
func (it *MemoryIterator) Next(ctx tcontext.SyncMetadata) (*Input, error) {
	if it.index >= len(it.inputs) {
		return nil, io.EOF
	}

	input := it.inputs[it.index]
	it.index++
	return input, nil
}

// ChannelIterator yields inputs pushed by a producer such as a file
// watcher. A closed channel ends the stream.
type ChannelIterator struct {
	inputs <-chan *Input
}

func NewChannelIterator(inputs <-chan *Input) *ChannelIterator {
	return &ChannelIterator{inputs: inputs}
}

func (it *ChannelIterator) Next(ctx tcontext.SyncMetadata) (*Input, error) {
	select {
	case input, ok := <-it.inputs:
		if !ok {
			return nil, io.EOF
		}
		return input, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
