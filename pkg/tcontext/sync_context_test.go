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

package tcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type parentKey struct{}

func TestSyncMetadataValues(t *testing.T) {
	parent := context.WithValue(context.Background(), parentKey{}, "from parent")
	sm := NewSyncMetadata(parent)
	sm.WithValue(SourceKey, "folder")

	assert.Equal(t, "folder", sm.Value(SourceKey))
	assert.Equal(t, "folder", sm.String(SourceKey))
	assert.Equal(t, "", sm.String(MirrorKey))
	assert.Equal(t, "from parent", sm.Value(parentKey{}))

	var ctx context.Context = *sm
	assert.Equal(t, "from parent", ctx.Value(parentKey{}))
}
