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

import "context"

// Keys stored in SyncMetadata by the engine.
const (
	SourceKey    = "source"
	MirrorKey    = "mirror"
	InputPathKey = "input"
)

// SyncMetadata carries the run context together with values that later
// stages read back, such as the chosen adapters.
type SyncMetadata struct {
	context.Context
	values map[string]interface{}
}

// WithValue adds a key-value pair to SyncMetadata
func (sm *SyncMetadata) WithValue(key string, value interface{}) {
	sm.values[key] = value
}

// Value retrieves a value stored with WithValue. Other keys are looked up
// in the wrapped context.
func (sm SyncMetadata) Value(key interface{}) interface{} {
	if k, ok := key.(string); ok {
		if v, ok := sm.values[k]; ok {
			return v
		}
	}
	return sm.Context.Value(key)
}

// String returns the value stored under key, or "" when unset.
func (sm SyncMetadata) String(key string) string {
	s, _ := sm.values[key].(string)
	return s
}

// NewSyncMetadata wraps ctx.
func NewSyncMetadata(ctx context.Context) *SyncMetadata {
	return &SyncMetadata{
		Context: ctx,
		values:  make(map[string]interface{}),
	}
}
