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

package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := NewContext(context.Background(), zap.New(core).Sugar())

	LogDebug(ctx, "debug", "k", 1)
	LogInfo(ctx, "info")
	LogWarn(ctx, "warn")
	LogError(ctx, errors.New("boom"), "error", "name", "lodash")

	require.Equal(t, 4, logs.Len())
	entry := logs.FilterLevelExact(zapcore.ErrorLevel).All()[0]
	assert.Equal(t, "error", entry.Message)
	assert.Equal(t, "lodash", entry.ContextMap()["name"])
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestFromContextWithoutLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Equal(t, context.Background(), NewContext(context.Background(), nil))

	LogInfo(context.Background(), "dropped")
}

func TestInitLogger(t *testing.T) {
	InitLogger(true, true)
	defer DeinitLogger()

	assert.NotNil(t, FromContext(WithLogger(context.Background())))
	assert.Panics(t, func() { InitLogger(false, false) })
}
