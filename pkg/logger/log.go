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

// Package logger carries a zap SugaredLogger through contexts.
package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.SugaredLogger

type contextKey struct{}

// InitLogger sets the process logger. Debug enables the debug level and
// caller stack traces; jsonFormat switches from the coloured console
// encoder to JSON.
func InitLogger(debug bool, jsonFormat bool) {
	if logger != nil {
		panic("logger already initialized")
	}
	l, err := New(debug, jsonFormat)
	if err != nil {
		panic(err)
	}
	logger = l
}

// New builds a logger writing to stderr, so that dry-run previews on stdout
// stay readable.
func New(debug bool, jsonFormat bool) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config = zap.NewDevelopmentConfig()
	}

	config.Encoding = "console"
	config.EncoderConfig = encoderConfig(jsonFormat)
	if jsonFormat {
		config.Encoding = "json"
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l.Sugar(), nil
}

func encoderConfig(jsonFormat bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if jsonFormat {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return cfg
}

// WithLogger attaches the process logger to the context.
func WithLogger(ctx context.Context) context.Context {
	return NewContext(ctx, logger)
}

// NewContext attaches l to the context. A nil l leaves ctx unchanged.
func NewContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the context's logger, or a no-op logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok {
		return l
	}
	return zap.NewNop().Sugar()
}

func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// LogError logs msg with the error appended under the "error" key.
func LogError(ctx context.Context, err error, msg string, keysAndValues ...interface{}) {
	if err != nil {
		keysAndValues = append(keysAndValues, "error", err)
	}
	FromContext(ctx).Errorw(msg, keysAndValues...)
}

func LogDebug(ctx context.Context, msg string, keysAndValues ...interface{}) {
	FromContext(ctx).Debugw(msg, keysAndValues...)
}

func LogInfo(ctx context.Context, msg string, keysAndValues ...interface{}) {
	FromContext(ctx).Infow(msg, keysAndValues...)
}

// LogWarn logs conditions that skip work without failing the run.
func LogWarn(ctx context.Context, msg string, keysAndValues ...interface{}) {
	FromContext(ctx).Warnw(msg, keysAndValues...)
}

// DeinitLogger syncs and drops the process logger.
func DeinitLogger() {
	Sync()
	logger = nil
}
