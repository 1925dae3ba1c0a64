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

package attachment

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Throttle delays the processing of the next package. It returns the
// context error when interrupted.
type Throttle func(ctx context.Context) error

// RandomThrottle sleeps a whole number of seconds between 1 and maxSeconds.
func RandomThrottle(maxSeconds int) Throttle {
	if maxSeconds < 1 {
		maxSeconds = 1
	}
	return func(ctx context.Context) error {
		delay := time.Duration(rand.Intn(maxSeconds)+1) * time.Second
		return sleep(ctx, delay)
	}
}

// NoThrottle returns immediately unless ctx is already done.
func NoThrottle(ctx context.Context) error {
	return ctx.Err()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interrupter cuts short the throttle wait of the package in progress.
// Only that package is aborted; the run context is left alone.
type Interrupter struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewInterrupter() *Interrupter {
	return &Interrupter{}
}

// Interrupt aborts the wait in progress. It reports false when no package
// is waiting.
func (i *Interrupter) Interrupt() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cancel == nil {
		return false
	}
	i.cancel()
	i.cancel = nil
	return true
}

// wait runs throttle on a child of ctx that Interrupt can cancel.
func (i *Interrupter) wait(ctx context.Context, throttle Throttle) error {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	i.mu.Lock()
	i.cancel = cancel
	i.mu.Unlock()

	err := throttle(waitCtx)

	i.mu.Lock()
	i.cancel = nil
	i.mu.Unlock()
	return err
}
