// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/themeadbrewer/williamson/batch"
)

func TestRunExecutesAllJobs(t *testing.T) {
	p := batch.New(2)
	var count int32
	jobs := make([]batch.Job, 20)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}
	}
	require.NoError(t, p.Run(context.Background(), jobs))
	require.EqualValues(t, 20, count)
}

func TestRunReturnsFirstError(t *testing.T) {
	p := batch.New(4)
	boom := errors.New("boom")
	jobs := []batch.Job{
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { return nil },
	}
	err := p.Run(context.Background(), jobs)
	require.ErrorIs(t, err, boom)
}

func TestRunHonorsParallelismLimit(t *testing.T) {
	p := batch.New(1)
	var inFlight, maxSeen int32
	jobs := make([]batch.Job, 10)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			n := atomic.AddInt32(&inFlight, 1)
			if n > atomic.LoadInt32(&maxSeen) {
				atomic.StoreInt32(&maxSeen, n)
			}
			atomic.AddInt32(&inFlight, -1)
			return nil
		}
	}
	require.NoError(t, p.Run(context.Background(), jobs))
	require.LessOrEqual(t, maxSeen, int32(1))
}

func TestRunWithNoJobs(t *testing.T) {
	p := batch.New(0)
	require.NoError(t, p.Run(context.Background(), nil))
}
