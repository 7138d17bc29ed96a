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

// Package batch implements the bounded-parallelism, shared-lexicon job
// model of spec §5: many independent encode or decode jobs, each
// single-threaded and owning its own buffers, run across a worker limit
// while sharing one read-only lexicon by reference. It is grounded on
// protocompile's Compiler.Compile / executor, which schedules many
// independent per-file compilation tasks behind a weighted semaphore;
// Pool keeps that shape but drops everything specific to dependency
// graphs, since encode/decode jobs here have no cross-job dependencies
// to invalidate or cycle-check.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs jobs with bounded parallelism. A zero Pool is not usable;
// construct one with New.
type Pool struct {
	maxParallelism int
}

// New builds a Pool that runs at most maxParallelism jobs at once. A
// value ≤ 0 defaults to GOMAXPROCS, capped at NumCPU, matching
// protocompile's Compiler.MaxParallelism default.
func New(maxParallelism int) *Pool {
	par := maxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}
	return &Pool{maxParallelism: par}
}

// Job is one unit of work submitted to a Pool: typically a closure over
// an Encoder/Decoder pair and its own atom/output buffers (spec §5:
// "each owning its own atom and output buffers").
type Job func(ctx context.Context) error

// Run executes jobs with no more than the pool's configured
// parallelism running at once. It returns the first error encountered.
// Every job is started, even after a failure or after ctx is canceled;
// the context each job receives is canceled as soon as ctx is canceled
// or any job returns an error, and it is up to the job to check it.
//
// Run blocks until every job has returned.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxParallelism)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return job(gctx)
		})
	}
	return g.Wait()
}
