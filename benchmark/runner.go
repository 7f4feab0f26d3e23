/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package benchmark

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/tomoncle/repobench/database"
)

const (
	DefaultWarmup     = 3
	DefaultIterations = 100
)

// Case is one measured operation.
type Case struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Suite groups cases sharing one setup.
type Suite interface {
	Name() string
	Setup(ctx context.Context) error
	Cases() []Case
	Teardown() error
}

// Result holds the statistics of one case. Latencies are per call;
// allocations are averaged over the measured iterations.
type Result struct {
	Suite       string
	Case        string
	Iterations  int
	Mean        time.Duration
	Variance    float64 // ns^2
	StdDev      time.Duration
	Min         time.Duration
	Max         time.Duration
	AllocsPerOp uint64
	BytesPerOp  uint64
	Err         error
}

// Runner executes suites sequentially.
type Runner struct {
	Warmup     int
	Iterations int
	// Out receives one progress line per case; nil disables progress.
	Out    io.Writer
	logger database.Logger
}

func NewRunner(warmup, iterations int, out io.Writer) *Runner {
	return &Runner{
		Warmup:     warmup,
		Iterations: iterations,
		Out:        out,
		logger:     database.GetLogger(),
	}
}

// Run sets the suite up, measures every case and tears the suite down. A
// failing case is recorded in its Result and does not stop the other cases.
func (r *Runner) Run(ctx context.Context, suite Suite) (results []Result, err error) {
	if err := suite.Setup(ctx); err != nil {
		return nil, fmt.Errorf("setup %s: %w", suite.Name(), err)
	}
	defer func() {
		if terr := suite.Teardown(); terr != nil && err == nil {
			err = fmt.Errorf("teardown %s: %w", suite.Name(), terr)
		}
	}()

	for _, c := range suite.Cases() {
		res := r.measure(ctx, c)
		res.Suite = suite.Name()
		if res.Err != nil && r.logger != nil {
			r.logger.Error("Benchmark case failed", "suite", res.Suite, "case", res.Case, "error", res.Err)
		}
		if r.Out != nil {
			_, _ = fmt.Fprintf(r.Out, "%s/%s: %d iterations, mean %s\n", res.Suite, res.Case, res.Iterations, res.Mean)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) measure(ctx context.Context, c Case) Result {
	res := Result{Case: c.Name}
	for i := 0; i < r.Warmup; i++ {
		if err := c.Fn(ctx); err != nil {
			res.Err = fmt.Errorf("warm-up: %w", err)
			return res
		}
	}

	samples := make([]time.Duration, 0, r.Iterations)
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	for i := 0; i < r.Iterations; i++ {
		start := time.Now()
		err := c.Fn(ctx)
		samples = append(samples, time.Since(start))
		if err != nil {
			res.Err = err
			break
		}
	}
	runtime.ReadMemStats(&after)

	res.Iterations = len(samples)
	if res.Iterations > 0 {
		n := uint64(res.Iterations)
		res.AllocsPerOp = (after.Mallocs - before.Mallocs) / n
		res.BytesPerOp = (after.TotalAlloc - before.TotalAlloc) / n
	}
	summarize(&res, samples)
	return res
}

func summarize(res *Result, samples []time.Duration) {
	if len(samples) == 0 {
		return
	}
	var sum float64
	res.Min, res.Max = samples[0], samples[0]
	for _, s := range samples {
		sum += float64(s)
		res.Min = min(res.Min, s)
		res.Max = max(res.Max, s)
	}
	mean := sum / float64(len(samples))
	var sq float64
	for _, s := range samples {
		d := float64(s) - mean
		sq += d * d
	}
	res.Mean = time.Duration(mean)
	res.Variance = sq / float64(len(samples))
	res.StdDev = time.Duration(math.Sqrt(res.Variance))
}
