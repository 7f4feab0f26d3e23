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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/repobench/database"
)

type fakeSuite struct {
	setups, teardowns int
	calls             map[string]int
	failAfter         int
}

func (s *fakeSuite) Name() string { return "Fake" }

func (s *fakeSuite) Setup(context.Context) error {
	s.setups++
	s.calls = map[string]int{}
	return nil
}

func (s *fakeSuite) Cases() []Case {
	return []Case{
		{Name: "ok", Fn: func(context.Context) error {
			s.calls["ok"]++
			return nil
		}},
		{Name: "flaky", Fn: func(context.Context) error {
			s.calls["flaky"]++
			if s.calls["flaky"] > s.failAfter {
				return errors.New("store went away")
			}
			return nil
		}},
	}
}

func (s *fakeSuite) Teardown() error {
	s.teardowns++
	return nil
}

func newTestRunner(warmup, iterations int) *Runner {
	r := NewRunner(warmup, iterations, nil)
	r.logger = database.NopLogger{}
	return r
}

func TestRunner_WarmupAndIterations(t *testing.T) {
	suite := &fakeSuite{failAfter: 1 << 20}
	results, err := newTestRunner(2, 5).Run(context.Background(), suite)
	require.NoError(t, err)

	assert.Equal(t, 1, suite.setups)
	assert.Equal(t, 1, suite.teardowns)
	assert.Equal(t, 7, suite.calls["ok"])
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "Fake", r.Suite)
		assert.Equal(t, 5, r.Iterations)
		assert.NoError(t, r.Err)
		assert.LessOrEqual(t, r.Min, r.Mean)
		assert.LessOrEqual(t, r.Mean, r.Max)
	}
}

func TestRunner_FaultAbortsOnlyItsCase(t *testing.T) {
	suite := &fakeSuite{failAfter: 4}
	results, err := newTestRunner(1, 10).Run(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	assert.EqualError(t, results[1].Err, "store went away")
	assert.Equal(t, 4, results[1].Iterations)
	assert.Equal(t, 5, suite.calls["flaky"])
	assert.Equal(t, 1, suite.teardowns)

	suite = &fakeSuite{failAfter: 0}
	results, err = newTestRunner(1, 10).Run(context.Background(), suite)
	require.NoError(t, err)
	assert.ErrorContains(t, results[1].Err, "warm-up")
	assert.Zero(t, results[1].Iterations)
}

func TestSummarize(t *testing.T) {
	var r Result
	summarize(&r, []time.Duration{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, time.Duration(5), r.Mean)
	assert.InDelta(t, 4.0, r.Variance, 1e-9)
	assert.Equal(t, time.Duration(2), r.StdDev)
	assert.Equal(t, time.Duration(2), r.Min)
	assert.Equal(t, time.Duration(9), r.Max)

	var empty Result
	summarize(&empty, nil)
	assert.Zero(t, empty.Mean)
}

func TestWriteReport(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	results := []Result{
		{Suite: "PersonLookup", Case: "FirstOrDefaultWithoutCachedSet", Iterations: 10, Mean: 200 * time.Microsecond, AllocsPerOp: 90},
		{Suite: "PersonLookup", Case: "FirstOrDefaultWithCachedSet", Iterations: 10, Mean: 150 * time.Microsecond, AllocsPerOp: 80},
		{Suite: "CorrelatedQuery", Case: "GetAllData", Iterations: 3, Err: errors.New("no such table: address")},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, results))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "== PersonLookup ==\n"), out)
	assert.Contains(t, out, "FirstOrDefaultWithCachedSet: 0.75x of FirstOrDefaultWithoutCachedSet")
	assert.Contains(t, out, "== CorrelatedQuery ==")
	assert.Contains(t, out, "failed: no such table: address")
	assert.Less(t, strings.Index(out, "PersonLookup"), strings.Index(out, "CorrelatedQuery"))
}
