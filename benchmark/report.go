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
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

var headerColor = color.New(color.FgCyan, color.Bold)

// WriteReport renders results grouped by suite, followed by the mean of
// every case relative to the first case of its suite.
func WriteReport(w io.Writer, results []Result) error {
	for _, group := range groupBySuite(results) {
		if _, err := headerColor.Fprintf(w, "== %s ==\n", group[0].Suite); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Case\tN\tMean\tStdDev\tMin\tMax\tAllocs/op\tBytes/op\t")
		for _, r := range group {
			if r.Err != nil {
				fmt.Fprintf(tw, "%s\t%d\tfailed: %v\t\t\t\t\t\t\n", r.Case, r.Iterations, r.Err)
				continue
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%d\t%d\t\n",
				r.Case, r.Iterations, round(r.Mean), round(r.StdDev), round(r.Min), round(r.Max), r.AllocsPerOp, r.BytesPerOp)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		base := group[0]
		for _, r := range group[1:] {
			if base.Mean <= 0 || r.Err != nil || base.Err != nil {
				continue
			}
			fmt.Fprintf(w, "%s: %.2fx of %s\n", r.Case, float64(r.Mean)/float64(base.Mean), base.Case)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func groupBySuite(results []Result) [][]Result {
	var groups [][]Result
	index := make(map[string]int)
	for _, r := range results {
		i, ok := index[r.Suite]
		if !ok {
			i = len(groups)
			index[r.Suite] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}
	return groups
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Millisecond:
		return d.Round(time.Microsecond)
	case d > time.Microsecond:
		return d.Round(10 * time.Nanosecond)
	default:
		return d
	}
}
