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

package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"github.com/tomoncle/repobench/benchmark"
)

func newRunCommand(out io.Writer, opts *globalOptions) *cobra.Command {
	var warmup, iterations int
	cmd := &cobra.Command{
		Use:   "run [suite...]",
		Short: "Run the benchmark suites and print a report",
		Example: "  repobench run\n" +
			"  repobench run PersonLookup --iterations 500",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.connectionConfig()
			if err != nil {
				return err
			}
			only := args
			build := benchmark.ConfigContainer(cfg, opts.factoryOptions(out)...)
			runner := benchmark.NewRunner(warmup, iterations, cmd.ErrOrStderr())

			var results []benchmark.Result
			for _, suite := range benchmark.Suites(build) {
				if len(only) > 0 && !slices.Contains(only, suite.Name()) {
					continue
				}
				res, err := runner.Run(cmd.Context(), suite)
				if err != nil {
					return err
				}
				results = append(results, res...)
			}
			if len(results) == 0 {
				return fmt.Errorf("no suite matched %v", only)
			}
			return benchmark.WriteReport(out, results)
		},
	}
	cmd.Flags().IntVar(&warmup, "warmup", benchmark.DefaultWarmup, "unmeasured calls per case")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", benchmark.DefaultIterations, "measured calls per case")
	return cmd
}

func newListCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the benchmark suites and their cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, suite := range benchmark.Suites(nil) {
				if _, err := fmt.Fprintln(out, suite.Name()); err != nil {
					return err
				}
				for _, c := range suite.Cases() {
					if _, err := fmt.Fprintf(out, "  %s\n", c.Name); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}
