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

	"github.com/spf13/cobra"
	"github.com/tomoncle/repobench/benchmark"
)

func newSeedCommand(out io.Writer, opts *globalOptions) *cobra.Command {
	seedOpts := benchmark.DefaultSeedOptions()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and insert sample data",
		Example: "  repobench seed\n" +
			"  repobench seed --persons 50 --addresses 500 --sql-dir ./testdata/sql",
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := opts.openFactory(cmd.Context(), out)
			if err != nil {
				return err
			}
			defer func() { _ = factory.Close() }()

			summary, err := benchmark.Seed(cmd.Context(), factory, seedOpts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "persons=%d passwords=%d addresses=%d sql_files=%d\n",
				summary.Persons, summary.Passwords, summary.Addresses, summary.SQLFiles)
			return err
		},
	}
	cmd.Flags().IntVar(&seedOpts.Persons, "persons", seedOpts.Persons, "number of persons to insert")
	cmd.Flags().IntVar(&seedOpts.Addresses, "addresses", seedOpts.Addresses, "number of addresses to insert")
	cmd.Flags().BoolVar(&seedOpts.Reset, "reset", false, "drop and recreate the tables before seeding")
	cmd.Flags().StringVar(&seedOpts.SQLDir, "sql-dir", "", "directory of .sql files to run after seeding")
	return cmd
}
