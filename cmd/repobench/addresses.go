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
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tomoncle/repobench/repository"
)

func newAddressesCommand(out io.Writer, opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Print every address",
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := opts.openFactory(cmd.Context(), out)
			if err != nil {
				return err
			}
			defer func() { _ = factory.Close() }()

			addresses, err := repository.NewCorrelatedRepository(factory, factory.Logger()).GetAllData(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(addresses)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLine1\tCity\tPostalCode\t")
			for _, a := range addresses {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", a.AddressID, a.AddressLine1, a.City, a.PostalCode)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print addresses as JSON")
	return cmd
}
