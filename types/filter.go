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

package types

import (
	"strings"

	"github.com/uptrace/bun"
)

// QueryFilter is a predicate over entity columns expressed as a Bun WHERE
// clause. It is evaluated by the backing store, never in process memory.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// Eq matches rows whose column equals value.
func Eq(column string, value interface{}) *QueryFilter {
	return NewQueryFilter("? = ?", bun.Ident(column), value)
}

// In matches rows whose column is one of values.
func In(column string, values interface{}) *QueryFilter {
	return NewQueryFilter("? IN (?)", bun.Ident(column), bun.In(values))
}

// And joins filters with AND. Nil filters are skipped.
func And(filters ...*QueryFilter) *QueryFilter {
	var parts []string
	var args []interface{}
	for _, f := range filters {
		if f == nil || f.Schema == "" {
			continue
		}
		parts = append(parts, "("+f.Schema+")")
		args = append(args, f.Args...)
	}
	if len(parts) == 0 {
		return nil
	}
	return &QueryFilter{Schema: strings.Join(parts, " AND "), Args: args}
}

func (f *QueryFilter) String() string {
	if f == nil {
		return "<nil>"
	}
	return f.Schema
}
