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

package database

import (
	"context"
	"database/sql"
	"errors"
	"slices"

	"github.com/tomoncle/repobench/types"
	"github.com/uptrace/bun"
)

// Query is a deferred query definition over one entity set. Builder methods
// return a new Query and never touch the store; only ToList, First, Count
// and Page issue a round trip. A Query can be materialized any number of
// times and re-runs each time.
type Query[T any] struct {
	set     *EntitySet[T]
	filters []*types.QueryFilter
	orders  []string
	limit   int
	offset  int
	tag     string
}

func (q *Query[T]) clone() *Query[T] {
	c := *q
	c.filters = slices.Clone(q.filters)
	c.orders = slices.Clone(q.orders)
	return &c
}

// Where adds a predicate; predicates are joined with AND.
func (q *Query[T]) Where(filter *types.QueryFilter) *Query[T] {
	if filter == nil {
		return q
	}
	c := q.clone()
	c.filters = append(c.filters, filter)
	return c
}

// Order appends ordering terms such as "last_name DESC".
func (q *Query[T]) Order(orders ...string) *Query[T] {
	if len(orders) == 0 {
		return q
	}
	c := q.clone()
	c.orders = append(c.orders, orders...)
	return c
}

func (q *Query[T]) Limit(n int) *Query[T] {
	c := q.clone()
	c.limit = n
	return c
}

func (q *Query[T]) Offset(n int) *Query[T] {
	c := q.clone()
	c.offset = n
	return c
}

// Tag labels the query for diagnostics. See WithQueryTag.
func (q *Query[T]) Tag(label string) *Query[T] {
	c := q.clone()
	c.tag = label
	return c
}

// Filter returns the combined predicate, or nil for an unfiltered query.
func (q *Query[T]) Filter() *types.QueryFilter {
	return types.And(q.filters...)
}

func (q *Query[T]) where(sel *bun.SelectQuery) *bun.SelectQuery {
	for _, f := range q.filters {
		sel = sel.Where(f.Schema, f.Args...)
	}
	return sel
}

func (q *Query[T]) build(model interface{}) *bun.SelectQuery {
	sel := q.where(q.set.dc.DB().NewSelect().Model(model))
	if len(q.orders) > 0 {
		sel = sel.Order(q.orders...)
	}
	if q.limit > 0 {
		sel = sel.Limit(q.limit)
	}
	if q.offset > 0 {
		sel = sel.Offset(q.offset)
	}
	return sel
}

func (q *Query[T]) context(ctx context.Context) context.Context {
	return WithQueryTag(ctx, q.tag)
}

// ToList materializes the query. Entities already tracked by the session
// are returned as the tracked instances.
func (q *Query[T]) ToList(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	if err := q.build(&entities).Scan(q.context(ctx)); err != nil {
		return nil, NewQueryFailure("select", q.set.Name(), err)
	}
	for i, e := range entities {
		entities[i] = q.set.attach(e)
	}
	return entities, nil
}

// First returns the first match, or nil when nothing matches. Without an
// Order the choice among several matches is up to the store.
func (q *Query[T]) First(ctx context.Context) (*T, error) {
	entity := new(T)
	err := q.build(entity).Limit(1).Scan(q.context(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, NewQueryFailure("first", q.set.Name(), err)
	}
	return q.set.attach(entity), nil
}

// Count returns the number of matching rows, ignoring order, limit and offset.
func (q *Query[T]) Count(ctx context.Context) (int, error) {
	n, err := q.where(q.set.dc.DB().NewSelect().Model((*T)(nil))).Count(q.context(ctx))
	if err != nil {
		return 0, NewQueryFailure("count", q.set.Name(), err)
	}
	return n, nil
}

// Page materializes one page of the query narrowed by the request's filter
// and ordering.
func (q *Query[T]) Page(ctx context.Context, req *types.PageRequest) (*types.Pagination[T], error) {
	narrowed := q.Where(req.GetFilter()).Order(req.GetOrders()...)
	pagination := types.NewDefaultPagination[T](req.GetPage(), req.GetPageSize())
	total, err := narrowed.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	items, err := narrowed.Offset(req.GetOffset()).Limit(req.GetPageSize()).ToList(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}
