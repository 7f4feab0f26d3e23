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

package repository

import (
	"context"

	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/types"
)

// CachedRepository resolves the entity set once, at construction, and
// reuses it for the repository's lifetime. Unlike GenericRepository it also
// flushes the bound context.
type CachedRepository[T any] struct {
	dc  database.Context
	set *database.EntitySet[T]
}

var (
	_ Repository[struct{}] = (*CachedRepository[struct{}])(nil)
	_ Flusher              = (*CachedRepository[struct{}])(nil)
)

// NewCachedRepository returns a repository bound to dc with its entity set
// already resolved.
func NewCachedRepository[T any](dc database.Context) *CachedRepository[T] {
	return &CachedRepository[T]{
		dc:  dc,
		set: database.Set[T](dc),
	}
}

func (r *CachedRepository[T]) Context() database.Context { return r.dc }

func (r *CachedRepository[T]) Add(entity *T) {
	r.set.Add(entity)
}

func (r *CachedRepository[T]) AddContext(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.set.Add(entity)
	return nil
}

func (r *CachedRepository[T]) AddRange(ctx context.Context, entities []*T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.set.AddRange(entities)
	return nil
}

func (r *CachedRepository[T]) Find(filter *types.QueryFilter) *database.Query[T] {
	return r.set.Where(filter)
}

func (r *CachedRepository[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.set.ToList(ctx)
}

func (r *CachedRepository[T]) GetByID(ctx context.Context, id any) (*T, error) {
	return r.set.Find(ctx, id)
}

func (r *CachedRepository[T]) Remove(entity *T) {
	r.set.Remove(entity)
}

func (r *CachedRepository[T]) RemoveRange(entities []*T) {
	r.set.RemoveRange(entities)
}

func (r *CachedRepository[T]) FirstOrDefault(ctx context.Context, filter *types.QueryFilter) (*T, error) {
	return r.set.FirstOrDefault(ctx, filter)
}

func (r *CachedRepository[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	return r.set.Query().Page(ctx, pageRequest)
}

// SaveChanges persists everything staged on the bound context, including
// changes staged through other repositories sharing it.
func (r *CachedRepository[T]) SaveChanges(ctx context.Context) (int, error) {
	return r.dc.SaveChanges(ctx)
}
