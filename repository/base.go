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

// GenericRepository resolves the entity set from its context on every
// call. Persisting staged changes is left to the owner of the context.
type GenericRepository[T any] struct {
	dc database.Context
}

var _ Repository[struct{}] = (*GenericRepository[struct{}])(nil)

// NewRepository returns an uncached repository bound to dc.
func NewRepository[T any](dc database.Context) *GenericRepository[T] {
	return &GenericRepository[T]{dc: dc}
}

func (r *GenericRepository[T]) Context() database.Context { return r.dc }

func (r *GenericRepository[T]) set() *database.EntitySet[T] {
	return database.Set[T](r.dc)
}

func (r *GenericRepository[T]) Add(entity *T) {
	r.set().Add(entity)
}

// AddContext stages entity. It fails only when ctx is already done.
func (r *GenericRepository[T]) AddContext(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.set().Add(entity)
	return nil
}

// AddRange stages entities with a single set resolution.
func (r *GenericRepository[T]) AddRange(ctx context.Context, entities []*T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.set().AddRange(entities)
	return nil
}

// Find returns a deferred query; nothing runs until it is materialized.
func (r *GenericRepository[T]) Find(filter *types.QueryFilter) *database.Query[T] {
	return r.set().Where(filter)
}

func (r *GenericRepository[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.set().ToList(ctx)
}

// GetByID returns nil and no error when no row has the key.
func (r *GenericRepository[T]) GetByID(ctx context.Context, id any) (*T, error) {
	return r.set().Find(ctx, id)
}

func (r *GenericRepository[T]) Remove(entity *T) {
	r.set().Remove(entity)
}

func (r *GenericRepository[T]) RemoveRange(entities []*T) {
	r.set().RemoveRange(entities)
}

func (r *GenericRepository[T]) FirstOrDefault(ctx context.Context, filter *types.QueryFilter) (*T, error) {
	return r.set().FirstOrDefault(ctx, filter)
}

func (r *GenericRepository[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	return r.set().Query().Page(ctx, pageRequest)
}
