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

// CrudRepository stages changes and reads entities of one type.
type CrudRepository[T any] interface {
	Add(entity *T)

	AddContext(ctx context.Context, entity *T) error

	AddRange(ctx context.Context, entities []*T) error

	Find(filter *types.QueryFilter) *database.Query[T]

	GetAll(ctx context.Context) ([]*T, error)

	GetByID(ctx context.Context, id any) (*T, error)

	Remove(entity *T)

	RemoveRange(entities []*T)

	FirstOrDefault(ctx context.Context, filter *types.QueryFilter) (*T, error)
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository is the surface shared by the cached and uncached variants.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	Context() database.Context
}

// Flusher persists the staged changes of the bound context.
type Flusher interface {
	SaveChanges(ctx context.Context) (int, error)
}
