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
	"github.com/tomoncle/repobench/model"
	"github.com/tomoncle/repobench/types"
)

// PersonLookup fetches the person with model.DefaultPersonID.
type PersonLookup interface {
	GetPerson(ctx context.Context) (*model.Person, error)
}

var defaultPersonFilter = types.Eq("business_entity_id", model.DefaultPersonID)

// PersonRepository is the uncached person repository.
type PersonRepository struct {
	*GenericRepository[model.Person]
}

func NewPersonRepository(dc database.Context) *PersonRepository {
	return &PersonRepository{GenericRepository: NewRepository[model.Person](dc)}
}

func (r *PersonRepository) GetPerson(ctx context.Context) (*model.Person, error) {
	return r.FirstOrDefault(ctx, defaultPersonFilter)
}

// CachedPersonRepository is the person repository with a cached entity set.
type CachedPersonRepository struct {
	*CachedRepository[model.Person]
}

func NewCachedPersonRepository(dc database.Context) *CachedPersonRepository {
	return &CachedPersonRepository{CachedRepository: NewCachedRepository[model.Person](dc)}
}

func (r *CachedPersonRepository) GetPerson(ctx context.Context) (*model.Person, error) {
	return r.FirstOrDefault(ctx, defaultPersonFilter)
}

var (
	_ PersonLookup = (*PersonRepository)(nil)
	_ PersonLookup = (*CachedPersonRepository)(nil)
)
