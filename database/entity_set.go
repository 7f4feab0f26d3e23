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
	"fmt"
	"reflect"

	"github.com/tomoncle/repobench/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// EntitySet is the queryable and stageable view of one entity type inside a
// session. Staging methods never touch the store.
type EntitySet[T any] struct {
	dc    Context
	table *schema.Table
	pk    *schema.Field
}

// Set resolves the entity set for T. Each call performs a type lookup in the
// dialect's table registry and allocates a new view. It panics when T is not
// a Bun model with exactly one primary key column.
func Set[T any](dc Context) *EntitySet[T] {
	typ := reflect.TypeFor[T]()
	table := dc.DB().Dialect().Tables().Get(typ)
	if len(table.PKs) != 1 {
		panic(fmt.Sprintf("database: %s must declare exactly one primary key, has %d", typ, len(table.PKs)))
	}
	return &EntitySet[T]{dc: dc, table: table, pk: table.PKs[0]}
}

// Context returns the session the set is bound to.
func (s *EntitySet[T]) Context() Context { return s.dc }

// Table returns the Bun table metadata of T.
func (s *EntitySet[T]) Table() *schema.Table { return s.table }

// Name returns the table name of T.
func (s *EntitySet[T]) Name() string { return s.table.Name }

// Key returns the primary key of entity as an identity-map key and whether
// the key is set.
func (s *EntitySet[T]) Key(entity *T) (string, bool) {
	v := reflect.ValueOf(entity).Elem().FieldByIndex(s.pk.Index)
	if v.IsZero() {
		return "", false
	}
	return fmt.Sprint(v.Interface()), true
}

func (s *EntitySet[T]) keyFunc(entity *T) func() (string, bool) {
	return func() (string, bool) { return s.Key(entity) }
}

// Add stages entity for insertion.
func (s *EntitySet[T]) Add(entity *T) {
	s.dc.Tracker().stage(StateAdded, s.table.Name, entity, s.keyFunc(entity))
}

// AddRange stages every entity for insertion, in order.
func (s *EntitySet[T]) AddRange(entities []*T) {
	for _, e := range entities {
		s.Add(e)
	}
}

// Remove stages entity for deletion by primary key. An entity still staged
// for insertion is unstaged instead.
func (s *EntitySet[T]) Remove(entity *T) {
	if s.dc.Tracker().unstageAdded(entity) {
		return
	}
	s.dc.Tracker().stage(StateDeleted, s.table.Name, entity, s.keyFunc(entity))
}

func (s *EntitySet[T]) RemoveRange(entities []*T) {
	for _, e := range entities {
		s.Remove(e)
	}
}

// Find returns the entity whose primary key equals id. The identity map is
// consulted first; a miss costs one round trip. A missing row yields nil
// and no error.
func (s *EntitySet[T]) Find(ctx context.Context, id interface{}) (*T, error) {
	if tracked, ok := s.dc.Tracker().Lookup(s.table.Name, fmt.Sprint(id)); ok {
		return tracked.(*T), nil
	}
	entity := new(T)
	err := s.dc.DB().NewSelect().
		Model(entity).
		Where("?TableAlias.? = ?", bun.Ident(s.pk.Name), id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, NewQueryFailure("find", s.table.Name, err)
	}
	return s.attach(entity), nil
}

// Query returns a deferred query over the whole set.
func (s *EntitySet[T]) Query() *Query[T] {
	return &Query[T]{set: s}
}

// Where returns a deferred query restricted by filter.
func (s *EntitySet[T]) Where(filter *types.QueryFilter) *Query[T] {
	return s.Query().Where(filter)
}

// ToList materializes the whole set.
func (s *EntitySet[T]) ToList(ctx context.Context) ([]*T, error) {
	return s.Query().ToList(ctx)
}

// FirstOrDefault returns the first entity matching filter, or nil.
func (s *EntitySet[T]) FirstOrDefault(ctx context.Context, filter *types.QueryFilter) (*T, error) {
	return s.Where(filter).First(ctx)
}

func (s *EntitySet[T]) attach(entity *T) *T {
	key, ok := s.Key(entity)
	if !ok {
		return entity
	}
	return s.dc.Tracker().Attach(s.table.Name, key, entity).(*T)
}
