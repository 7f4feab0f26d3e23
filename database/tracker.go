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

	"github.com/uptrace/bun"
)

type EntityState int

const (
	StateUnchanged EntityState = iota
	StateAdded
	StateDeleted
)

func (s EntityState) String() string {
	switch s {
	case StateAdded:
		return "added"
	case StateDeleted:
		return "deleted"
	default:
		return "unchanged"
	}
}

type pendingEntry struct {
	state  EntityState
	table  string
	entity interface{}
	key    func() (string, bool)
}

// ChangeTracker is the per-session identity map plus the ordered list of
// staged inserts and deletes. It has no internal locking.
type ChangeTracker struct {
	identity map[string]map[string]interface{}
	pending  []pendingEntry
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{identity: make(map[string]map[string]interface{})}
}

// Lookup returns the tracked entity for table and key.
func (t *ChangeTracker) Lookup(table, key string) (interface{}, bool) {
	e, ok := t.identity[table][key]
	return e, ok
}

// Attach tracks entity under table and key and returns the tracked
// instance, which is the previously tracked one if there was one.
func (t *ChangeTracker) Attach(table, key string, entity interface{}) interface{} {
	byKey, ok := t.identity[table]
	if !ok {
		byKey = make(map[string]interface{})
		t.identity[table] = byKey
	}
	if tracked, ok := byKey[key]; ok {
		return tracked
	}
	byKey[key] = entity
	return entity
}

func (t *ChangeTracker) Detach(table, key string) {
	delete(t.identity[table], key)
}

// Tracked returns the number of entities in the identity map.
func (t *ChangeTracker) Tracked() int {
	n := 0
	for _, byKey := range t.identity {
		n += len(byKey)
	}
	return n
}

// Pending returns the number of staged changes.
func (t *ChangeTracker) Pending() int { return len(t.pending) }

// PendingStates lists the state of each staged change in staging order.
func (t *ChangeTracker) PendingStates() []EntityState {
	states := make([]EntityState, len(t.pending))
	for i, e := range t.pending {
		states[i] = e.state
	}
	return states
}

// Clear forgets all tracked entities and staged changes.
func (t *ChangeTracker) Clear() {
	t.identity = make(map[string]map[string]interface{})
	t.pending = nil
}

func (t *ChangeTracker) stage(state EntityState, table string, entity interface{}, key func() (string, bool)) {
	t.pending = append(t.pending, pendingEntry{state: state, table: table, entity: entity, key: key})
}

// unstageAdded drops the pending insert of entity, if there is one.
func (t *ChangeTracker) unstageAdded(entity interface{}) bool {
	for i, e := range t.pending {
		if e.state == StateAdded && e.entity == entity {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// apply runs staged changes in order. On failure the failing change and the
// ones after it stay staged.
func (t *ChangeTracker) apply(ctx context.Context, db bun.IDB) (int, error) {
	applied := 0
	for i, e := range t.pending {
		var err error
		switch e.state {
		case StateAdded:
			_, err = db.NewInsert().Model(e.entity).Exec(ctx)
			if err == nil {
				if key, ok := e.key(); ok {
					t.Attach(e.table, key, e.entity)
				}
			}
		case StateDeleted:
			_, err = db.NewDelete().Model(e.entity).WherePK().Exec(ctx)
			if err == nil {
				if key, ok := e.key(); ok {
					t.Detach(e.table, key)
				}
			}
		}
		if err != nil {
			t.pending = t.pending[i:]
			return applied, NewQueryFailure("save "+e.state.String(), e.table, err)
		}
		applied++
	}
	t.pending = nil
	return applied, nil
}
