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

// Context is one logical session against the store: the capability set the
// repositories are written against. Implementations are not safe for
// concurrent use; callers own the single-writer, single-reader discipline.
type Context interface {
	// DB is the query target for this session.
	DB() bun.IDB
	// Tracker holds the identity map and the staged changes.
	Tracker() *ChangeTracker
	// SaveChanges persists staged changes and reports how many were applied.
	SaveChanges(ctx context.Context) (int, error)
	// Close releases the session. Staged changes not yet saved are dropped.
	Close() error
}

// DbContext is the default Context over any Bun query target.
type DbContext struct {
	db      bun.IDB
	tracker *ChangeTracker
	release func() error
	closed  bool
}

var _ Context = (*DbContext)(nil)

// NewContext starts a session over db. release, when non-nil, runs once on
// the first Close.
func NewContext(db bun.IDB, release func() error) *DbContext {
	return &DbContext{
		db:      db,
		tracker: NewChangeTracker(),
		release: release,
	}
}

func (c *DbContext) DB() bun.IDB { return c.db }

func (c *DbContext) Tracker() *ChangeTracker { return c.tracker }

func (c *DbContext) SaveChanges(ctx context.Context) (int, error) {
	return c.tracker.apply(ctx, c.db)
}

func (c *DbContext) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.tracker.Clear()
	if c.release != nil {
		return c.release()
	}
	return nil
}

// Closed reports whether Close has been called.
func (c *DbContext) Closed() bool { return c.closed }
