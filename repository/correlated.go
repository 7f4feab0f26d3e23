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
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/model"
)

// JoinAndGroupTag labels the correlation query in diagnostics.
const JoinAndGroupTag = "Join and Group"

// ContextOpener opens a new data context. *database.ContextFactory
// satisfies it.
type ContextOpener interface {
	Open(ctx context.Context) (database.Context, error)
}

// CorrelatedRepository runs each operation on its own context, opened
// before the operation and released right after it.
type CorrelatedRepository struct {
	opener ContextOpener
	logger database.Logger
}

// NewCorrelatedRepository returns a repository opening contexts from opener.
// A nil logger falls back to the database package logger.
func NewCorrelatedRepository(opener ContextOpener, logger database.Logger) *CorrelatedRepository {
	if logger == nil {
		logger = database.GetLogger()
	}
	return &CorrelatedRepository{opener: opener, logger: logger}
}

// ExecuteDbOperation runs op on a freshly opened context and releases the
// context exactly once, whether op returns normally, fails or panics. A
// failure is logged with its stack and inner cause and returned as is; a
// panic is logged the same way and re-raised with its original value.
func ExecuteDbOperation[R any](ctx context.Context, r *CorrelatedRepository, op func(context.Context, database.Context) (R, error)) (result R, err error) {
	dc, err := r.opener.Open(ctx)
	if err != nil {
		r.logFailure(err)
		return result, err
	}
	defer func() {
		if p := recover(); p != nil {
			r.logFailure(fmt.Errorf("panic: %v", p))
			panic(p)
		}
	}()
	defer func() {
		if cerr := dc.Close(); cerr != nil {
			r.logger.Warn("Failed to release database context", "error", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()

	result, err = op(ctx, dc)
	if err != nil {
		r.logFailure(err)
	}
	return result, err
}

func (r *CorrelatedRepository) logFailure(err error) {
	cause := "none"
	if inner := errors.Unwrap(err); inner != nil {
		cause = inner.Error()
	}
	r.logger.Error("Database operation failed",
		"error", err.Error(),
		"cause", cause,
		"stack", string(debug.Stack()),
	)
}

// CorrelatingDatabaseCommands counts the password rows of every person that
// has at least one, ordered by person key.
func (r *CorrelatedRepository) CorrelatingDatabaseCommands(ctx context.Context) ([]model.PersonPasswordCount, error) {
	return ExecuteDbOperation(ctx, r, func(ctx context.Context, dc database.Context) ([]model.PersonPasswordCount, error) {
		counts := make([]model.PersonPasswordCount, 0)
		err := dc.DB().NewSelect().
			Model((*model.Person)(nil)).
			ColumnExpr("p.business_entity_id").
			ColumnExpr("COUNT(*) AS password_count").
			Join("INNER JOIN password AS pwd ON pwd.business_entity_id = p.business_entity_id").
			Group("p.business_entity_id").
			Order("p.business_entity_id").
			Scan(database.WithQueryTag(ctx, JoinAndGroupTag), &counts)
		if err != nil {
			return nil, database.NewQueryFailure("correlate", "person", err)
		}
		return counts, nil
	})
}

// GetAllData returns every address.
func (r *CorrelatedRepository) GetAllData(ctx context.Context) ([]*model.Address, error) {
	return ExecuteDbOperation(ctx, r, func(ctx context.Context, dc database.Context) ([]*model.Address, error) {
		return database.Set[model.Address](dc).ToList(ctx)
	})
}
