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

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/model"
	"github.com/tomoncle/repobench/repository"
)

type logEntry struct {
	msg    string
	fields map[string]interface{}
}

type recordingLogger struct {
	database.NopLogger
	errors []logEntry
}

func (l *recordingLogger) Error(msg string, fields ...interface{}) {
	entry := logEntry{msg: msg, fields: map[string]interface{}{}}
	for i := 0; i+1 < len(fields); i += 2 {
		entry.fields[fmt.Sprint(fields[i])] = fields[i+1]
	}
	l.errors = append(l.errors, entry)
}

// countingOpener hands out contexts that are never backed by a store and
// counts how often they are opened and released.
type countingOpener struct {
	opens   int
	closes  int
	openErr error
}

func (o *countingOpener) Open(ctx context.Context) (database.Context, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	o.opens++
	return database.NewContext(nil, func() error {
		o.closes++
		return nil
	}), nil
}

func TestExecuteDbOperation_ReleasesOnSuccess(t *testing.T) {
	opener := &countingOpener{}
	logger := &recordingLogger{}
	repo := repository.NewCorrelatedRepository(opener, logger)

	var seen database.Context
	got, err := repository.ExecuteDbOperation(context.Background(), repo, func(ctx context.Context, dc database.Context) (int, error) {
		seen = dc
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, opener.opens)
	assert.Equal(t, 1, opener.closes)
	assert.True(t, seen.(*database.DbContext).Closed())
	assert.Empty(t, logger.errors)
}

func TestExecuteDbOperation_ReturnsFailureUnchanged(t *testing.T) {
	opener := &countingOpener{}
	logger := &recordingLogger{}
	repo := repository.NewCorrelatedRepository(opener, logger)

	cause := errors.New("connection reset by peer")
	failure := database.NewQueryFailure("select", "address", cause)
	_, err := repository.ExecuteDbOperation(context.Background(), repo, func(context.Context, database.Context) ([]*model.Address, error) {
		return nil, failure
	})
	assert.True(t, err == failure, "error must be returned unchanged")
	assert.Equal(t, 1, opener.opens)
	assert.Equal(t, 1, opener.closes)

	require.Len(t, logger.errors, 1)
	entry := logger.errors[0]
	assert.Equal(t, failure.Error(), entry.fields["error"])
	assert.Equal(t, cause.Error(), entry.fields["cause"])
	assert.True(t, strings.Contains(entry.fields["stack"].(string), "ExecuteDbOperation"))
}

func TestExecuteDbOperation_RePanicsAfterRelease(t *testing.T) {
	opener := &countingOpener{}
	logger := &recordingLogger{}
	repo := repository.NewCorrelatedRepository(opener, logger)

	assert.PanicsWithValue(t, "driver exploded", func() {
		_, _ = repository.ExecuteDbOperation(context.Background(), repo, func(context.Context, database.Context) (int, error) {
			panic("driver exploded")
		})
	})
	assert.Equal(t, 1, opener.opens)
	assert.Equal(t, 1, opener.closes)
	require.Len(t, logger.errors, 1)
	assert.Equal(t, "panic: driver exploded", logger.errors[0].fields["error"])
	assert.Equal(t, "none", logger.errors[0].fields["cause"])
}

func TestExecuteDbOperation_OpenFailure(t *testing.T) {
	opener := &countingOpener{openErr: errors.New("pool exhausted")}
	logger := &recordingLogger{}
	repo := repository.NewCorrelatedRepository(opener, logger)

	called := false
	_, err := repository.ExecuteDbOperation(context.Background(), repo, func(context.Context, database.Context) (int, error) {
		called = true
		return 0, nil
	})
	assert.Same(t, opener.openErr, err)
	assert.False(t, called)
	assert.Zero(t, opener.closes)
	assert.Len(t, logger.errors, 1)
}

func TestCorrelatingDatabaseCommands(t *testing.T) {
	var messages []string
	f := newFactory(t, database.WithDiagnosticSink(func(msg string) { messages = append(messages, msg) }))
	seed(t, f, samplePersons()[:3], 1, 1, 2)
	messages = nil

	repo := repository.NewCorrelatedRepository(f, database.NopLogger{})
	got, err := repo.CorrelatingDatabaseCommands(context.Background())
	require.NoError(t, err)

	want := []model.PersonPasswordCount{
		{BusinessEntityID: 1, Count: 2},
		{BusinessEntityID: 2, Count: 1},
	}
	assert.Empty(t, cmp.Diff(want, got))
	require.Len(t, messages, 1)
	assert.True(t, strings.HasPrefix(messages[0], "-- "+repository.JoinAndGroupTag+"\n"), messages[0])
	assert.Zero(t, f.Stats().InUse)
}

func TestCorrelatingDatabaseCommands_NoPasswords(t *testing.T) {
	f := newFactory(t)
	seed(t, f, samplePersons())

	got, err := repository.NewCorrelatedRepository(f, nil).CorrelatingDatabaseCommands(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetAllData_IsIdempotent(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	dc, err := f.Open(ctx)
	require.NoError(t, err)
	addresses := repository.NewRepository[model.Address](dc)
	for i := 0; i < 5; i++ {
		addresses.Add(&model.Address{
			AddressLine1:    fmt.Sprintf("%d Napa Ct.", 1970+i),
			City:            "Bothell",
			StateProvinceID: 79,
			PostalCode:      "98011",
			Rowguid:         uuid.New(),
		})
	}
	_, err = dc.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, dc.Close())

	repo := repository.NewCorrelatedRepository(f, database.NopLogger{})
	first, err := repo.GetAllData(ctx)
	require.NoError(t, err)
	second, err := repo.GetAllData(ctx)
	require.NoError(t, err)

	assert.Len(t, first, 5)
	assert.Empty(t, cmp.Diff(first, second))
	for _, a := range first {
		assert.NotZero(t, a.AddressID)
	}
}

func TestGetAllData_MissingTableIsLoggedAndReturned(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()
	_, err := f.DB().NewDropTable().Model((*model.Address)(nil)).Exec(ctx)
	require.NoError(t, err)

	logger := &recordingLogger{}
	_, err = repository.NewCorrelatedRepository(f, logger).GetAllData(ctx)
	var qf *database.QueryFailure
	require.ErrorAs(t, err, &qf)
	assert.Equal(t, database.NoTableErr, qf.Kind)
	assert.Len(t, logger.errors, 1)
	assert.Zero(t, f.Stats().InUse)
}
