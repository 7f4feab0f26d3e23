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

package database_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newFactory(t *testing.T, opts ...database.FactoryOption) *database.ContextFactory {
	t.Helper()
	cfg := database.DefaultConnectionConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "adventureworks.db")
	cfg.SlowQueryTime = 0
	opts = append([]database.FactoryOption{database.WithLogger(database.NopLogger{})}, opts...)

	f, err := database.NewContextFactory(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.EnsureSchema(context.Background()))
	return f
}

func person(id int64, first, last string) *model.Person {
	return &model.Person{
		BusinessEntityID: id,
		PersonType:       model.PersonTypeEmployee,
		FirstName:        first,
		LastName:         last,
		Rowguid:          uuid.New(),
	}
}

func TestNewContextFactory_RejectsUnknownType(t *testing.T) {
	_, err := database.NewContextFactory(context.Background(), &database.ConnectionConfig{Type: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type")

	_, err = database.NewContextFactory(context.Background(), nil)
	assert.Error(t, err)
}

func TestContextFactory_OpenReleasesConnection(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	dc, err := f.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Stats().InUse)

	require.NoError(t, dc.Close())
	require.NoError(t, dc.Close())
	assert.Zero(t, f.Stats().InUse)
}

func TestContextFactory_SharedIsStable(t *testing.T) {
	f := newFactory(t)
	assert.Same(t, f.Shared(), f.Shared())
	assert.True(t, f.HealthCheck(context.Background()).Healthy)
}

func TestContextFactory_HealthCheckAfterClose(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	status := f.HealthCheck(ctx)
	require.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Empty(t, status.LastError)

	require.NoError(t, f.Close())
	status = f.HealthCheck(ctx)
	assert.False(t, status.Healthy)
	assert.False(t, status.Connected)
	assert.Equal(t, "Database not initialized", status.LastError)
}

func TestContextFactory_DiagnosticSinkSeesEveryQuery(t *testing.T) {
	var messages []string
	f := newFactory(t, database.WithDiagnosticSink(func(msg string) { messages = append(messages, msg) }))
	ctx := context.Background()
	messages = nil

	_, err := database.Set[model.Person](f.Shared()).Query().Tag("lookup").First(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "-- lookup\nSELECT")
}

func TestFactoryFromDB_StoreFaultIsQueryFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	f := database.NewContextFactoryFromDB(bun.NewDB(sqlDB, sqlitedialect.New()))
	defer func() { _ = f.Close() }()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("dial tcp: connection refused"))

	_, err = database.Set[model.Address](f.Shared()).ToList(context.Background())
	var qf *database.QueryFailure
	require.ErrorAs(t, err, &qf)
	assert.Equal(t, "select", qf.Op)
	assert.Equal(t, "address", qf.Table)
	assert.Equal(t, database.ConnectionErr, qf.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactoryFromDB_SaveFaultKeepsPendingChanges(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	f := database.NewContextFactoryFromDB(bun.NewDB(sqlDB, sqlitedialect.New()))
	defer func() { _ = f.Close() }()

	dc := f.Shared()
	database.Set[model.Person](dc).AddRange([]*model.Person{person(1, "Anish", "Aravind"), person(2, "Ken", "Sánchez")})

	mock.ExpectExec("INSERT INTO").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO").WillReturnError(errors.New("UNIQUE constraint failed: person.business_entity_id"))

	n, err := dc.SaveChanges(context.Background())
	assert.Equal(t, 1, n)
	var qf *database.QueryFailure
	require.ErrorAs(t, err, &qf)
	assert.Equal(t, database.DuplicateKeyErr, qf.Kind)
	assert.Equal(t, 1, dc.Tracker().Pending())
	assert.Equal(t, 1, dc.Tracker().Tracked())
}
