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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/model"
	"github.com/tomoncle/repobench/types"
	"github.com/uptrace/bun"
)

type keyless struct {
	bun.BaseModel `bun:"table:keyless"`

	Name string `bun:"name"`
}

func seedPersons(t *testing.T, f *database.ContextFactory, people ...*model.Person) {
	t.Helper()
	dc, err := f.Open(context.Background())
	require.NoError(t, err)
	defer func() { _ = dc.Close() }()

	database.Set[model.Person](dc).AddRange(people)
	n, err := dc.SaveChanges(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(people), n)
}

func TestSet_PanicsWithoutSinglePrimaryKey(t *testing.T) {
	f := newFactory(t)
	assert.PanicsWithValue(t,
		"database: database_test.keyless must declare exactly one primary key, has 0",
		func() { database.Set[keyless](f.Shared()) })
}

func TestEntitySet_AddSaveFind(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()
	dc := f.Shared()

	anish := person(1, "Anish", "Aravind")
	anish.Demographics = types.JsonObject{"TotalPurchaseYTD": 12.5}
	set := database.Set[model.Person](dc)
	set.Add(anish)
	assert.Equal(t, 1, dc.Tracker().Pending())

	n, err := dc.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, dc.Tracker().Pending())

	tracked, err := set.Find(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, anish, tracked)

	fresh, err := f.Open(ctx)
	require.NoError(t, err)
	defer func() { _ = fresh.Close() }()
	loaded, err := database.Set[model.Person](fresh).Find(ctx, int64(1))
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.NotSame(t, anish, loaded)
	assert.Empty(t, cmp.Diff(anish, loaded))
}

func TestEntitySet_FindMissingIsNil(t *testing.T) {
	f := newFactory(t)
	got, err := database.Set[model.Person](f.Shared()).Find(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntitySet_Remove(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()
	seedPersons(t, f, person(1, "Anish", "Aravind"), person(2, "Ken", "Sánchez"))

	dc := f.Shared()
	set := database.Set[model.Person](dc)
	ken, err := set.Find(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, ken)

	set.Remove(ken)
	_, err = dc.SaveChanges(ctx)
	require.NoError(t, err)

	_, tracked := dc.Tracker().Lookup("person", "2")
	assert.False(t, tracked)
	all, err := set.ToList(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(1), all[0].BusinessEntityID)
}

func TestEntitySet_RemoveUnsavedAddUnstages(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	dc := f.Shared()
	set := database.Set[model.Person](dc)
	keep, drop := person(1, "Anish", "Aravind"), person(2, "Ken", "Sánchez")
	set.AddRange([]*model.Person{keep, drop})
	set.Remove(drop)
	assert.Equal(t, []database.EntityState{database.StateAdded}, dc.Tracker().PendingStates())

	n, err := dc.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := set.Query().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQuery_IsDeferredAndRestartable(t *testing.T) {
	queries := 0
	f := newFactory(t, database.WithDiagnosticSink(func(string) { queries++ }))
	ctx := context.Background()
	seedPersons(t, f,
		person(1, "Anish", "Aravind"),
		person(2, "Ken", "Sánchez"),
		person(3, "Terri", "Duffy"),
	)

	queries = 0
	q := database.Set[model.Person](f.Shared()).
		Where(types.In("business_entity_id", []int64{1, 3})).
		Order("business_entity_id")
	assert.Zero(t, queries)

	first, err := q.ToList(ctx)
	require.NoError(t, err)
	second, err := q.ToList(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, queries)

	require.Len(t, first, 2)
	assert.Equal(t, "Anish", first[0].FirstName)
	assert.Equal(t, "Terri", first[1].FirstName)
	// identity resolution hands back the instances loaded first
	assert.Same(t, first[0], second[0])

	count, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQuery_EmptyResult(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()
	seedPersons(t, f, person(1, "Anish", "Aravind"))

	set := database.Set[model.Person](f.Shared())
	list, err := set.Where(types.Eq("last_name", "Nobody")).ToList(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	first, err := set.FirstOrDefault(ctx, types.Eq("last_name", "Nobody"))
	assert.NoError(t, err)
	assert.Nil(t, first)
}

func TestQuery_Page(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()
	seedPersons(t, f,
		person(1, "Anish", "Aravind"),
		person(2, "Ken", "Sánchez"),
		person(3, "Terri", "Duffy"),
		person(4, "Gail", "Erickson"),
		person(5, "Dylan", "Miller"),
	)

	req := types.NewPageRequest(2, 2, nil, []string{"business_entity_id DESC"})
	page, err := database.Set[model.Person](f.Shared()).Query().Page(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].BusinessEntityID)
	assert.Equal(t, int64(2), page.Items[1].BusinessEntityID)
}
