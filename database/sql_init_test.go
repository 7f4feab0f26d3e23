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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/model"
)

func TestSQLSeeder_RunsFilesInOrder(t *testing.T) {
	f := newFactory(t)
	dir := t.TempDir()
	files := map[string]string{
		"010_password.sql": "-- second\nINSERT INTO password (business_entity_id, password_hash, password_salt)\nVALUES (1, 'hash', 'salt');\n",
		"002_person.sql":   "INSERT INTO person (business_entity_id, person_type, first_name, last_name, email_promotion, rowguid)\nVALUES (1, 'EM', 'Anish', 'Aravind', 0, '00000000-0000-0000-0000-000000000001');\n",
		"notes.sql":        "\n-- nothing to run\n",
		"readme.txt":       "ignored",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	seeder := database.NewSQLSeeder(f.DB(), dir, database.NopLogger{})
	found, err := seeder.Files()
	require.NoError(t, err)
	names := make([]string, len(found))
	for i, file := range found {
		names[i] = file.Name
	}
	assert.Equal(t, []string{"002_person.sql", "010_password.sql", "notes.sql"}, names)

	results, err := seeder.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(1), results[0].RowsAffected)
	assert.Zero(t, results[2].Statements)

	anish, err := database.Set[model.Person](f.Shared()).Find(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, anish)
	assert.Equal(t, "Aravind", anish.LastName)
}

func TestSQLSeeder_StopsAtFailingFile(t *testing.T) {
	f := newFactory(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_bad.sql"), []byte("INSERT INTO missing_table VALUES (1);"), 0o600))

	_, err := database.NewSQLSeeder(f.DB(), dir, database.NopLogger{}).Run(context.Background())
	assert.ErrorContains(t, err, "001_bad.sql")
}
