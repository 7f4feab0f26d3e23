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
	"testing"

	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/model"
	"github.com/tomoncle/repobench/repository"
)

func benchFactory(b *testing.B) *database.ContextFactory {
	f := newFactory(b)
	seed(b, f, samplePersons(), 1, 1, 2, 3)
	return f
}

func BenchmarkGetPerson(b *testing.B) {
	f := benchFactory(b)
	lookups := []struct {
		name string
		repo repository.PersonLookup
	}{
		{"FirstOrDefaultWithoutCachedSet", repository.NewPersonRepository(f.Shared())},
		{"FirstOrDefaultWithCachedSet", repository.NewCachedPersonRepository(f.Shared())},
	}
	for _, l := range lookups {
		b.Run(l.name, func(b *testing.B) {
			ctx := context.Background()
			b.ReportAllocs()
			for b.Loop() {
				if _, err := l.repo.GetPerson(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCorrelatedQuery(b *testing.B) {
	f := benchFactory(b)
	ctx := context.Background()

	b.Run("CorrelatingDatabaseCommands", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			repo := repository.NewCorrelatedRepository(f, database.NopLogger{})
			if _, err := repo.CorrelatingDatabaseCommands(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("GetAllData", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			repo := repository.NewCorrelatedRepository(f, database.NopLogger{})
			if _, err := repo.GetAllData(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkSetResolution(b *testing.B) {
	f := benchFactory(b)
	b.ReportAllocs()
	for b.Loop() {
		_ = database.Set[model.Person](f.Shared())
	}
}
