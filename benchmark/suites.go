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

package benchmark

import (
	"context"
	"fmt"

	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/repository"
)

// ContainerBuilder creates the container a suite measures against.
type ContainerBuilder func(ctx context.Context) (*Container, error)

// ConfigContainer returns a builder connecting with cfg.
func ConfigContainer(cfg *database.ConnectionConfig, opts ...database.FactoryOption) ContainerBuilder {
	return func(ctx context.Context) (*Container, error) {
		c := *cfg
		return NewContainer(ctx, &c, opts...)
	}
}

// PersonLookupSuite compares GetPerson through the uncached and the cached
// repository. Both repositories are resolved once in Setup and shared by
// every iteration.
type PersonLookupSuite struct {
	build     ContainerBuilder
	container *Container
	uncached  *repository.PersonRepository
	cached    *repository.CachedPersonRepository
}

func NewPersonLookupSuite(build ContainerBuilder) *PersonLookupSuite {
	return &PersonLookupSuite{build: build}
}

func (s *PersonLookupSuite) Name() string { return "PersonLookup" }

func (s *PersonLookupSuite) Setup(ctx context.Context) error {
	container, err := s.build(ctx)
	if err != nil {
		return err
	}
	s.container = container
	s.uncached = container.PersonRepository()
	s.cached = container.CachedPersonRepository()
	return nil
}

func (s *PersonLookupSuite) Cases() []Case {
	return []Case{
		{Name: "FirstOrDefaultWithoutCachedSet", Fn: lookup(s.uncached)},
		{Name: "FirstOrDefaultWithCachedSet", Fn: lookup(s.cached)},
	}
}

func lookup(repo repository.PersonLookup) func(context.Context) error {
	return func(ctx context.Context) error {
		person, err := repo.GetPerson(ctx)
		if err != nil {
			return err
		}
		if person == nil {
			return fmt.Errorf("person not found, seed the database first")
		}
		return nil
	}
}

func (s *PersonLookupSuite) Teardown() error {
	if s.container == nil {
		return nil
	}
	err := s.container.Close()
	s.container = nil
	return err
}

// CorrelatedQuerySuite compares the join-and-group query with the bulk
// address fetch. A new CorrelatedRepository is built on every iteration.
type CorrelatedQuerySuite struct {
	build     ContainerBuilder
	container *Container
}

func NewCorrelatedQuerySuite(build ContainerBuilder) *CorrelatedQuerySuite {
	return &CorrelatedQuerySuite{build: build}
}

func (s *CorrelatedQuerySuite) Name() string { return "CorrelatedQuery" }

func (s *CorrelatedQuerySuite) Setup(ctx context.Context) error {
	container, err := s.build(ctx)
	if err != nil {
		return err
	}
	s.container = container
	return nil
}

func (s *CorrelatedQuerySuite) Cases() []Case {
	return []Case{
		{Name: "CorrelatingDatabaseCommands", Fn: func(ctx context.Context) error {
			_, err := s.container.CorrelatedRepository().CorrelatingDatabaseCommands(ctx)
			return err
		}},
		{Name: "GetAllData", Fn: func(ctx context.Context) error {
			_, err := s.container.CorrelatedRepository().GetAllData(ctx)
			return err
		}},
	}
}

func (s *CorrelatedQuerySuite) Teardown() error {
	if s.container == nil {
		return nil
	}
	err := s.container.Close()
	s.container = nil
	return err
}

// Suites returns every suite, each building its own container.
func Suites(build ContainerBuilder) []Suite {
	return []Suite{
		NewPersonLookupSuite(build),
		NewCorrelatedQuerySuite(build),
	}
}
