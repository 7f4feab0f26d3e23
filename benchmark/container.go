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
	"errors"

	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/repository"
)

// Container wires the context factory and the repositories for one suite.
// The scoped context is opened on first use and shared by every repository
// the container hands out, except CorrelatedRepository which opens its own.
type Container struct {
	factory *database.ContextFactory
	logger  database.Logger
	scope   database.Context
}

// NewContainer connects to the store described by cfg.
func NewContainer(ctx context.Context, cfg *database.ConnectionConfig, opts ...database.FactoryOption) (*Container, error) {
	factory, err := database.NewContextFactory(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return NewContainerFromFactory(factory), nil
}

// NewContainerFromFactory builds a container over an existing factory. The
// container takes ownership of factory.
func NewContainerFromFactory(factory *database.ContextFactory) *Container {
	return &Container{
		factory: factory,
		logger:  factory.Logger(),
	}
}

func (c *Container) Factory() *database.ContextFactory { return c.factory }

// Scope returns the context shared by the generic repositories.
func (c *Container) Scope() database.Context {
	if c.scope == nil {
		c.scope = c.factory.Shared()
	}
	return c.scope
}

func (c *Container) PersonRepository() *repository.PersonRepository {
	return repository.NewPersonRepository(c.Scope())
}

func (c *Container) CachedPersonRepository() *repository.CachedPersonRepository {
	return repository.NewCachedPersonRepository(c.Scope())
}

func (c *Container) CorrelatedRepository() *repository.CorrelatedRepository {
	return repository.NewCorrelatedRepository(c.factory, c.logger)
}

// Close releases the scope, then the factory.
func (c *Container) Close() error {
	var errs []error
	if c.scope != nil {
		errs = append(errs, c.scope.Close())
		c.scope = nil
	}
	if c.factory != nil {
		errs = append(errs, c.factory.Close())
		c.factory = nil
	}
	return errors.Join(errs...)
}
