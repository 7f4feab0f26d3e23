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
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/model"
	"github.com/tomoncle/repobench/repository"
	"golang.org/x/crypto/argon2"
)

// SeedOptions controls the sample data written by Seed.
type SeedOptions struct {
	Persons   int
	Addresses int
	// SQLDir, when set, is a directory of .sql files run after the sample
	// rows are inserted.
	SQLDir string
	// Reset drops the registered tables before seeding.
	Reset bool
}

func DefaultSeedOptions() SeedOptions {
	return SeedOptions{Persons: 3, Addresses: 10}
}

// SeedSummary reports what Seed wrote.
type SeedSummary struct {
	Persons   int
	Passwords int
	Addresses int
	SQLFiles  int
}

var firstNames = []string{"Ken", "Terri", "Roberto", "Rob", "Gail", "Jossef", "Dylan", "Diane", "Gigi", "Michael"}
var lastNames = []string{"Sánchez", "Duffy", "Tamburello", "Walters", "Erickson", "Goldberg", "Miller", "Margheim", "Matthew", "Raheem"}
var cities = []string{"Bothell", "Seattle", "Redmond", "Renton", "Everett"}

// Seed creates the schema and, when the store holds no default person yet,
// inserts sample persons, passwords and addresses. Person 1 is Anish
// Aravind with two password rows; the last person, when there are at least
// three, has none.
func Seed(ctx context.Context, factory *database.ContextFactory, opts SeedOptions) (*SeedSummary, error) {
	if opts.Persons < 1 {
		return nil, fmt.Errorf("seed needs at least one person, got %d", opts.Persons)
	}
	if opts.Addresses < 0 {
		return nil, fmt.Errorf("seed address count must not be negative, got %d", opts.Addresses)
	}
	if opts.Reset {
		if err := database.ResetSchema(ctx, factory.DB()); err != nil {
			return nil, err
		}
	} else if err := factory.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	dc, err := factory.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dc.Close() }()

	summary := &SeedSummary{}
	persons := repository.NewRepository[model.Person](dc)
	existing, err := persons.GetByID(ctx, model.DefaultPersonID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := seedRows(ctx, dc, opts, summary); err != nil {
			return nil, err
		}
	}

	if opts.SQLDir != "" {
		results, err := database.NewSQLSeeder(factory.DB(), opts.SQLDir, factory.Logger()).Run(ctx)
		if err != nil {
			return nil, err
		}
		summary.SQLFiles = len(results)
	}
	return summary, nil
}

func seedRows(ctx context.Context, dc database.Context, opts SeedOptions, summary *SeedSummary) error {
	people := make([]*model.Person, 0, opts.Persons)
	for i := 1; i <= opts.Persons; i++ {
		people = append(people, samplePerson(int64(i)))
	}
	if err := repository.NewRepository[model.Person](dc).AddRange(ctx, people); err != nil {
		return err
	}

	passwords := repository.NewRepository[model.Password](dc)
	for i, p := range people {
		rows := 1
		switch {
		case p.BusinessEntityID == model.DefaultPersonID:
			rows = 2
		case len(people) >= 3 && i == len(people)-1:
			rows = 0
		}
		for n := 0; n < rows; n++ {
			passwords.Add(samplePassword(p.BusinessEntityID, fmt.Sprintf("%s-%d", p.FirstName, n)))
			summary.Passwords++
		}
	}

	addresses := make([]*model.Address, 0, opts.Addresses)
	for i := 0; i < opts.Addresses; i++ {
		addresses = append(addresses, &model.Address{
			AddressLine1:    fmt.Sprintf("%d Ravenwood Drive", 1000+i*7),
			City:            cities[i%len(cities)],
			StateProvinceID: 79,
			PostalCode:      fmt.Sprintf("98%03d", 11+i%50),
			Rowguid:         uuid.New(),
		})
	}
	if err := repository.NewRepository[model.Address](dc).AddRange(ctx, addresses); err != nil {
		return err
	}

	if _, err := dc.SaveChanges(ctx); err != nil {
		return err
	}
	summary.Persons = len(people)
	summary.Addresses = len(addresses)
	return nil
}

func samplePerson(id int64) *model.Person {
	if id == model.DefaultPersonID {
		return &model.Person{
			BusinessEntityID: id,
			PersonType:       model.PersonTypeEmployee,
			FirstName:        "Anish",
			LastName:         "Aravind",
			Rowguid:          uuid.New(),
		}
	}
	i := int(id) % len(firstNames)
	return &model.Person{
		BusinessEntityID: id,
		PersonType:       model.PersonTypes()[int(id)%len(model.PersonTypes())],
		FirstName:        firstNames[i],
		LastName:         lastNames[(i+3)%len(lastNames)],
		EmailPromotion:   int(id % 3),
		Demographics:     map[string]interface{}{"TotalPurchaseYTD": float64(id) * 12.5},
		Rowguid:          uuid.New(),
	}
}

// argon2id parameters of the sample password hashes.
const (
	hashTime    = 1
	hashMemory  = 8 * 1024
	hashThreads = 1
	hashKeyLen  = 32
	saltLen     = 6
)

func hashPassword(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, hashTime, hashMemory, hashThreads, hashKeyLen)
}

func samplePassword(id int64, secret string) *model.Password {
	rnd := uuid.New()
	salt := rnd[:saltLen]
	return &model.Password{
		BusinessEntityID: id,
		PasswordHash:     base64.StdEncoding.EncodeToString(hashPassword(secret, salt)),
		PasswordSalt:     base64.RawStdEncoding.EncodeToString(salt),
	}
}
