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

package model

import (
	"github.com/google/uuid"
	"github.com/tomoncle/repobench/types"
	"github.com/uptrace/bun"
)

// DefaultPersonID is the key looked up by GetPerson.
const DefaultPersonID int64 = 1

// Person is a human being involved with the business. The key is assigned
// by the caller and never changes.
type Person struct {
	bun.BaseModel `bun:"table:person,alias:p"`

	BusinessEntityID int64            `bun:"business_entity_id,pk" json:"business_entity_id"`
	PersonType       PersonType       `bun:"person_type,type:varchar(2),notnull" json:"person_type"`
	Title            string           `bun:"title,type:varchar(8)" json:"title,omitempty"`
	FirstName        string           `bun:"first_name,type:varchar(50),notnull" json:"first_name"`
	MiddleName       string           `bun:"middle_name,type:varchar(50)" json:"middle_name,omitempty"`
	LastName         string           `bun:"last_name,type:varchar(50),notnull" json:"last_name"`
	EmailPromotion   int              `bun:"email_promotion,notnull" json:"email_promotion"`
	Demographics     types.JsonObject `bun:"demographics,type:text" json:"demographics,omitempty"`
	Rowguid          uuid.UUID        `bun:"rowguid,type:varchar(36),notnull" json:"rowguid"`
}

// FullName joins the non-empty name parts.
func (p *Person) FullName() string {
	name := p.FirstName
	if p.MiddleName != "" {
		name += " " + p.MiddleName
	}
	if p.LastName != "" {
		name += " " + p.LastName
	}
	return name
}

// PersonPasswordCount is one row of the person/password correlation.
type PersonPasswordCount struct {
	BusinessEntityID int64 `bun:"business_entity_id" json:"business_entity_id"`
	Count            int64 `bun:"password_count" json:"count"`
}
