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
	"github.com/uptrace/bun"
)

// Address is a street address. It is not correlated with Person here.
type Address struct {
	bun.BaseModel `bun:"table:address,alias:a"`

	AddressID       int64     `bun:"address_id,pk,autoincrement" json:"address_id"`
	AddressLine1    string    `bun:"address_line1,type:varchar(60),notnull" json:"address_line1"`
	AddressLine2    string    `bun:"address_line2,type:varchar(60)" json:"address_line2,omitempty"`
	City            string    `bun:"city,type:varchar(30),notnull" json:"city"`
	StateProvinceID int64     `bun:"state_province_id,notnull" json:"state_province_id"`
	PostalCode      string    `bun:"postal_code,type:varchar(15),notnull" json:"postal_code"`
	Rowguid         uuid.UUID `bun:"rowguid,type:varchar(36),notnull" json:"rowguid"`
}
