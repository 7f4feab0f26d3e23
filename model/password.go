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

import "github.com/uptrace/bun"

// Password holds a salted hash for a Person. A person may have several
// rows; BusinessEntityID is the correlation key and is not unique.
type Password struct {
	bun.BaseModel `bun:"table:password,alias:pwd"`

	PasswordID       int64  `bun:"password_id,pk,autoincrement" json:"password_id"`
	BusinessEntityID int64  `bun:"business_entity_id,notnull" json:"business_entity_id"`
	PasswordHash     string `bun:"password_hash,type:varchar(128),notnull" json:"-"`
	PasswordSalt     string `bun:"password_salt,type:varchar(10),notnull" json:"-"`
}
