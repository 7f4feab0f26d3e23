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

import "github.com/tomoncle/repobench/types"

// PersonType is the two-letter classification code stored on Person.
type PersonType string

const (
	PersonTypeStoreContact   PersonType = "SC"
	PersonTypeIndividual     PersonType = "IN"
	PersonTypeSalesPerson    PersonType = "SP"
	PersonTypeEmployee       PersonType = "EM"
	PersonTypeVendorContact  PersonType = "VC"
	PersonTypeGeneralContact PersonType = "GC"
)

var personTypes = []PersonType{
	PersonTypeStoreContact,
	PersonTypeIndividual,
	PersonTypeSalesPerson,
	PersonTypeEmployee,
	PersonTypeVendorContact,
	PersonTypeGeneralContact,
}

var personTypeDesc = map[PersonType]string{
	PersonTypeStoreContact:   "Store Contact",
	PersonTypeIndividual:     "Individual (retail) customer",
	PersonTypeSalesPerson:    "Sales person",
	PersonTypeEmployee:       "Employee (non-sales)",
	PersonTypeVendorContact:  "Vendor contact",
	PersonTypeGeneralContact: "General contact",
}

var _ types.BaseEnum = PersonTypeEmployee

// PersonTypes returns every known person type.
func PersonTypes() []PersonType {
	out := make([]PersonType, len(personTypes))
	copy(out, personTypes)
	return out
}

// ParsePersonType resolves a code such as "em" or "EM".
func ParsePersonType(code string) (PersonType, bool) {
	return types.ParseEnum(code, personTypes...)
}

func (p PersonType) IsValid() bool {
	_, ok := personTypeDesc[p]
	return ok
}

func (p PersonType) Number() int {
	for i, t := range personTypes {
		if t == p {
			return i
		}
	}
	return types.IllegalValue
}

func (p PersonType) String() string {
	return string(p)
}

func (p PersonType) Desc() string {
	if d, ok := personTypeDesc[p]; ok {
		return d
	}
	return types.IllegalDesc
}

func (p PersonType) Name() string {
	if !p.IsValid() {
		return types.IllegalName
	}
	return string(p)
}
