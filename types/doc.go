// Package types holds the small value types shared by the data context and
// the repositories: query predicates, pagination and enum/JSON column helpers.
package types
