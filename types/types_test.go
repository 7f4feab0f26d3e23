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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestAnd(t *testing.T) {
	assert.Nil(t, And())
	assert.Nil(t, And(nil, &QueryFilter{}))

	f := And(Eq("last_name", "Aravind"), nil, NewQueryFilter("email_promotion > ?", 0))
	require.NotNil(t, f)
	assert.Equal(t, "(? = ?) AND (email_promotion > ?)", f.Schema)
	assert.Equal(t, []interface{}{bun.Ident("last_name"), "Aravind", 0}, f.Args)
	assert.Equal(t, "<nil>", (*QueryFilter)(nil).String())
}

func TestPageRequestDefaults(t *testing.T) {
	req := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, req.GetPage())
	assert.Equal(t, 10, req.GetPageSize())
	assert.Zero(t, req.GetOffset())
	assert.Nil(t, req.GetFilter())

	req = NewPageRequest(3, 25, Eq("city", "Bothell"), []string{"address_id"})
	assert.Equal(t, 50, req.GetOffset())
	assert.Equal(t, []string{"address_id"}, req.GetOrders())

	p := NewDefaultPagination[struct{}](1, 25)
	assert.Zero(t, p.Pages())
	p.Total = 51
	assert.Equal(t, 3, p.Pages())
	assert.NotNil(t, p.Items)
}

func TestJsonObject(t *testing.T) {
	v, err := JsonObject(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = JsonObject{"TotalPurchaseYTD": 12.5}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"TotalPurchaseYTD":12.5}`, v)

	var j JsonObject
	require.NoError(t, j.Scan([]byte(`{"Gender":"M"}`)))
	assert.Equal(t, JsonObject{"Gender": "M"}, j)
	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)
	assert.Error(t, j.Scan(42))
}
