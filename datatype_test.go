// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package medley_test

import (
	"hash/maphash"
	"testing"

	"github.com/d-willis/medley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	assert.Equal(t, "INT8", medley.INT8.String())
	assert.Equal(t, "UINT64", medley.UINT64.String())
	assert.Equal(t, "FLOAT16", medley.FLOAT16.String())
	assert.Equal(t, "DATE32", medley.DATE32.String())
	assert.Equal(t, "SPARSE_UNION", medley.SPARSE_UNION.String())
	assert.Equal(t, "DENSE_UNION", medley.DENSE_UNION.String())
	assert.Equal(t, "Type(99)", medley.Type(99).String())
}

func TestFingerprintsUnique(t *testing.T) {
	types := []medley.DataType{
		medley.PrimitiveTypes.Int8,
		medley.PrimitiveTypes.Int16,
		medley.PrimitiveTypes.Int32,
		medley.PrimitiveTypes.Int64,
		medley.PrimitiveTypes.Uint8,
		medley.PrimitiveTypes.Uint16,
		medley.PrimitiveTypes.Uint32,
		medley.PrimitiveTypes.Uint64,
		medley.FixedWidthTypes.Float16,
		medley.PrimitiveTypes.Float32,
		medley.PrimitiveTypes.Float64,
		medley.PrimitiveTypes.Date32,
		medley.PrimitiveTypes.Date64,
		medley.SparseUnionOf(unionFields(), []medley.UnionTypeCode{0, 1}),
		medley.DenseUnionOf(unionFields(), []medley.UnionTypeCode{0, 1}),
	}

	seen := make(map[string]medley.DataType, len(types))
	for _, dt := range types {
		fp := dt.Fingerprint()
		require.NotEmpty(t, fp)
		prev, ok := seen[fp]
		require.Falsef(t, ok, "fingerprint collision between %s and %s", prev, dt)
		seen[fp] = dt
	}
}

func TestHashType(t *testing.T) {
	seed := maphash.MakeSeed()

	// distinct instances of the same type hash identically
	assert.Equal(t,
		medley.HashType(seed, medley.PrimitiveTypes.Int32),
		medley.HashType(seed, &medley.Int32Type{}))
	assert.Equal(t,
		medley.HashType(seed, medley.SparseUnionOf(unionFields(), []medley.UnionTypeCode{0, 1})),
		medley.HashType(seed, medley.SparseUnionOf(unionFields(), []medley.UnionTypeCode{0, 1})))
}
