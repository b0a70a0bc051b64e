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

package array_test

import (
	"testing"

	"github.com/d-willis/medley"
	"github.com/d-willis/medley/array"
	"github.com/d-willis/medley/memory"
	"github.com/stretchr/testify/assert"
)

func TestNewData(t *testing.T) {
	vals := memory.NewBufferBytes(medley.CastToBytes([]int32{1, 2, 3, 4}))
	data := array.NewData(medley.PrimitiveTypes.Int32, 4, []*memory.Buffer{nil, vals}, nil, 0, 0)
	defer data.Release()

	assert.Equal(t, 4, data.Len())
	assert.Zero(t, data.NullN())
	assert.Zero(t, data.Offset())
	assert.Same(t, medley.PrimitiveTypes.Int32, data.DataType())
	assert.Len(t, data.Buffers(), 2)
	assert.Nil(t, data.Buffers()[0])
	assert.Empty(t, data.Children())
}

func TestNewSliceData(t *testing.T) {
	arr := primitiveFromSlice(
		[]int64{0, 1, 2, 3, 4, 5, 6, 7},
		[]bool{true, true, false, true, true, true, false, true})
	defer arr.Release()

	slice := array.NewSliceData(arr.Data(), 2, 7)
	defer slice.Release()

	assert.Equal(t, 5, slice.Len())
	assert.Equal(t, 2, slice.Offset())
	// null count is not computed until someone asks for it
	assert.Equal(t, array.UnknownNullCount, slice.NullN())

	sliced := array.MakeFromData(slice).(*array.Int64)
	defer sliced.Release()
	assert.Equal(t, []int64{2, 3, 4, 5, 6}, sliced.Int64Values())
	assert.Equal(t, 2, sliced.NullN())
	assert.True(t, sliced.IsNull(0))
	assert.True(t, sliced.IsValid(1))
	assert.True(t, sliced.IsNull(4))

	// slicing a slice compounds the offset
	sub := array.NewSlice(sliced, 1, 4).(*array.Int64)
	defer sub.Release()
	assert.Equal(t, 3, sub.Data().Offset())
	assert.Equal(t, []int64{3, 4, 5}, sub.Int64Values())
	assert.Zero(t, sub.NullN())
}

func TestNewSliceDataPanics(t *testing.T) {
	arr := primitiveFromSlice([]int32{1, 2, 3}, nil)
	defer arr.Release()

	assert.Panics(t, func() { array.NewSliceData(arr.Data(), 2, 1) })
	assert.Panics(t, func() { array.NewSliceData(arr.Data(), 0, 4) })
}
