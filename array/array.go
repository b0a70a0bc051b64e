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

package array

import (
	"fmt"
	"sync/atomic"

	"github.com/d-willis/medley"
	"github.com/d-willis/medley/bitutil"
	"github.com/d-willis/medley/internal/debug"
)

// NullValueStr represents a null value in the String output of an array.
const NullValueStr = "(null)"

// arraymarshal is implemented by all array types so nested arrays can
// marshal a single element of their children.
type arraymarshal interface {
	getOneForMarshal(i int) interface{}
}

// array is the common base of all concrete array types. It holds the
// shared Data and caches the validity bitmap bytes.
type array struct {
	refCount        int64
	data            *Data
	nullBitmapBytes []byte
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (a *array) Retain() {
	atomic.AddInt64(&a.refCount, 1)
}

// Release decreases the reference count by 1.
// Release may be called simultaneously from multiple goroutines.
// When the reference count goes to zero, the memory is freed.
func (a *array) Release() {
	debug.Assert(atomic.LoadInt64(&a.refCount) > 0, "too many releases")

	if atomic.AddInt64(&a.refCount, -1) == 0 {
		a.data.Release()
		a.data, a.nullBitmapBytes = nil, nil
	}
}

func (a *array) setData(data *Data) {
	// retain before release in case data is the current data
	data.Retain()
	if a.data != nil {
		a.data.Release()
	}

	if len(data.buffers) > 0 && data.buffers[0] != nil {
		a.nullBitmapBytes = data.buffers[0].Bytes()
	}
	a.data = data
}

// DataType returns the type metadata for this instance.
func (a *array) DataType() medley.DataType { return a.data.dtype }

// NullN returns the number of null values in the array.
func (a *array) NullN() int {
	if a.data.nulls < 0 {
		a.data.nulls = a.data.length - bitutil.CountSetBits(a.nullBitmapBytes, a.data.offset, a.data.length)
	}
	return a.data.nulls
}

// NullBitmapBytes returns a byte slice of the validity bitmap.
func (a *array) NullBitmapBytes() []byte { return a.nullBitmapBytes }

// Data returns the underlying data of this array.
func (a *array) Data() medley.ArrayData { return a.data }

// Len returns the number of elements in the array.
func (a *array) Len() int { return a.data.length }

// IsNull returns true if value at index is null.
// NOTE: IsNull will panic if NullBitmapBytes is not empty and 0 > i ≥ Len.
func (a *array) IsNull(i int) bool {
	return len(a.nullBitmapBytes) != 0 && bitutil.BitIsNotSet(a.nullBitmapBytes, a.data.offset+i)
}

// IsValid returns true if value at index is not null.
// NOTE: IsValid will panic if NullBitmapBytes is not empty and 0 > i ≥ Len.
func (a *array) IsValid(i int) bool {
	return len(a.nullBitmapBytes) == 0 || bitutil.BitIsSet(a.nullBitmapBytes, a.data.offset+i)
}

// MakeFromData constructs a strongly-typed array instance from generic Data.
func MakeFromData(data medley.ArrayData) medley.Array {
	switch data.DataType().ID() {
	case medley.INT8:
		return NewInt8Data(data)
	case medley.INT16:
		return NewInt16Data(data)
	case medley.INT32:
		return NewInt32Data(data)
	case medley.INT64:
		return NewInt64Data(data)
	case medley.UINT8:
		return NewUint8Data(data)
	case medley.UINT16:
		return NewUint16Data(data)
	case medley.UINT32:
		return NewUint32Data(data)
	case medley.UINT64:
		return NewUint64Data(data)
	case medley.FLOAT16:
		return NewFloat16Data(data)
	case medley.FLOAT32:
		return NewFloat32Data(data)
	case medley.FLOAT64:
		return NewFloat64Data(data)
	case medley.DATE32:
		return NewDate32Data(data)
	case medley.DATE64:
		return NewDate64Data(data)
	case medley.SPARSE_UNION:
		return NewSparseUnionData(data)
	case medley.DENSE_UNION:
		return NewDenseUnionData(data)
	default:
		panic(fmt.Errorf("medley/array: unsupported data type: %s", data.DataType().Name()))
	}
}

// NewSlice constructs a zero-copy slice of the array with the indicated
// indices i and j, corresponding to array[i:j].
// The returned array must be Release()'d after use.
//
// NewSlice panics if the slice is outside the valid range of the input array.
// NewSlice panics if j < i.
func NewSlice(arr medley.Array, i, j int64) medley.Array {
	data := NewSliceData(arr.Data(), i, j)
	slice := MakeFromData(data)
	data.Release()
	return slice
}
