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
	"strings"

	"github.com/d-willis/medley"
	"github.com/goccy/go-json"
)

// numericArray is the shared implementation of all fixed width arrays.
// The concrete array types embed it and override the rendering methods
// where the raw value is not the natural representation (dates, half
// floats).
type numericArray[T medley.NativeType] struct {
	array
	values []T
}

func (a *numericArray[T]) setData(data *Data) {
	a.array.setData(data)
	if vals := data.buffers[1]; vals != nil {
		a.values = medley.CastFromBytes[T](vals.Bytes())
		beg := data.offset
		end := beg + data.length
		a.values = a.values[beg:end]
	}
}

// Value returns the value at index i.
func (a *numericArray[T]) Value(i int) T { return a.values[i] }

// Values returns the slice of values of the array.
func (a *numericArray[T]) Values() []T { return a.values }

func (a *numericArray[T]) getOneForMarshal(i int) interface{} {
	if a.IsValid(i) {
		return a.values[i]
	}
	return nil
}

func (a *numericArray[T]) MarshalJSON() ([]byte, error) {
	vals := make([]interface{}, a.Len())
	for i := 0; i < a.Len(); i++ {
		vals[i] = a.getOneForMarshal(i)
	}
	return json.Marshal(vals)
}

func (a *numericArray[T]) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			fmt.Fprintf(o, " ")
		}
		switch {
		case a.IsNull(i):
			o.WriteString(NullValueStr)
		default:
			fmt.Fprintf(o, "%v", a.values[i])
		}
	}
	o.WriteString("]")
	return o.String()
}

// Int8 represents an immutable sequence of int8 values.
type Int8 struct {
	numericArray[int8]
}

// NewInt8Data creates a new Int8 array from data.
func NewInt8Data(data medley.ArrayData) *Int8 {
	a := &Int8{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Int8Values returns the values.
func (a *Int8) Int8Values() []int8 { return a.Values() }

// Int16 represents an immutable sequence of int16 values.
type Int16 struct {
	numericArray[int16]
}

// NewInt16Data creates a new Int16 array from data.
func NewInt16Data(data medley.ArrayData) *Int16 {
	a := &Int16{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Int16Values returns the values.
func (a *Int16) Int16Values() []int16 { return a.Values() }

// Int32 represents an immutable sequence of int32 values.
type Int32 struct {
	numericArray[int32]
}

// NewInt32Data creates a new Int32 array from data.
func NewInt32Data(data medley.ArrayData) *Int32 {
	a := &Int32{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Int32Values returns the values.
func (a *Int32) Int32Values() []int32 { return a.Values() }

// Int64 represents an immutable sequence of int64 values.
type Int64 struct {
	numericArray[int64]
}

// NewInt64Data creates a new Int64 array from data.
func NewInt64Data(data medley.ArrayData) *Int64 {
	a := &Int64{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Int64Values returns the values.
func (a *Int64) Int64Values() []int64 { return a.Values() }

// Uint8 represents an immutable sequence of uint8 values.
type Uint8 struct {
	numericArray[uint8]
}

// NewUint8Data creates a new Uint8 array from data.
func NewUint8Data(data medley.ArrayData) *Uint8 {
	a := &Uint8{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Uint8Values returns the values.
func (a *Uint8) Uint8Values() []uint8 { return a.Values() }

// Uint16 represents an immutable sequence of uint16 values.
type Uint16 struct {
	numericArray[uint16]
}

// NewUint16Data creates a new Uint16 array from data.
func NewUint16Data(data medley.ArrayData) *Uint16 {
	a := &Uint16{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Uint16Values returns the values.
func (a *Uint16) Uint16Values() []uint16 { return a.Values() }

// Uint32 represents an immutable sequence of uint32 values.
type Uint32 struct {
	numericArray[uint32]
}

// NewUint32Data creates a new Uint32 array from data.
func NewUint32Data(data medley.ArrayData) *Uint32 {
	a := &Uint32{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Uint32Values returns the values.
func (a *Uint32) Uint32Values() []uint32 { return a.Values() }

// Uint64 represents an immutable sequence of uint64 values.
type Uint64 struct {
	numericArray[uint64]
}

// NewUint64Data creates a new Uint64 array from data.
func NewUint64Data(data medley.ArrayData) *Uint64 {
	a := &Uint64{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Uint64Values returns the values.
func (a *Uint64) Uint64Values() []uint64 { return a.Values() }

// Float32 represents an immutable sequence of float32 values.
type Float32 struct {
	numericArray[float32]
}

// NewFloat32Data creates a new Float32 array from data.
func NewFloat32Data(data medley.ArrayData) *Float32 {
	a := &Float32{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Float32Values returns the values.
func (a *Float32) Float32Values() []float32 { return a.Values() }

// Float64 represents an immutable sequence of float64 values.
type Float64 struct {
	numericArray[float64]
}

// NewFloat64Data creates a new Float64 array from data.
func NewFloat64Data(data medley.ArrayData) *Float64 {
	a := &Float64{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Float64Values returns the values.
func (a *Float64) Float64Values() []float64 { return a.Values() }

var (
	_ medley.Array = (*Int8)(nil)
	_ medley.Array = (*Int16)(nil)
	_ medley.Array = (*Int32)(nil)
	_ medley.Array = (*Int64)(nil)
	_ medley.Array = (*Uint8)(nil)
	_ medley.Array = (*Uint16)(nil)
	_ medley.Array = (*Uint32)(nil)
	_ medley.Array = (*Uint64)(nil)
	_ medley.Array = (*Float32)(nil)
	_ medley.Array = (*Float64)(nil)
)
