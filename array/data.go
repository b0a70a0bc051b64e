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
	"sync/atomic"

	"github.com/d-willis/medley"
	"github.com/d-willis/medley/internal/debug"
	"github.com/d-willis/medley/memory"
)

// UnknownNullCount is a sentinel value to be used when the number of
// nulls in an array is not known, requesting that it be computed from
// the validity bitmap on the first call to NullN.
const UnknownNullCount = -1

// Data represents the memory and metadata of an array.
type Data struct {
	refCount  int64
	dtype     medley.DataType
	nulls     int
	offset    int
	length    int
	buffers   []*memory.Buffer
	childData []medley.ArrayData
}

// NewData creates a new Data instance, retaining the provided buffers and
// children for the lifetime of the Data.
func NewData(dtype medley.DataType, length int, buffers []*memory.Buffer, childData []medley.ArrayData, nulls, offset int) *Data {
	for _, b := range buffers {
		if b != nil {
			b.Retain()
		}
	}

	for _, child := range childData {
		if child != nil {
			child.Retain()
		}
	}

	return &Data{
		refCount:  1,
		dtype:     dtype,
		nulls:     nulls,
		length:    length,
		offset:    offset,
		buffers:   buffers,
		childData: childData,
	}
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (d *Data) Retain() {
	atomic.AddInt64(&d.refCount, 1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
// Release may be called simultaneously from multiple goroutines.
func (d *Data) Release() {
	debug.Assert(atomic.LoadInt64(&d.refCount) > 0, "too many releases")

	if atomic.AddInt64(&d.refCount, -1) == 0 {
		memory.ReleaseBuffers(d.buffers)
		for _, child := range d.childData {
			child.Release()
		}
		d.buffers, d.childData = nil, nil
	}
}

// DataType returns the DataType of the data.
func (d *Data) DataType() medley.DataType { return d.dtype }

// NullN returns the number of nulls.
func (d *Data) NullN() int { return d.nulls }

// Len returns the length.
func (d *Data) Len() int { return d.length }

// Offset returns the offset.
func (d *Data) Offset() int { return d.offset }

// Buffers returns the buffers.
func (d *Data) Buffers() []*memory.Buffer { return d.buffers }

// Children returns the children data, only relevant for nested types.
func (d *Data) Children() []medley.ArrayData { return d.childData }

// NewSliceData returns a new slice that shares backing data with the input.
// The returned Data slice starts at i and extends j-i elements, such as:
//
//	slice := data[i:j]
//
// The returned value must be Release'd after use.
//
// NewSliceData panics if the slice is outside the valid range of the input Data.
// NewSliceData panics if j < i.
func NewSliceData(data medley.ArrayData, i, j int64) medley.ArrayData {
	if j > int64(data.Len()) || i > j || data.Offset()+int(j) > data.Offset()+data.Len() {
		panic("medley/array: index out of range")
	}

	for _, b := range data.Buffers() {
		if b != nil {
			b.Retain()
		}
	}

	for _, child := range data.Children() {
		if child != nil {
			child.Retain()
		}
	}

	o := &Data{
		refCount:  1,
		dtype:     data.DataType(),
		nulls:     UnknownNullCount,
		length:    int(j - i),
		offset:    data.Offset() + int(i),
		buffers:   data.Buffers(),
		childData: data.Children(),
	}

	if data.NullN() == 0 {
		o.nulls = 0
	}

	return o
}

var _ medley.ArrayData = (*Data)(nil)
