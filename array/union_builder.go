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
	"github.com/d-willis/medley/internal/debug"
	"github.com/d-willis/medley/memory"
	"golang.org/x/exp/slices"
)

const defaultBuilderCapacity = 1024

// UnionTypeConflictError is returned by UnionAppend and UnionAppendNull
// when a field is appended to with a different value type than the one it
// was created with. The builder is left untouched, so appending with the
// original type may continue.
type UnionTypeConflictError struct {
	Field     string
	Existing  medley.DataType
	Attempted medley.DataType
}

func (e *UnionTypeConflictError) Error() string {
	return fmt.Sprintf("medley/array: field %q holds values of type %s, cannot append %s",
		e.Field, e.Existing, e.Attempted)
}

// fieldValues erases the value type of a field's data builder. The concrete
// builder is recovered by the typed append path once the field's data type
// has been checked.
type fieldValues interface {
	appendNull()
	Finish() *memory.Buffer
	Release()
}

// fieldData accumulates the values appended to a single union field: the
// type code assigned at first reference, the permanent value type, the
// value slots written so far and their validity bitmap.
type fieldData struct {
	name     string
	typeCode medley.UnionTypeCode
	dtype    medley.DataType
	values   fieldValues
	nulls    *nullBitmapBuilder
	slots    int
}

func newFieldData[T medley.NativeType](mem memory.Allocator, typeCode medley.UnionTypeCode, name string, capacity int) *fieldData {
	values := newTypedBufferBuilder[T](mem)
	values.reserve(capacity)
	nulls := newNullBitmapBuilder(mem)
	nulls.reserve(capacity)
	return &fieldData{
		name:     name,
		typeCode: typeCode,
		dtype:    medley.GetDataType[T](),
		values:   values,
		nulls:    nulls,
	}
}

// appendNull writes a zeroed slot marked null.
func (fd *fieldData) appendNull() {
	fd.values.appendNull()
	fd.nulls.AppendBool(false)
	fd.slots++
}

func (fd *fieldData) release() {
	fd.values.Release()
	fd.nulls.Release()
}

func fieldDataAppendValue[T medley.NativeType](fd *fieldData, v T) {
	fd.values.(*typedBufferBuilder[T]).AppendValue(v)
	fd.nulls.AppendBool(true)
	fd.slots++
}

// UnionBuilder assembles a union array row by row from values of mixed
// types. Fields are keyed by name and created on first use, with type
// codes assigned in order of first appearance. The value type of a field
// is fixed by its first append.
//
// UnionBuilder is not safe for concurrent use.
type UnionBuilder struct {
	refCount int64
	mem      memory.Allocator
	mode     medley.UnionMode
	capacity int

	rows     int
	fields   map[string]*fieldData
	typeIDs  *typedBufferBuilder[int8]
	offsets  *typedBufferBuilder[int32]
	consumed bool
}

// NewSparseUnionBuilder returns a builder producing a sparse layout union
// array, with a default initial capacity.
func NewSparseUnionBuilder(mem memory.Allocator) *UnionBuilder {
	return NewSparseUnionBuilderWithCapacity(mem, defaultBuilderCapacity)
}

// NewSparseUnionBuilderWithCapacity returns a builder producing a sparse
// layout union array, pre-allocating room for capacity rows.
func NewSparseUnionBuilderWithCapacity(mem memory.Allocator, capacity int) *UnionBuilder {
	b := &UnionBuilder{
		refCount: 1,
		mem:      mem,
		mode:     medley.SparseMode,
		capacity: capacity,
		fields:   make(map[string]*fieldData),
		typeIDs:  newTypedBufferBuilder[int8](mem),
	}
	b.typeIDs.reserve(capacity)
	return b
}

// NewDenseUnionBuilder returns a builder producing a dense layout union
// array, with a default initial capacity.
func NewDenseUnionBuilder(mem memory.Allocator) *UnionBuilder {
	return NewDenseUnionBuilderWithCapacity(mem, defaultBuilderCapacity)
}

// NewDenseUnionBuilderWithCapacity returns a builder producing a dense
// layout union array, pre-allocating room for capacity rows.
func NewDenseUnionBuilderWithCapacity(mem memory.Allocator, capacity int) *UnionBuilder {
	b := &UnionBuilder{
		refCount: 1,
		mem:      mem,
		mode:     medley.DenseMode,
		capacity: capacity,
		fields:   make(map[string]*fieldData),
		typeIDs:  newTypedBufferBuilder[int8](mem),
		offsets:  newTypedBufferBuilder[int32](mem),
	}
	b.typeIDs.reserve(capacity)
	b.offsets.reserve(capacity)
	return b
}

// Mode returns the layout the builder produces, either medley.SparseMode
// or medley.DenseMode.
func (b *UnionBuilder) Mode() medley.UnionMode { return b.mode }

// Len returns the number of rows appended so far.
func (b *UnionBuilder) Len() int { return b.rows }

// NumFields returns the number of distinct fields referenced so far.
func (b *UnionBuilder) NumFields() int { return len(b.fields) }

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (b *UnionBuilder) Retain() {
	atomic.AddInt64(&b.refCount, 1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
// Release may be called simultaneously from multiple goroutines.
func (b *UnionBuilder) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		b.typeIDs.Release()
		if b.offsets != nil {
			b.offsets.Release()
		}
		for _, fd := range b.fields {
			fd.release()
		}
		b.fields = nil
	}
}

// UnionAppend appends the value v to the field named field, creating the
// field on its first reference. The field's value type is fixed by that
// first reference; appending a differently typed value to an existing
// field returns a *UnionTypeConflictError and leaves the builder
// unchanged.
//
// UnionAppend panics if the builder has already been consumed by Build,
// or if creating the field would exceed the maximum number of union
// fields.
func UnionAppend[T medley.NativeType](b *UnionBuilder, field string, v T) error {
	return unionAppend(b, field, v, true)
}

// UnionAppendNull appends a null slot to the field named field, creating
// the field on its first reference just as UnionAppend does. The type
// parameter determines the field's value type when this is the first
// reference, and is checked against the existing type otherwise.
func UnionAppendNull[T medley.NativeType](b *UnionBuilder, field string) error {
	return unionAppend(b, field, *new(T), false)
}

func unionAppend[T medley.NativeType](b *UnionBuilder, field string, v T, isValid bool) error {
	if b.consumed {
		panic("medley/array: append to already consumed union builder")
	}

	dtype := medley.GetDataType[T]()
	fd, ok := b.fields[field]
	switch {
	case !ok:
		if len(b.fields) > int(medley.MaxUnionTypeCode) {
			panic(fmt.Sprintf("medley/array: cannot create union with more than %d fields", int(medley.MaxUnionTypeCode)+1))
		}
		fd = newFieldData[T](b.mem, medley.UnionTypeCode(len(b.fields)), field, b.capacity)
		if b.mode == medley.SparseMode {
			// backfill so the new child lines up with the rows appended
			// before its first reference
			for i := 0; i < b.rows; i++ {
				fd.appendNull()
			}
		}
		b.fields[field] = fd
	case !medley.TypeEqual(fd.dtype, dtype):
		return &UnionTypeConflictError{Field: field, Existing: fd.dtype, Attempted: dtype}
	}

	b.typeIDs.AppendValue(fd.typeCode)

	switch b.mode {
	case medley.DenseMode:
		b.offsets.AppendValue(int32(fd.slots))
		if isValid {
			fieldDataAppendValue(fd, v)
		} else {
			fd.appendNull()
		}
	default:
		if isValid {
			fieldDataAppendValue(fd, v)
		} else {
			fd.appendNull()
		}
		for _, other := range b.fields {
			if other != fd {
				other.appendNull()
			}
		}
	}

	b.rows++
	return nil
}

// Build consumes the builder and returns the union array it accumulated.
// Children are ordered by their type codes, so fields appear in order of
// first reference. Calling Build a second time, or appending after Build,
// panics.
func (b *UnionBuilder) Build() (Union, error) {
	if b.consumed {
		panic("medley/array: union builder already consumed")
	}
	b.consumed = true

	fds := make([]*fieldData, 0, len(b.fields))
	for _, fd := range b.fields {
		fds = append(fds, fd)
	}
	slices.SortFunc(fds, func(x, y *fieldData) int { return int(x.typeCode) - int(y.typeCode) })

	fields := make([]medley.Field, len(fds))
	codes := make([]medley.UnionTypeCode, len(fds))
	children := make([]medley.Array, len(fds))

	for i, fd := range fds {
		nullBitmap, nulls := fd.nulls.Finish()
		values := fd.values.Finish()

		child := NewData(fd.dtype, fd.slots, []*memory.Buffer{nullBitmap, values}, nil, nulls, 0)
		if nullBitmap != nil {
			nullBitmap.Release()
		}
		values.Release()

		children[i] = MakeFromData(child)
		child.Release()

		fields[i] = medley.Field{Name: fd.name, Type: fd.dtype, Nullable: true}
		codes[i] = fd.typeCode
	}
	defer func() {
		for _, c := range children {
			c.Release()
		}
	}()

	typeIDs := b.typeIDs.Finish()
	defer typeIDs.Release()

	var arr Union
	switch b.mode {
	case medley.DenseMode:
		offsets := b.offsets.Finish()
		defer offsets.Release()
		arr = NewDenseUnion(medley.DenseUnionOf(fields, codes), b.rows, children, typeIDs, offsets, 0)
	default:
		arr = NewSparseUnion(medley.SparseUnionOf(fields, codes), b.rows, children, typeIDs, 0)
	}

	if err := arr.ValidateFull(); err != nil {
		arr.Release()
		return nil, err
	}
	return arr, nil
}
