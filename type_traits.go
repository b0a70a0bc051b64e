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

package medley

import (
	"fmt"
	"unsafe"

	"github.com/d-willis/medley/float16"
	"golang.org/x/exp/constraints"
)

// IntTypes is a type constraint for raw values represented as signed
// integer types. We aren't just using constraints.Signed
// because we don't want to include the raw `int` type here whose size
// changes based on the architecture (int32 on 32-bit architectures and
// int64 on 64-bit architectures).
//
// This will also cover types like Date32 or Date64 as their underlying
// types are int32 and int64 which will get covered by using the ~
type IntTypes interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UintTypes is a type constraint for raw values represented as unsigned
// integer types. We aren't just using constraints.Unsigned
// because we don't want to include the raw `uint` type here whose size
// changes based on the architecture (uint32 on 32-bit architectures and
// uint64 on 64-bit architectures). We also don't want to include uintptr
type UintTypes interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// FloatTypes is a type constraint for raw values for representing
// floating point values. This consists of constraints.Float and
// float16.Num
type FloatTypes interface {
	float16.Num | constraints.Float
}

// NativeType is a type constraint for the Go types an array can hold
// values of, ie. the types with a one to one mapping to a DataType.
type NativeType interface {
	IntTypes | UintTypes | FloatTypes
}

// CastFromBytes reinterprets the slice b to a slice of type T.
//
// NOTE: len(b) must be a multiple of T's size.
func CastFromBytes[T NativeType](b []byte) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/int(unsafe.Sizeof(*new(T))))
}

// CastToBytes reinterprets the slice s to a slice of bytes.
func CastToBytes[T NativeType](s []T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(*new(T))))
}

// GetDataType returns the DataType for the native Go type T, for
// example GetDataType[int16]() returns PrimitiveTypes.Int16 and
// GetDataType[float16.Num]() returns FixedWidthTypes.Float16.
//
// The mapping is one to one, a defined type with an underlying type
// from NativeType has no DataType and this will panic for one.
func GetDataType[T NativeType]() DataType {
	var z T
	switch any(z).(type) {
	case int8:
		return PrimitiveTypes.Int8
	case int16:
		return PrimitiveTypes.Int16
	case int32:
		return PrimitiveTypes.Int32
	case int64:
		return PrimitiveTypes.Int64
	case uint8:
		return PrimitiveTypes.Uint8
	case uint16:
		return PrimitiveTypes.Uint16
	case uint32:
		return PrimitiveTypes.Uint32
	case uint64:
		return PrimitiveTypes.Uint64
	case float32:
		return PrimitiveTypes.Float32
	case float64:
		return PrimitiveTypes.Float64
	case float16.Num:
		return FixedWidthTypes.Float16
	case Date32:
		return PrimitiveTypes.Date32
	case Date64:
		return PrimitiveTypes.Date64
	}
	panic(fmt.Sprintf("medley: no data type for %T", z))
}
