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

	"github.com/d-willis/medley"
)

// Equal reports whether the two provided arrays are equal.
func Equal(left, right medley.Array) bool {
	switch {
	case !baseArrayEqual(left, right):
		return false
	case left.Len() == 0:
		return true
	case left.NullN() == left.Len():
		return true
	}

	// at this point, we know both arrays have same type, same length, same number of nulls
	// and nulls at the same place.
	// compare the values.

	switch l := left.(type) {
	case *Int8:
		r := right.(*Int8)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Int16:
		r := right.(*Int16)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Int32:
		r := right.(*Int32)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Int64:
		r := right.(*Int64)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Uint8:
		r := right.(*Uint8)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Uint16:
		r := right.(*Uint16)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Uint32:
		r := right.(*Uint32)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Uint64:
		r := right.(*Uint64)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Float16:
		r := right.(*Float16)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Float32:
		r := right.(*Float32)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Float64:
		r := right.(*Float64)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Date32:
		r := right.(*Date32)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *Date64:
		r := right.(*Date64)
		return numericArrayEqual(&l.numericArray, &r.numericArray)
	case *SparseUnion:
		r := right.(*SparseUnion)
		return arraySparseUnionEqual(l, r)
	case *DenseUnion:
		r := right.(*DenseUnion)
		return arrayDenseUnionEqual(l, r)

	default:
		panic(fmt.Errorf("medley/array: unknown array type %T", l))
	}
}

// SliceEqual reports whether slices left[lbeg:lend] and right[rbeg:rend] are equal.
func SliceEqual(left medley.Array, lbeg, lend int64, right medley.Array, rbeg, rend int64) bool {
	l := NewSlice(left, lbeg, lend)
	defer l.Release()
	r := NewSlice(right, rbeg, rend)
	defer r.Release()

	return Equal(l, r)
}

func baseArrayEqual(left, right medley.Array) bool {
	switch {
	case left.Len() != right.Len():
		return false
	case left.NullN() != right.NullN():
		return false
	case !medley.TypeEqual(left.DataType(), right.DataType()):
		return false
	case !validityBitmapEqual(left, right):
		return false
	}
	return true
}

func validityBitmapEqual(left, right medley.Array) bool {
	n := left.Len()
	if n != right.Len() {
		return false
	}
	for i := 0; i < n; i++ {
		if left.IsNull(i) != right.IsNull(i) {
			return false
		}
	}
	return true
}

func numericArrayEqual[T medley.NativeType](left, right *numericArray[T]) bool {
	for i := 0; i < left.Len(); i++ {
		if left.IsNull(i) {
			continue
		}
		if left.Value(i) != right.Value(i) {
			return false
		}
	}
	return true
}
